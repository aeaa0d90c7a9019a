package db

import "errors"

// ErrStorageClosed is returned by session storage calls after Close.
var ErrStorageClosed = errors.New("session storage is closed")
