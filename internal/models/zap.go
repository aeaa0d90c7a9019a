package models

import "time"

// File is an uploaded payload held in memory until submission.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadRequest is one submission to the backend upload endpoint.
// Exactly one of File, OriginalURL or TextContent is set.
type UploadRequest struct {
	Name        string
	Type        string // Upper-cased content type id
	File        *File
	OriginalURL string
	TextContent string
	Password    string
	ViewLimit   uint64     // Zero when no view limit applies
	ExpiresAt   *time.Time // Absolute expiry fixed at submission time
}

// SubmissionResult is what the backend returns for a created zap.
// It is handed to the customize screen by value and never persisted.
type SubmissionResult struct {
	ZapID       string `json:"zapId"`
	ShortURL    string `json:"shortUrl"`
	QRCodeImage string `json:"qrCode"`
	Type        string `json:"type"`
	Name        string `json:"name"`
}

// ShortenResult is the response of the URL-shortening-only endpoint.
type ShortenResult struct {
	ShortURL    string `json:"shortUrl"`
	QRCodeImage string `json:"qrCode"`
	ZapID       string `json:"zapId,omitempty"`
}
