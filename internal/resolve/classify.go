package resolve

import (
	"errors"
	"net/http"
	"strings"

	"zaplink/internal/zapapi"
)

// backendError is satisfied by *zapapi.APIError.
type backendError interface {
	Status() int
	BackendMessage() string
	ErrorCode() string
}

// FromErrorParam maps the ?error= indicator left by a prior redirect. ok is
// false when param is empty and the backend must be asked instead.
func FromErrorParam(param string) (State, bool) {
	switch param {
	case "":
		return State{}, false
	case "expired":
		return errorState(Expired, MsgExpired), true
	case "viewlimit":
		return errorState(ViewLimitExceeded, MsgViewLimitExceeded), true
	case "notfound":
		return errorState(NotFound, MsgNotFound), true
	case "incorrect_password":
		return passwordState(IncorrectPassword, MsgIncorrectPassword), true
	default:
		return errorState(Unknown, MsgUnexpected), true
	}
}

// Classify maps a failed initial resolve to the next state.
func Classify(err error) State {
	var be backendError
	if !errors.As(err, &be) {
		return errorState(Unknown, MsgUnexpected)
	}

	switch be.ErrorCode() {
	case zapapi.CodePasswordRequired:
		return passwordState(NoError, "")
	case zapapi.CodeIncorrectPassword:
		return passwordState(IncorrectPassword, MsgIncorrectPassword)
	case zapapi.CodeExpired:
		return errorState(Expired, MsgExpired)
	case zapapi.CodeViewLimitExceeded:
		return errorState(ViewLimitExceeded, MsgViewLimitExceeded)
	case zapapi.CodeNotFound:
		return errorState(NotFound, MsgNotFound)
	}

	switch be.Status() {
	case http.StatusUnauthorized:
		switch messageKind(be.BackendMessage()) {
		case kindPasswordRequired:
			return passwordState(NoError, "")
		case kindIncorrectPassword:
			return passwordState(IncorrectPassword, MsgIncorrectPassword)
		}
	case http.StatusGone:
		return errorState(Expired, MsgExpired)
	case http.StatusForbidden:
		return errorState(ViewLimitExceeded, MsgViewLimitExceeded)
	case http.StatusNotFound:
		return errorState(NotFound, MsgNotFound)
	}
	return errorState(Unknown, MsgUnexpected)
}

// classifyRetry maps a failed password submission. Unlike Classify, 410 means
// the view limit was consumed, and unrecognized failures keep the password
// panel open so the visitor can try again.
func classifyRetry(err error) State {
	var be backendError
	if !errors.As(err, &be) {
		return passwordState(Unknown, MsgUnexpected)
	}

	switch be.ErrorCode() {
	case zapapi.CodeIncorrectPassword:
		return passwordState(IncorrectPassword, MsgIncorrectPassword)
	case zapapi.CodePasswordRequired:
		return passwordState(NoError, MsgPasswordMissing)
	case zapapi.CodeExpired, zapapi.CodeViewLimitExceeded:
		return errorState(ViewLimitExceeded, MsgViewLimitExceeded)
	case zapapi.CodeNotFound:
		return errorState(NotFound, MsgNotFound)
	}

	switch be.Status() {
	case http.StatusUnauthorized:
		switch messageKind(be.BackendMessage()) {
		case kindIncorrectPassword:
			return passwordState(IncorrectPassword, MsgIncorrectPassword)
		case kindPasswordRequired:
			return passwordState(NoError, MsgPasswordMissing)
		}
	case http.StatusGone, http.StatusForbidden:
		return errorState(ViewLimitExceeded, MsgViewLimitExceeded)
	case http.StatusNotFound:
		return errorState(NotFound, MsgNotFound)
	}
	return passwordState(Unknown, MsgUnexpected)
}

type authMessage int

const (
	kindOther authMessage = iota
	kindPasswordRequired
	kindIncorrectPassword
)

// messageKind is the fallback for backends that send no errorCode.
func messageKind(msg string) authMessage {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "incorrect password"):
		return kindIncorrectPassword
	case strings.Contains(msg, "password required"):
		return kindPasswordRequired
	default:
		return kindOther
	}
}
