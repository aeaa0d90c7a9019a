// Package resolve drives a visit to a short link: resolving it against the
// backend, classifying failures and running the password retry loop.
package resolve

import "zaplink/internal/models"

// Phase is the coarse state of a visit.
type Phase int

const (
	Loading Phase = iota
	PasswordRequired
	Error
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case PasswordRequired:
		return "password_required"
	case Error:
		return "error"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// ErrorKind refines Error and PasswordRequired.
type ErrorKind int

const (
	NoError ErrorKind = iota
	Expired
	ViewLimitExceeded
	NotFound
	IncorrectPassword
	Unknown
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case Expired:
		return "expired"
	case ViewLimitExceeded:
		return "viewlimit"
	case NotFound:
		return "notfound"
	case IncorrectPassword:
		return "incorrect_password"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgExpired           = "This link has expired. The file is no longer available."
	MsgViewLimitExceeded = "View limit exceeded. This file is no longer accessible."
	MsgNotFound          = "This link does not exist or has expired."
	MsgIncorrectPassword = "Incorrect password. Please try again."
	MsgPasswordMissing   = "Password required."
	MsgUnexpected        = "An unexpected error occurred. Please try again later."
)

// State is a snapshot of a visit.
type State struct {
	Phase     Phase
	ErrorKind ErrorKind
	// Message is shown in the password panel or the error panel. Empty when
	// the password panel opens without a prior failure.
	Message   string
	Verifying bool
	// Content is set only in the Resolved phase.
	Content models.Content
}

// Heading is the title of the panel rendered for the state.
func (s State) Heading() string {
	switch s.Phase {
	case PasswordRequired:
		return "Password Required"
	case Error:
		switch s.ErrorKind {
		case Expired:
			return "Link Expired"
		case ViewLimitExceeded:
			return "View Limit Exceeded"
		case NotFound:
			return "Not Found"
		case IncorrectPassword:
			return "Incorrect Password"
		default:
			return "Access Denied"
		}
	case Loading:
		return "Loading..."
	default:
		return ""
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s.Phase == Error || s.Phase == Resolved
}

func errorState(kind ErrorKind, msg string) State {
	return State{Phase: Error, ErrorKind: kind, Message: msg}
}

func passwordState(kind ErrorKind, msg string) State {
	return State{Phase: PasswordRequired, ErrorKind: kind, Message: msg}
}
