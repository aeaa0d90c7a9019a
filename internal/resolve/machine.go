package resolve

import (
	"context"
	"strings"

	"zaplink/internal/models"
)

// Resolver looks up a short link, optionally with a password.
type Resolver interface {
	Resolve(ctx context.Context, shortID, password string) (models.Content, error)
}

// Machine runs one visit to a short link.
type Machine struct {
	resolver Resolver
	shortID  string
	state    State
}

// NewMachine returns a machine in the Loading phase.
func NewMachine(r Resolver, shortID string) *Machine {
	return &Machine{resolver: r, shortID: shortID, state: State{Phase: Loading}}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Start performs the initial transition. A non-empty errorParam is mapped
// without calling the backend.
func (m *Machine) Start(ctx context.Context, errorParam string) State {
	if s, ok := FromErrorParam(errorParam); ok {
		m.state = s
		return m.state
	}

	m.state = State{Phase: Loading}
	content, err := m.resolver.Resolve(ctx, m.shortID, "")
	if err != nil {
		m.state = Classify(err)
		return m.state
	}
	m.state = State{Phase: Resolved, Content: content}
	return m.state
}

// Resume puts the machine back into the password panel, as when a password
// form is posted in a new request.
func (m *Machine) Resume() {
	m.state = State{Phase: PasswordRequired}
}

// SubmitPassword retries the resolve with password. It is a no-op outside
// the PasswordRequired phase.
func (m *Machine) SubmitPassword(ctx context.Context, password string) State {
	if m.state.Phase != PasswordRequired {
		return m.state
	}
	if strings.TrimSpace(password) == "" {
		m.state = passwordState(NoError, MsgPasswordMissing)
		return m.state
	}

	m.state.Verifying = true
	m.state.Message = ""
	content, err := m.resolver.Resolve(ctx, m.shortID, password)
	if err != nil {
		m.state = classifyRetry(err)
		return m.state
	}
	m.state = State{Phase: Resolved, Content: content}
	return m.state
}
