package main

import (
	"crypto/subtle"
	"errors"
	"log"
	"sync"
)

// ErrWrongSecret is returned by every failed Mode A attempt, including every
// attempt made while no secret is configured.
var ErrWrongSecret = errors.New("wrong admin password")

type GateState int

const (
	StateLoggedOut GateState = iota
	StateAuthenticating
	StateLoggedIn
)

type GateMode int

const (
	// ModeSharedSecret compares the input against a configured secret and
	// persists the logged-in flag locally.
	ModeSharedSecret GateMode = iota
	// ModeDelegated hands credentials to the identity service; session
	// persistence is the identity service's concern.
	ModeDelegated
)

// AdminGate guards the submissions view. The mode is fixed at construction
// and never changes for the life of the process.
type AdminGate struct {
	mode     GateMode
	secret   string
	identity *IdentityService
	flag     *StateFile

	mu      sync.Mutex
	state   GateState
	session *Session
}

// NewAdminGate selects the gate mode from configuration: delegated when
// requested and the identity backend supports password sign-in, shared secret
// otherwise. A persisted Mode A login is re-hydrated here.
func NewAdminGate(cfg Config, identity *IdentityService, flag *StateFile) *AdminGate {
	g := &AdminGate{
		mode:     ModeSharedSecret,
		secret:   cfg.AdminSecret,
		identity: identity,
		flag:     flag,
	}
	if cfg.DelegatedAdmin && identity.SupportsPassword() {
		g.mode = ModeDelegated
	}

	if g.mode == ModeSharedSecret && flag != nil && flag.AdminLoggedIn() {
		g.state = StateLoggedIn
	}
	return g
}

func (g *AdminGate) Mode() GateMode {
	return g.mode
}

func (g *AdminGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsAdmin reports whether an admin session is active.
func (g *AdminGate) IsAdmin() bool {
	return g.State() == StateLoggedIn
}

// CurrentSession returns the delegated session carried by a Mode B login,
// or nil (Mode A logins carry no identity).
func (g *AdminGate) CurrentSession() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// AttemptPassword handles a Mode A login. The comparison is exact: case
// sensitive, no trimming. With no secret configured no input ever succeeds.
func (g *AdminGate) AttemptPassword(input string) error {
	if g.mode != ModeSharedSecret {
		return ErrWrongSecret
	}
	if g.secret == "" || subtle.ConstantTimeCompare([]byte(input), []byte(g.secret)) != 1 {
		return ErrWrongSecret
	}

	g.mu.Lock()
	g.state = StateLoggedIn
	g.mu.Unlock()

	if g.flag != nil {
		if err := g.flag.SetAdminLoggedIn(true); err != nil {
			log.Printf("WARN: failed to persist admin login: %v", err)
		}
	}
	return nil
}

// AttemptCredentials handles a Mode B login, surfacing the identity service's
// error verbatim on failure.
func (g *AdminGate) AttemptCredentials(email, password string) error {
	if g.mode != ModeDelegated {
		return ErrInvalidCredentials
	}

	g.mu.Lock()
	g.state = StateAuthenticating
	g.mu.Unlock()

	sess, err := g.identity.SignInWithPassword(email, password)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateLoggedOut
		g.session = nil
		return err
	}
	g.state = StateLoggedIn
	g.session = sess
	return nil
}

// Logout returns the gate to LoggedOut in either mode, clearing the persisted
// Mode A flag and signing out of the identity service in Mode B.
func (g *AdminGate) Logout() {
	g.mu.Lock()
	wasDelegated := g.mode == ModeDelegated && g.session != nil
	g.state = StateLoggedOut
	g.session = nil
	g.mu.Unlock()

	if g.flag != nil {
		if err := g.flag.SetAdminLoggedIn(false); err != nil {
			log.Printf("WARN: failed to clear admin login flag: %v", err)
		}
	}
	if wasDelegated {
		g.identity.SignOut()
	}
}
