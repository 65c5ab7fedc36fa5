package main

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStateFile(t *testing.T) *StateFile {
	t.Helper()
	return NewStateFile(filepath.Join(t.TempDir(), "admin_state.json"))
}

func TestSharedSecretExactMatch(t *testing.T) {
	cfg := Config{AdminSecret: "PizzaWhite70"}
	identity := NewIdentityService(nil, "")

	gate := NewAdminGate(cfg, identity, newTestStateFile(t))
	if err := gate.AttemptPassword("PizzaWhite70"); err != nil {
		t.Fatalf("correct secret rejected: %v", err)
	}
	if !gate.IsAdmin() {
		t.Fatal("gate not logged in after correct secret")
	}

	gate = NewAdminGate(cfg, identity, newTestStateFile(t))
	if err := gate.AttemptPassword("pizzawhite70"); !errors.Is(err, ErrWrongSecret) {
		t.Fatalf("case-insensitive match must fail, got %v", err)
	}
	if gate.State() != StateLoggedOut {
		t.Fatal("gate left logged out state after wrong secret")
	}
}

func TestNoConfiguredSecretNeverSucceeds(t *testing.T) {
	gate := NewAdminGate(Config{}, NewIdentityService(nil, ""), newTestStateFile(t))

	for _, attempt := range []string{"", "anything", "PizzaWhite70"} {
		if err := gate.AttemptPassword(attempt); !errors.Is(err, ErrWrongSecret) {
			t.Fatalf("attempt %q: expected ErrWrongSecret, got %v", attempt, err)
		}
	}
	if gate.IsAdmin() {
		t.Fatal("gate logged in without a configured secret")
	}
}

func TestSharedSecretLoginSurvivesRestart(t *testing.T) {
	cfg := Config{AdminSecret: "PizzaWhite70"}
	identity := NewIdentityService(nil, "")
	flag := newTestStateFile(t)

	gate := NewAdminGate(cfg, identity, flag)
	if err := gate.AttemptPassword("PizzaWhite70"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Simulated restart: a fresh gate over the same state file.
	rehydrated := NewAdminGate(cfg, identity, flag)
	if !rehydrated.IsAdmin() {
		t.Fatal("persisted login not re-hydrated on restart")
	}

	rehydrated.Logout()
	if rehydrated.IsAdmin() {
		t.Fatal("gate still logged in after logout")
	}

	afterLogout := NewAdminGate(cfg, identity, flag)
	if afterLogout.IsAdmin() {
		t.Fatal("restart after logout must show logged out")
	}
}

func TestDelegatedModeCredentials(t *testing.T) {
	store := newTestStore(t)
	identity := NewIdentityService(store.DB(), "")
	if _, err := identity.CreateAdminUser("owner@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}

	cfg := Config{DelegatedAdmin: true}
	gate := NewAdminGate(cfg, identity, newTestStateFile(t))
	if gate.Mode() != ModeDelegated {
		t.Fatal("expected delegated mode with a configured backend")
	}

	if err := gate.AttemptCredentials("owner@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if gate.State() != StateLoggedOut {
		t.Fatal("failed attempt must return the gate to logged out")
	}

	if err := gate.AttemptCredentials("owner@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if !gate.IsAdmin() {
		t.Fatal("gate not logged in after valid credentials")
	}
	if sess := gate.CurrentSession(); sess == nil || sess.Email != "owner@example.com" {
		t.Fatalf("delegated session not carried: %+v", gate.CurrentSession())
	}

	gate.Logout()
	if gate.IsAdmin() {
		t.Fatal("gate still logged in after logout")
	}
	if identity.CurrentSession() != nil {
		t.Fatal("logout did not sign out of the identity service")
	}
}

func TestDelegatedModeRequiresBackend(t *testing.T) {
	identity := NewIdentityService(nil, "")
	gate := NewAdminGate(Config{DelegatedAdmin: true, AdminSecret: "s"}, identity, newTestStateFile(t))
	if gate.Mode() != ModeSharedSecret {
		t.Fatal("delegated mode selected without an identity backend")
	}
}
