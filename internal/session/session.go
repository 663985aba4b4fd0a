// Package session models a wallet connection as an explicit object driven by
// caller transitions, with persistence behind an injected Store. There is no
// package-level connection state.
package session

import (
	"errors"
	"fmt"
)

// Status is the wallet connection state.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusAuthenticating Status = "authenticating"
	StatusConnecting     Status = "connecting"
	StatusConnected      Status = "connected"
)

// ErrInvalidTransition indicates a state transition the FSM does not allow.
var ErrInvalidTransition = errors.New("invalid session transition")

const publicKeyStoreKey = "wallet.publicKey"

// Session is one wallet connection lifecycle:
// idle -> authenticating -> connecting -> connected, with Fail and
// Disconnect returning to idle.
type Session struct {
	store     Store
	status    Status
	publicKey string
}

// New creates an idle session over the given store.
func New(store Store) *Session {
	return &Session{store: store, status: StatusIdle}
}

// Status returns the current connection state.
func (s *Session) Status() Status { return s.status }

// PublicKey returns the connected wallet's public key, empty unless connected.
func (s *Session) PublicKey() string { return s.publicKey }

// BeginAuth starts passkey authentication. Only valid from idle.
func (s *Session) BeginAuth() error {
	if s.status != StatusIdle {
		return fmt.Errorf("%w: BeginAuth from %s", ErrInvalidTransition, s.status)
	}
	s.status = StatusAuthenticating
	return nil
}

// BeginConnect starts wallet connection after authentication succeeded.
func (s *Session) BeginConnect() error {
	if s.status != StatusAuthenticating {
		return fmt.Errorf("%w: BeginConnect from %s", ErrInvalidTransition, s.status)
	}
	s.status = StatusConnecting
	return nil
}

// Complete finishes the connection with the wallet's public key and persists
// it through the store.
func (s *Session) Complete(publicKey string) error {
	if s.status != StatusConnecting {
		return fmt.Errorf("%w: Complete from %s", ErrInvalidTransition, s.status)
	}
	if publicKey == "" {
		return fmt.Errorf("%w: empty public key", ErrInvalidTransition)
	}
	if err := s.store.Set(publicKeyStoreKey, publicKey); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	s.status = StatusConnected
	s.publicKey = publicKey
	return nil
}

// Fail aborts an in-flight authentication or connection attempt.
func (s *Session) Fail() error {
	if s.status != StatusAuthenticating && s.status != StatusConnecting {
		return fmt.Errorf("%w: Fail from %s", ErrInvalidTransition, s.status)
	}
	s.status = StatusIdle
	return nil
}

// Disconnect returns the session to idle from any state and removes the
// persisted key.
func (s *Session) Disconnect() error {
	if err := s.store.Delete(publicKeyStoreKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.status = StatusIdle
	s.publicKey = ""
	return nil
}

// Resume restores a previously connected session from the store. Only valid
// from idle; a missing stored key leaves the session idle without error.
func (s *Session) Resume() error {
	if s.status != StatusIdle {
		return fmt.Errorf("%w: Resume from %s", ErrInvalidTransition, s.status)
	}
	publicKey, err := s.store.Get(publicKeyStoreKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	s.status = StatusConnected
	s.publicKey = publicKey
	return nil
}
