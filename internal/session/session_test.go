package session

import (
	"errors"
	"testing"
)

func TestConnectLifecycle(t *testing.T) {
	store := NewMemoryStore()
	s := New(store)

	if s.Status() != StatusIdle {
		t.Fatalf("initial status = %s", s.Status())
	}
	if err := s.BeginAuth(); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginConnect(); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete("pubkey1"); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusConnected || s.PublicKey() != "pubkey1" {
		t.Errorf("status = %s, publicKey = %s", s.Status(), s.PublicKey())
	}

	// Key persisted through the store.
	if v, err := store.Get(publicKeyStoreKey); err != nil || v != "pubkey1" {
		t.Errorf("stored key = %q, err = %v", v, err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	s := New(NewMemoryStore())

	if err := s.BeginConnect(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("BeginConnect from idle: err = %v", err)
	}
	if err := s.Complete("pk"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete from idle: err = %v", err)
	}
	if err := s.Fail(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fail from idle: err = %v", err)
	}

	if err := s.BeginAuth(); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginAuth(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("BeginAuth twice: err = %v", err)
	}
}

func TestCompleteRequiresPublicKey(t *testing.T) {
	s := New(NewMemoryStore())
	s.BeginAuth()
	s.BeginConnect()
	if err := s.Complete(""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete with empty key: err = %v", err)
	}
}

func TestFailReturnsToIdle(t *testing.T) {
	s := New(NewMemoryStore())
	s.BeginAuth()
	if err := s.Fail(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusIdle {
		t.Errorf("status after Fail = %s", s.Status())
	}
	// The full cycle works again after a failure.
	if err := s.BeginAuth(); err != nil {
		t.Errorf("BeginAuth after Fail: %v", err)
	}
}

func TestDisconnectClearsStore(t *testing.T) {
	store := NewMemoryStore()
	s := New(store)
	s.BeginAuth()
	s.BeginConnect()
	s.Complete("pk")

	if err := s.Disconnect(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusIdle || s.PublicKey() != "" {
		t.Errorf("status = %s, publicKey = %q", s.Status(), s.PublicKey())
	}
	if _, err := store.Get(publicKeyStoreKey); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("stored key should be deleted, err = %v", err)
	}
}

func TestResume(t *testing.T) {
	store := NewMemoryStore()
	store.Set(publicKeyStoreKey, "pk-restored")

	s := New(store)
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusConnected || s.PublicKey() != "pk-restored" {
		t.Errorf("status = %s, publicKey = %s", s.Status(), s.PublicKey())
	}
}

func TestResumeNothingStored(t *testing.T) {
	s := New(NewMemoryStore())
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusIdle {
		t.Errorf("status = %s, want idle", s.Status())
	}
}
