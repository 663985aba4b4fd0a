package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lazorvault/vaultd/internal/session"
)

type sessionState struct {
	Status    session.Status `json:"status"`
	PublicKey string         `json:"publicKey,omitempty"`
}

func (h *Handler) sessionSnapshot() sessionState {
	return sessionState{Status: h.session.Status(), PublicKey: h.session.PublicKey()}
}

// GetSession handles GET /api/v1/session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.sessionMu.Lock()
	state := h.sessionSnapshot()
	h.sessionMu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

// BeginAuth handles POST /api/v1/session/auth.
func (h *Handler) BeginAuth(w http.ResponseWriter, r *http.Request) {
	h.transition(w, func() error { return h.session.BeginAuth() })
}

// BeginConnect handles POST /api/v1/session/connect.
func (h *Handler) BeginConnect(w http.ResponseWriter, r *http.Request) {
	h.transition(w, func() error { return h.session.BeginConnect() })
}

type completeRequestBody struct {
	PublicKey string `json:"publicKey"`
}

// CompleteSession handles POST /api/v1/session/complete.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	var body completeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PublicKey == "" {
		writeError(w, http.StatusBadRequest, "publicKey is required")
		return
	}
	h.transition(w, func() error { return h.session.Complete(body.PublicKey) })
}

// Disconnect handles DELETE /api/v1/session.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.transition(w, func() error { return h.session.Disconnect() })
}

// transition applies a session transition under the lock and writes the
// resulting state, mapping invalid transitions to 409.
func (h *Handler) transition(w http.ResponseWriter, apply func() error) {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()

	if err := apply(); err != nil {
		if errors.Is(err, session.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		slog.Error("session transition failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.sessionSnapshot())
}
