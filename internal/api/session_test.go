package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/lazorvault/vaultd/internal/session"
)

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decodeSessionState(t *testing.T, resp *http.Response) sessionState {
	t.Helper()
	defer resp.Body.Close()
	var state sessionState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decoding session state: %v", err)
	}
	return state
}

func TestSessionRoutesAbsentWithoutSession(t *testing.T) {
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/session", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSessionConnectFlow(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, nil, sess)
	srv := newTestServer(t, handler, "")

	state := decodeSessionState(t, doRequest(t, http.MethodGet, srv.URL+"/api/v1/session", ""))
	if state.Status != session.StatusIdle {
		t.Fatalf("initial status = %s, want idle", state.Status)
	}

	// Connect before auth is an invalid transition.
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/session/connect", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("connect before auth: expected 409, got %d", resp.StatusCode)
	}

	state = decodeSessionState(t, doRequest(t, http.MethodPost, srv.URL+"/api/v1/session/auth", ""))
	if state.Status != session.StatusAuthenticating {
		t.Errorf("status = %s, want authenticating", state.Status)
	}

	state = decodeSessionState(t, doRequest(t, http.MethodPost, srv.URL+"/api/v1/session/connect", ""))
	if state.Status != session.StatusConnecting {
		t.Errorf("status = %s, want connecting", state.Status)
	}

	// Complete requires a public key.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/session/complete", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("complete without key: expected 400, got %d", resp.StatusCode)
	}

	state = decodeSessionState(t, doRequest(t, http.MethodPost, srv.URL+"/api/v1/session/complete", `{"publicKey":"pk1"}`))
	if state.Status != session.StatusConnected || state.PublicKey != "pk1" {
		t.Errorf("state = %+v, want connected pk1", state)
	}

	state = decodeSessionState(t, doRequest(t, http.MethodDelete, srv.URL+"/api/v1/session", ""))
	if state.Status != session.StatusIdle || state.PublicKey != "" {
		t.Errorf("state after disconnect = %+v, want idle", state)
	}
}
