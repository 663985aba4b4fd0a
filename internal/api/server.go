package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. The snapshot
// routes are registered only when snapshots are enabled (a database is
// configured).
func NewServer(port string, handler *Handler, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/tokens", handler.ListTokens)
	mux.HandleFunc("GET /api/v1/portfolio/{wallet}", handler.GetPortfolio)
	mux.HandleFunc("GET /api/v1/quote", handler.GetQuote)
	mux.HandleFunc("POST /api/v1/swap", handler.BuildSwap)

	if handler.session != nil {
		mux.HandleFunc("GET /api/v1/session", handler.GetSession)
		mux.HandleFunc("POST /api/v1/session/auth", handler.BeginAuth)
		mux.HandleFunc("POST /api/v1/session/connect", handler.BeginConnect)
		mux.HandleFunc("POST /api/v1/session/complete", handler.CompleteSession)
		mux.HandleFunc("DELETE /api/v1/session", handler.Disconnect)
	}

	if handler.snapshots != nil {
		mux.HandleFunc("GET /api/v1/snapshots/latest", handler.GetLatestSnapshot)
		mux.HandleFunc("GET /api/v1/snapshots/{date}", handler.GetSnapshotByDate)
		mux.HandleFunc("GET /api/v1/snapshots", handler.ListSnapshots)

		generateHandler := http.HandlerFunc(handler.GenerateSnapshot)
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/snapshots/generate", requireAuth(adminAPIKey, generateHandler))
		} else {
			mux.Handle("POST /api/v1/snapshots/generate", generateHandler)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
