package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter constructs the router with all game endpoints registered.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()

	// The game client is served from a separate origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Uptime probes hit this one.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Server is awake!"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/get-player", h.GetPlayer)
		r.Post("/register", h.Register)
		r.Post("/buy-coins", h.BuyCoins)
		r.Post("/battle-start", h.BattleStart)
		r.Post("/battle-action", h.BattleAction)
		r.Post("/withdraw", h.WithdrawAuthorize)
		r.Post("/withdraw-success", h.WithdrawSettle)
		r.Get("/kill-feed", h.KillFeed)
	})

	return r
}
