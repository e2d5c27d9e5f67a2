package http

import (
	"encoding/json"
	"net/http"

	"brain-battle/internal/rank"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type tierInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	MinScore int    `json:"minScore"`
}

// NewRouter mounts the websocket endpoint next to health and tier lookups.
func NewRouter(ws *WSHandler) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(cors.AllowAll().Handler)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/tiers", handleTiers)
	mux.Get("/ws", ws.ServeWS)
	return mux
}

func handleTiers(w http.ResponseWriter, _ *http.Request) {
	tiers := make([]tierInfo, 0, rank.TierCount)
	for i, name := range rank.Names() {
		tiers = append(tiers, tierInfo{Index: i, Name: name, MinScore: i * rank.StarsPerTier})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tiers)
}
