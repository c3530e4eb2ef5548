package bff

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/realtime"
)

// MountWebSocketRoutes exposes the realtime notifier's WebSocket relay
// (C9) to sellers and clients, each scoped to their own namespaced
// Redis Pub/Sub channel. Mounted on srv.Router rather than APIRouter —
// a long-lived WebSocket connection doesn't fit the request/response
// middleware chain the REST surface uses.
func MountWebSocketRoutes(srv *httpserver.Server, hub *realtime.Hub, notifier *realtime.Notifier, logger *slog.Logger) {
	srv.Router.Route("/ws", func(r chi.Router) {
		r.Use(RequirePrincipal(logger))

		r.Group(func(r chi.Router) {
			r.Use(RequireGroup(logger, GroupSeller))
			r.Get("/sellers/{id}", func(w http.ResponseWriter, r *http.Request) {
				id := chi.URLParam(r, "id")
				hub.ServeWS(w, r, notifier.SellerChannel(id))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireGroup(logger, GroupClient))
			r.Get("/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
				id := chi.URLParam(r, "id")
				hub.ServeWS(w, r, notifier.ClientChannel(id))
			})
		})
	})
}
