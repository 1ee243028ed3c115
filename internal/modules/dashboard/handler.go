package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler serves the authenticated store's dashboard.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.show)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	view, err := h.service.Build(r.Context(), store)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, view)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
