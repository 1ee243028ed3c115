package review

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler exposes review HTTP endpoints.
type Handler struct {
	service  Service
	validate *validator.Validate
	limit    func(http.Handler) http.Handler
}

// NewHandler wraps submissions with limit when it is non-nil.
func NewHandler(service Service, limit func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, validate: validator.New(), limit: limit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/review", func(r chi.Router) {
		r.Get("/", h.find) // ?shop_name=...
		if h.limit != nil {
			r.With(h.limit).Post("/", h.submit)
		} else {
			r.Post("/", h.submit)
		}
	})
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.FindForStore(r.Context(), r.URL.Query().Get("shop_name"))
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, reviews)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rv, err := h.service.Submit(r.Context(), req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusCreated, rv)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
