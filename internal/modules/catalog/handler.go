package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/beans", h.listBeans)
		r.Get("/suppliers", h.listSuppliers)
		r.Get("/products", h.listProducts)
	})
}

func (h *Handler) listBeans(w http.ResponseWriter, r *http.Request) {
	beans, err := h.service.ListBeans(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, beans)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, suppliers)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, products)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
