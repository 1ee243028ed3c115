package pos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/auth"
	"github.com/georgemunganga/coffee-tracker/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ProductLister lists what a store can sell.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]*catalog.Product, error)
}

// Handler exposes purchase HTTP endpoints. Every route expects auth.RequireStore upstream.
type Handler struct {
	service  Service
	products ProductLister
	validate *validator.Validate
}

func NewHandler(service Service, products ProductLister) *Handler {
	return &Handler{service: service, products: products, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/purchase", h.listProducts)          // GET  /purchase
	r.Post("/purchase", h.fulfill)              // POST /purchase
	r.Get("/purchase_history", h.listPurchases) // GET  /purchase_history
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) fulfill(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	var req FulfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Fulfill(r.Context(), store.ID, req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	purchases, err := h.service.History(r.Context(), store.ID)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, purchases)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
