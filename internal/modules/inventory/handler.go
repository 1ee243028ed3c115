package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/auth"
	"github.com/georgemunganga/coffee-tracker/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CatalogReader is the catalog data the restock form needs.
type CatalogReader interface {
	ListBeans(ctx context.Context) ([]*catalog.Bean, error)
	ListSuppliers(ctx context.Context) ([]*catalog.Supplier, error)
}

// Handler exposes inventory HTTP endpoints. Every route expects auth.RequireStore upstream.
type Handler struct {
	service  Service
	catalog  CatalogReader
	validate *validator.Validate
}

func NewHandler(service Service, catalog CatalogReader) *Handler {
	return &Handler{service: service, catalog: catalog, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/add-inventory", h.restockForm)
	r.Post("/add-inventory", h.restock)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/low-stock", h.lowStock) // ?threshold=...
		r.Post("/deduct", h.deduct)
	})
}

type restockBody struct {
	BeanID         int64  `json:"bean_id" validate:"required,gt=0"`
	Amount         int    `json:"amount" validate:"required,gt=0"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

func (h *Handler) restockForm(w http.ResponseWriter, r *http.Request) {
	beans, err := h.catalog.ListBeans(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	suppliers, err := h.catalog.ListSuppliers(r.Context())
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"beans": beans, "suppliers": suppliers})
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	var body restockBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req := RestockRequest{BeanID: body.BeanID, Amount: body.Amount}
	if body.ExpirationDate != "" {
		exp, err := parseDate(body.ExpirationDate)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "expiration_date must be YYYY-MM-DD"})
			return
		}
		req.ExpirationDate = &exp
	}

	item, err := h.service.Restock(r.Context(), store.ID, req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) deduct(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	var req DeductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	level, err := h.service.Deduct(r.Context(), store.ID, req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, level)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	items, err := h.service.ListStore(r.Context(), store.ID)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	store, ok := auth.StoreFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
		return
	}
	threshold := h.service.Threshold()
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "threshold must be an integer"})
			return
		}
		threshold = n
	}
	items, err := h.service.LowStock(r.Context(), store.ID, threshold)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"threshold": threshold, "items": items})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
