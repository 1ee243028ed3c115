package auth

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Handler exposes login and logout.
type Handler struct {
	service  Service
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, validate: validator.New(), log: log}
}

// RegisterRoutes mounts /login publicly and /logout behind RequireStore.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.With(RequireStore(h.service)).Post("/logout", h.logout)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.log.WithField("username", req.Username).WithError(err).Warn("login failed")
		respond(w, apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	respond(w, http.StatusOK, session)
}

// logout is stateless: the client discards its token.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if account, ok := StoreFromContext(r.Context()); ok {
		h.log.WithField("store_id", account.ID).Info("store logged out")
	}
	respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
