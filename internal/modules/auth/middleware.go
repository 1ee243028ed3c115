package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
)

type ctxKey struct{}

// WithStore returns a context carrying the authenticated store.
func WithStore(ctx context.Context, account *user.StoreAccount) context.Context {
	return context.WithValue(ctx, ctxKey{}, account)
}

// StoreFromContext returns the store set by RequireStore.
func StoreFromContext(ctx context.Context) (*user.StoreAccount, bool) {
	account, ok := ctx.Value(ctxKey{}).(*user.StoreAccount)
	return account, ok && account != nil
}

// RequireStore rejects requests without a valid bearer token for an existing store.
func RequireStore(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond(w, http.StatusUnauthorized, apperr.Body(apperr.ErrUnauthorized))
				return
			}
			account, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				respond(w, apperr.HTTPStatus(err), apperr.Body(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), account)))
		})
	}
}
