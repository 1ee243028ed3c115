package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccounts map[int64]*user.StoreAccount

func (f fakeAccounts) GetByID(_ context.Context, id int64) (*user.StoreAccount, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, apperr.ErrUnknownStore
}

func (f fakeAccounts) GetByUsername(_ context.Context, username string) (*user.StoreAccount, error) {
	for _, a := range f {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, apperr.ErrUnknownStore
}

func newAccounts(t *testing.T) fakeAccounts {
	hash, err := bcrypt.GenerateFromPassword([]byte("latte-art"), bcrypt.MinCost)
	require.NoError(t, err)
	return fakeAccounts{
		1: {ID: 1, Username: "owner", PasswordHash: string(hash), StoreName: "Bean There"},
	}
}

func TestLoginIssuesStoreToken(t *testing.T) {
	accounts := newAccounts(t)
	svc := NewService(accounts, "secret", time.Hour)

	session, err := svc.Login(context.Background(), "owner", "latte-art")
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.StoreID)
	assert.Equal(t, "Bean There", session.StoreName)

	account, err := svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(newAccounts(t), "secret", time.Hour)

	_, err := svc.Login(context.Background(), "owner", "wrong")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), "nobody", "latte-art")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))
}

func TestAuthenticateRejectsForeignKey(t *testing.T) {
	accounts := newAccounts(t)
	session, err := NewService(accounts, "other-secret", time.Hour).Login(context.Background(), "owner", "latte-art")
	require.NoError(t, err)

	_, err = NewService(accounts, "secret", time.Hour).Authenticate(context.Background(), session.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestAuthenticateRejectsUnknownStore(t *testing.T) {
	accounts := newAccounts(t)
	svc := NewService(accounts, "secret", time.Hour)
	session, err := svc.Login(context.Background(), "owner", "latte-art")
	require.NoError(t, err)

	delete(accounts, 1)
	_, err = svc.Authenticate(context.Background(), session.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestAuthenticateRejectsMismatchedSubject(t *testing.T) {
	claims := &Claims{
		StoreID: 1,
		StandardClaims: jwt.StandardClaims{
			Subject:   "2",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewService(newAccounts(t), "secret", time.Hour).Authenticate(context.Background(), token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestAuthenticateRejectsExpired(t *testing.T) {
	accounts := newAccounts(t)
	svc := NewService(accounts, "secret", time.Hour).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := svc.Login(context.Background(), "owner", "latte-art")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), session.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestRequireStoreAndLogout(t *testing.T) {
	svc := NewService(newAccounts(t), "secret", time.Hour)
	log, _ := test.NewNullLogger()
	router := chi.NewRouter()
	NewHandler(svc, log).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"owner","password":"latte-art"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_id":1`)

	session, err := svc.Login(context.Background(), "owner", "latte-art")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"owner","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStoreFromContext(t *testing.T) {
	_, ok := StoreFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithStore(context.Background(), &user.StoreAccount{ID: 3})
	account, ok := StoreFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(3), account.ID)
}
