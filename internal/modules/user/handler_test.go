package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(newTestService(newMemoryRepo())).RegisterRoutes(router)

	body := `{"username":"owner","password":"secret1","store_name":"Bean There"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Bean There", got["store_name"])
	assert.NotContains(t, got, "password_hash")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterEndpointValidates(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(newTestService(newMemoryRepo())).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"ow","password":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
