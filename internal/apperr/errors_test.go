package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("fulfill: %w", &InsufficientStockError{BeanID: 5, Required: 6, Available: 5})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.EqualError(t, err, "fulfill: insufficient stock for bean 5: need 6, have 5")

	var stock *InsufficientStockError
	assert.True(t, errors.As(err, &stock))
	assert.Equal(t, int64(5), stock.BeanID)
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&InsufficientStockError{BeanID: 1}, http.StatusUnprocessableEntity},
		{fmt.Errorf("lookup: %w", ErrUnknownStore), http.StatusNotFound},
		{ErrUnknownProduct, http.StatusNotFound},
		{ErrUnknownBean, http.StatusNotFound},
		{ErrDuplicateInventoryRow, http.StatusConflict},
		{ErrUsernameTaken, http.StatusConflict},
		{ErrLockTimeout, http.StatusConflict},
		{Invalid("quantity must be positive"), http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "%v", tc.err)
	}
}

func TestBody(t *testing.T) {
	body := Body(&InsufficientStockError{BeanID: 7, Required: 5, Available: 3})
	assert.Equal(t, int64(7), body["bean_id"])
	assert.Equal(t, 5, body["required"])
	assert.Equal(t, 3, body["available"])

	assert.Equal(t, "internal server error", Body(errors.New("pq: password authentication failed"))["error"])
	assert.Equal(t, "invalid argument: rating must be between 1 and 5", Body(Invalid("rating must be between 1 and 5"))["error"])
}
