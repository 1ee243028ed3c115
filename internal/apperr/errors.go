// Package apperr holds the error taxonomy shared by every module.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrUnknownStore          = errors.New("store name does not exist")
	ErrUnknownProduct        = errors.New("unknown product")
	ErrUnknownBean           = errors.New("unknown bean")
	ErrDuplicateInventoryRow = errors.New("duplicate inventory row")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrLockTimeout           = errors.New("resource is busy, try again")
)

// InsufficientStockError reports which bean fell short and by how much.
type InsufficientStockError struct {
	BeanID    int64
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for bean %d: need %d, have %d", e.BeanID, e.Required, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientStock) match the detailed error.
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Invalid wraps ErrInvalidArgument with a field-specific message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error from any layer to the response code handlers use.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnknownStore), errors.Is(err, ErrUnknownProduct), errors.Is(err, ErrUnknownBean):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateInventoryRow), errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrLockTimeout):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the JSON error payload. Stock shortfalls carry their details.
func Body(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		body["bean_id"] = stock.BeanID
		body["required"] = stock.Required
		body["available"] = stock.Available
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		body["error"] = "internal server error"
	}
	return body
}
