package auth

import (
	"context"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	// Authenticate validates a token and loads the store it names.
	Authenticate(ctx context.Context, token string) (*user.StoreAccount, error)
}

// Session is returned after a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	StoreID   int64     `json:"store_id"`
	StoreName string    `json:"store_name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
