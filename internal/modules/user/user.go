package user

import (
	"time"
)

// StoreAccount is a tenant: one coffee shop with its owner's login.
type StoreAccount struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	StoreName    string    `json:"store_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for creating a store account.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=6"`
	StoreName string `json:"store_name" validate:"required,max=128"`
}
