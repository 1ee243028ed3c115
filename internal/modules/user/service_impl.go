package user

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
	cost int
}

// NewService creates a new store account service.
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*StoreAccount, error) {
	username := strings.TrimSpace(req.Username)
	storeName := strings.TrimSpace(req.StoreName)
	if username == "" || storeName == "" || req.Password == "" {
		return nil, apperr.Invalid("username, password and store_name are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	account := &StoreAccount{
		Username:     username,
		PasswordHash: string(hashedPassword),
		StoreName:    storeName,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) EnsureAccount(ctx context.Context, req RegisterRequest) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperr.ErrUnknownStore) {
		return false, err
	}
	if _, err := s.Register(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*StoreAccount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*StoreAccount, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *service) GetByStoreName(ctx context.Context, name string) (*StoreAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ErrUnknownStore
	}
	return s.repo.GetByStoreName(ctx, name)
}
