package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

// Claims carry the store explicitly; Subject mirrors it for standard tooling.
type Claims struct {
	StoreID int64 `json:"store_id"`
	jwt.StandardClaims
}

// AccountLookup is the part of user.Service auth needs.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*user.StoreAccount, error)
	GetByUsername(ctx context.Context, username string) (*user.StoreAccount, error)
}

type service struct {
	accounts AccountLookup
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service.
func NewService(accounts AccountLookup, secret string, ttl time.Duration) Service {
	return &service{accounts: accounts, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrUnknownStore) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	issuedAt := s.now()
	expirationTime := issuedAt.Add(s.ttl)
	claims := &Claims{
		StoreID: account.ID,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     tokenString,
		ExpiresAt: expirationTime,
		StoreID:   account.ID,
		StoreName: account.StoreName,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, tokenString string) (*user.StoreAccount, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.ErrUnauthorized
	}
	if claims.StoreID <= 0 || claims.Subject != strconv.FormatInt(claims.StoreID, 10) {
		return nil, apperr.ErrUnauthorized
	}

	account, err := s.accounts.GetByID(ctx, claims.StoreID)
	if errors.Is(err, apperr.ErrUnknownStore) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
