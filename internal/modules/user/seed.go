package user

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type seedFile struct {
	Logins []struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		StoreName string `json:"store_name"`
	} `json:"logins"`
}

// SeedFromFile imports existing store credentials. Accounts whose username
// already exists are left untouched.
func SeedFromFile(ctx context.Context, svc Service, path string, log logrus.FieldLogger) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read credentials seed: %w", err)
	}
	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("decode credentials seed: %w", err)
	}

	created := 0
	for _, login := range data.Logins {
		ok, err := svc.EnsureAccount(ctx, RegisterRequest{
			Username:  login.Username,
			Password:  login.Password,
			StoreName: login.StoreName,
		})
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", login.Username, err)
		}
		if ok {
			created++
			log.WithField("username", login.Username).Info("store account imported")
		}
	}
	return created, nil
}
