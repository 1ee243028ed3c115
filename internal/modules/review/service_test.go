package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/modules/user"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryRepo struct {
	mu      sync.Mutex
	reviews []*Review
}

func (m *memoryRepo) Insert(_ context.Context, r *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID()
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *memoryRepo) FindByShopName(_ context.Context, shopName string) ([]*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Review{}
	for _, r := range m.reviews {
		if strings.EqualFold(r.ShopName, shopName) {
			out = append(out, r)
		}
	}
	return out, nil
}

type stores []*user.StoreAccount

func (s stores) GetByStoreName(_ context.Context, name string) (*user.StoreAccount, error) {
	for _, a := range s {
		if strings.EqualFold(a.StoreName, name) {
			return a, nil
		}
	}
	return nil, apperr.ErrUnknownStore
}

func newTestService(repo Repository) Service {
	log, _ := test.NewNullLogger()
	return NewService(repo, stores{{ID: 1, StoreName: "bean there"}}, log)
}

func TestSubmitUsesCanonicalStoreName(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)

	rv, err := svc.Submit(context.Background(), SubmitRequest{ShopName: "  Bean There ", Rating: 5, Text: "great crema"})
	require.NoError(t, err)
	assert.Equal(t, "bean there", rv.ShopName)
	assert.False(t, rv.ID.IsZero())

	found, err := svc.FindForStore(context.Background(), "bean there")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "great crema", found[0].Text)

	found, err = svc.FindForStore(context.Background(), "BEAN THERE")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSubmitUnknownStore(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{ShopName: "Grind House", Rating: 4})
	assert.True(t, errors.Is(err, apperr.ErrUnknownStore))
	assert.Equal(t, "store name does not exist", err.Error())
	assert.Empty(t, repo.reviews)
}

func TestSubmitValidatesRating(t *testing.T) {
	svc := newTestService(&memoryRepo{})
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), SubmitRequest{ShopName: "bean there", Rating: rating})
		assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "rating %d", rating)
	}
	_, err := svc.Submit(context.Background(), SubmitRequest{ShopName: "   ", Rating: 3})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestFindForStoreRequiresName(t *testing.T) {
	_, err := newTestService(&memoryRepo{}).FindForStore(context.Background(), "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestShopNameFilterIsAnchoredAndQuoted(t *testing.T) {
	f := shopNameFilter("Beans (and) Co.")
	re, ok := f["shop_name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `^Beans \(and\) Co\.$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}
