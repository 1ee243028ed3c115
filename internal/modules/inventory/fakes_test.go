package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
)

type key struct{ store, bean int64 }

type memoryRepo struct {
	mu       sync.Mutex
	rows     map[key]*Item
	beans    map[int64]bool
	expiring []*Item
}

func newMemoryRepo(beans ...int64) *memoryRepo {
	m := &memoryRepo{rows: map[key]*Item{}, beans: map[int64]bool{}}
	for _, b := range beans {
		m.beans[b] = true
	}
	return m
}

func (m *memoryRepo) Upsert(_ context.Context, storeID, beanID int64, amount int, expiration *time.Time) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.beans[beanID] {
		return nil, apperr.ErrUnknownBean
	}
	row, ok := m.rows[key{storeID, beanID}]
	if !ok {
		row = &Item{StoreID: storeID, BeanID: beanID}
		m.rows[key{storeID, beanID}] = row
	}
	row.Amount += amount
	if expiration != nil {
		row.ExpirationDate = expiration
	}
	row.UpdatedAt = time.Now()
	cp := *row
	return &cp, nil
}

func (m *memoryRepo) Deduct(_ context.Context, storeID, beanID int64, amount int) (*Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key{storeID, beanID}]
	if !ok {
		return nil, &apperr.InsufficientStockError{BeanID: beanID, Required: amount}
	}
	if row.Amount < amount {
		return nil, &apperr.InsufficientStockError{BeanID: beanID, Required: amount, Available: row.Amount}
	}
	row.Amount -= amount
	return &Level{StoreID: storeID, BeanID: beanID, Amount: row.Amount}, nil
}

func (m *memoryRepo) ListByStore(_ context.Context, storeID int64) ([]*Item, error) {
	return m.filter(func(i *Item) bool { return i.StoreID == storeID }), nil
}

func (m *memoryRepo) ListBelow(_ context.Context, storeID int64, threshold int) ([]*Item, error) {
	return m.filter(func(i *Item) bool { return i.StoreID == storeID && i.Amount < threshold }), nil
}

func (m *memoryRepo) ListExpiring(_ context.Context, before time.Time) ([]*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Item
	for _, i := range m.expiring {
		if i.ExpirationDate.Before(before) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memoryRepo) filter(keep func(*Item) bool) []*Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Item{}
	for _, row := range m.rows {
		if keep(row) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].BeanID < out[b].BeanID })
	return out
}

type published struct {
	topic, key string
	payload    interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{topic, key, payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, s := range p.sent {
		out = append(out, s.topic)
	}
	return out
}
