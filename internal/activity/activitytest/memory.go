// Package activitytest provides in-memory fakes of the activity ledger for tests.
package activitytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tair/eco-catalog/internal/activity/domain"
	productdomain "github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/apperror"
)

type pair struct{ user, product uint }

// MemoryRepository keeps the ledger in maps with the same rules as Postgres:
// one row per (user, product) and unknown products rejected.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]productdomain.Product
	cart     map[pair]domain.CartEntry
	wishlist map[pair]domain.WishlistEntry
	views    map[pair]domain.ViewEvent

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryRepository(products ...productdomain.Product) *MemoryRepository {
	m := &MemoryRepository{
		products: make(map[uint]productdomain.Product),
		cart:     make(map[pair]domain.CartEntry),
		wishlist: make(map[pair]domain.WishlistEntry),
		views:    make(map[pair]domain.ViewEvent),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MemoryRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) product(id uint) (productdomain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return p, apperror.NotFound("product not found")
	}
	return p, nil
}

func (m *MemoryRepository) UpsertView(_ context.Context, userID, productID uint, at time.Time) (*domain.ViewEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, err := m.product(productID); err != nil {
		return nil, err
	}

	k := pair{userID, productID}
	v, ok := m.views[k]
	if !ok {
		v = domain.ViewEvent{ID: m.id(), UserID: userID, ProductID: productID}
	}
	v.ViewedAt = at
	m.views[k] = v
	return &v, nil
}

func (m *MemoryRepository) ListViews(_ context.Context, userID uint, limit, offset int) ([]domain.Entry[domain.ViewEvent], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var rows []domain.ViewEvent
	for k, v := range m.views {
		if k.user == userID {
			v.Product = m.products[k.product]
			rows = append(rows, v)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ViewedAt.Equal(rows[j].ViewedAt) {
			return rows[i].ViewedAt.After(rows[j].ViewedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if offset >= len(rows) {
		rows = nil
	} else {
		rows = rows[offset:]
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return entries(rows), nil
}

func (m *MemoryRepository) IncrementCart(_ context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, err := m.product(productID); err != nil {
		return nil, err
	}

	k := pair{userID, productID}
	c, ok := m.cart[k]
	if !ok {
		c = domain.CartEntry{ID: m.id(), UserID: userID, ProductID: productID, CreatedAt: time.Now()}
	}
	c.Quantity += quantity
	c.UpdatedAt = time.Now()
	m.cart[k] = c
	return &c, nil
}

func (m *MemoryRepository) SetCartQuantity(_ context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	k := pair{userID, productID}
	c, ok := m.cart[k]
	if !ok {
		return nil, apperror.NotFound("cart item not found")
	}
	c.Quantity = quantity
	c.UpdatedAt = time.Now()
	m.cart[k] = c
	return &c, nil
}

func (m *MemoryRepository) DeleteCartEntry(_ context.Context, userID, productID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	k := pair{userID, productID}
	_, ok := m.cart[k]
	delete(m.cart, k)
	return ok, nil
}

func (m *MemoryRepository) ListCart(_ context.Context, userID uint) ([]domain.Entry[domain.CartEntry], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var rows []domain.CartEntry
	for k, c := range m.cart {
		if k.user == userID {
			c.Product = m.products[k.product]
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return entries(rows), nil
}

func (m *MemoryRepository) InsertWishlist(_ context.Context, userID, productID uint) (*domain.WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, err := m.product(productID); err != nil {
		return nil, err
	}

	k := pair{userID, productID}
	w, ok := m.wishlist[k]
	if !ok {
		w = domain.WishlistEntry{ID: m.id(), UserID: userID, ProductID: productID, CreatedAt: time.Now()}
		m.wishlist[k] = w
	}
	return &w, nil
}

func (m *MemoryRepository) DeleteWishlistEntry(_ context.Context, userID, productID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	k := pair{userID, productID}
	_, ok := m.wishlist[k]
	delete(m.wishlist, k)
	return ok, nil
}

func (m *MemoryRepository) ListWishlist(_ context.Context, userID uint) ([]domain.Entry[domain.WishlistEntry], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var rows []domain.WishlistEntry
	for k, w := range m.wishlist {
		if k.user == userID {
			w.Product = m.products[k.product]
			rows = append(rows, w)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return entries(rows), nil
}

func entries[T domain.Record](rows []T) []domain.Entry[T] {
	out := make([]domain.Entry[T], 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.NewEntry(row))
	}
	return out
}

// RecordingPublisher remembers every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []kafka.ActivityEvent

	// Err, when set, is returned by every publish.
	Err error
}

func (p *RecordingPublisher) PublishActivity(_ context.Context, event kafka.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

func (p *RecordingPublisher) Close() error { return nil }

// Types returns the event types published so far, in order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

// Events returns a copy of everything published.
func (p *RecordingPublisher) Events() []kafka.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.ActivityEvent(nil), p.events...)
}
