// internal/client/cart/store.go
package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/storage"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// Store owns the local cart and the order history. Every mutation runs its
// read-modify-persist cycle under one mutex. The cart never talks to the
// backend and is independent of the session.
//
// A key is only written once its persisted value has been read, so a failed
// load can never overwrite stored data with an empty list.
type Store struct {
	mu            sync.Mutex
	items         []Item
	orders        []Order
	cartLoaded    bool
	historyLoaded bool
	store         storage.Store
	policy        Policy
	now           func() time.Time
	newID         func() string
	log           logrus.FieldLogger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides item and order id generation
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates an empty cart store. Call Load to read persisted state.
func NewStore(store storage.Store, policy Policy, log logrus.FieldLogger, opts ...Option) *Store {
	if policy == "" {
		policy = PolicyFirstItem
	}
	s := &Store{
		store:  store,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		log:    log.WithField("component", "cart"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the order policy in effect
func (s *Store) Policy() Policy {
	return s.policy
}

// Load reads both the cart and the order history. Both reads are attempted
// even when the first one fails.
func (s *Store) Load(ctx context.Context) error {
	return errors.Join(s.LoadCart(ctx), s.LoadOrderHistory(ctx))
}

// LoadCart replaces the in-memory cart with the persisted one. A missing or
// corrupt value reads as an empty cart. On a read error the cart is marked
// unloaded and the next mutation retries the read before writing.
func (s *Store) LoadCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLoaded = false
	return s.loadCartLocked(ctx)
}

// LoadOrderHistory replaces the in-memory history with the persisted one
func (s *Store) LoadOrderHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyLoaded = false
	return s.loadHistoryLocked(ctx)
}

// Loaded reports whether both keys reflect what is in storage
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLoaded && s.historyLoaded
}

func (s *Store) loadCartLocked(ctx context.Context) error {
	if s.cartLoaded {
		return nil
	}
	var items []Item
	ok, err := s.read(ctx, storage.KeyCart, &items)
	if err != nil {
		return err
	}
	if !ok {
		items = nil
	}
	s.items = items
	s.cartLoaded = true
	return nil
}

func (s *Store) loadHistoryLocked(ctx context.Context) error {
	if s.historyLoaded {
		return nil
	}
	var orders []Order
	ok, err := s.read(ctx, storage.KeyOrderHistory, &orders)
	if err != nil {
		return err
	}
	if !ok {
		orders = nil
	}
	s.orders = orders
	s.historyLoaded = true
	return nil
}

// AddToCart adds a product variant. Adding a (product, color, size) triple
// already in the cart is a no-op that returns the existing item.
func (s *Store) AddToCart(ctx context.Context, product api.Product, color, size string) (Item, error) {
	if product.ID.IsZero() {
		return Item{}, apperrors.NewValidationError("product", "id is required")
	}
	color = strings.TrimSpace(color)
	size = strings.TrimSpace(size)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCartLocked(ctx); err != nil {
		return Item{}, err
	}
	for _, item := range s.items {
		if item.matches(product.ID, color, size) {
			return item, nil
		}
	}

	item := Item{
		ID:       s.newID(),
		Product:  snapshot(product),
		Color:    color,
		Size:     size,
		Quantity: 1,
		AddedAt:  s.now(),
	}
	s.items = append(s.items, item)

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "color": color, "size": size}).Debug("added to cart")
	return item, s.persistCartLocked(ctx)
}

// RemoveFromCart removes the item with the given id. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCartLocked(ctx); err != nil {
		return err
	}
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return s.persistCartLocked(ctx)
		}
	}
	return nil
}

// Items returns a copy of the cart in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Contains reports whether the variant triple is in the cart
func (s *Store) Contains(productID api.ID, color, size string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.matches(productID, strings.TrimSpace(color), strings.TrimSpace(size)) {
			return true
		}
	}
	return false
}

// Total is the sum of item prices. There is no tax, discount or shipping.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum(s.items)
}

// Totals returns the checkout summary
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := sum(s.items)
	return Totals{
		ItemCount: len(s.items),
		Subtotal:  subtotal,
		Shipping:  0,
		Total:     subtotal,
	}
}

// CompleteOrder turns the cart into an order under the configured policy,
// appends it to the history and clears the cart.
func (s *Store) CompleteOrder(ctx context.Context) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCartLocked(ctx); err != nil {
		return Order{}, err
	}
	if err := s.loadHistoryLocked(ctx); err != nil {
		return Order{}, err
	}
	if len(s.items) == 0 {
		return Order{}, apperrors.ErrEmptyCart
	}

	purchased := s.items
	if s.policy != PolicyWholeCart {
		purchased = s.items[:1]
	}

	order := Order{
		ID:     s.newID(),
		Lines:  make([]OrderLine, 0, len(purchased)),
		Total:  sum(purchased),
		Date:   s.now(),
		Status: StatusCompleted,
	}
	for _, item := range purchased {
		order.Lines = append(order.Lines, lineFor(item))
	}

	s.orders = append(s.orders, order)
	s.items = nil

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"lines":    len(order.Lines),
		"total":    order.Total,
	}).Info("order completed")

	// History first so a crash between the writes cannot lose the order
	if err := s.writeLocked(ctx, storage.KeyOrderHistory, s.orders); err != nil {
		return copyOrder(order), err
	}
	return copyOrder(order), s.persistCartLocked(ctx)
}

// Orders returns the order history, oldest first
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = copyOrder(o)
	}
	return out
}

// Order finds an order by id
func (s *Store) Order(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return Order{}, apperrors.ErrNotFound
}

// Flush rewrites the in-memory cart and history to storage. It is how callers
// retry after a write PersistenceError. A key that was never read is read
// first and not written if that read fails.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadCartLocked(ctx); err != nil {
		return err
	}
	if err := s.loadHistoryLocked(ctx); err != nil {
		return err
	}
	if err := s.writeLocked(ctx, storage.KeyOrderHistory, s.orders); err != nil {
		return err
	}
	return s.persistCartLocked(ctx)
}

func (s *Store) persistCartLocked(ctx context.Context) error {
	return s.writeLocked(ctx, storage.KeyCart, s.items)
}

func (s *Store) writeLocked(ctx context.Context, key string, value interface{}) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to persist")
		return &apperrors.PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// read reports false when the value is absent or corrupt
func (s *Store) read(ctx context.Context, key string, dest interface{}) (bool, error) {
	found, err := s.store.Get(ctx, key, dest)
	if errors.Is(err, storage.ErrCorrupt) {
		s.log.WithError(err).WithField("key", key).Warn("stored value is corrupt, starting empty")
		return false, nil
	}
	if err != nil {
		return false, &apperrors.PersistenceError{Op: "read", Key: key, Err: err}
	}
	return found, nil
}

func sum(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += item.Product.Price
	}
	return total
}

// snapshot copies the product so later catalog changes cannot reach the cart
func snapshot(p api.Product) api.Product {
	p.Colors = append([]api.Color(nil), p.Colors...)
	p.Sizes = append([]api.Size(nil), p.Sizes...)
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}
