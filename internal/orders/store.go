package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/domain"
)

// ErrInvalidTransition rejects a status update the cached order's status
// ladder does not allow.
var ErrInvalidTransition = errors.New("orders: invalid status transition")

// Client is the slice of the order API this store uses.
type Client interface {
	GetOrders(ctx context.Context, userID string) []domain.Order
	CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

// LoadState distinguishes the list view's loading phases.
type LoadState string

const (
	// LoadStateInitial means nothing has been fetched yet.
	LoadStateInitial LoadState = "initial"
	// LoadStateLoading is the first fetch, with nothing to show yet.
	LoadStateLoading LoadState = "loading"
	// LoadStateRefreshing is a refetch with existing data still shown.
	LoadStateRefreshing LoadState = "refreshing"
	LoadStateReady      LoadState = "ready"
)

// Store caches one user's orders from the remote API. The API is the source
// of truth: cancellations and status updates are applied locally as patches
// tagged pending confirmation, and each successful refetch replaces the
// cache wholesale, clearing the patches.
type Store struct {
	mu sync.Mutex

	userID string
	client Client
	logger *zap.Logger

	orders  []domain.Order
	pending map[string]domain.OrderStatus
	state   LoadState
}

func NewStore(userID string, client Client, logger *zap.Logger) *Store {
	return &Store{
		userID:  userID,
		client:  client,
		logger:  logger,
		pending: make(map[string]domain.OrderStatus),
		state:   LoadStateInitial,
	}
}

// State reports the current loading phase.
func (s *Store) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh refetches the user's orders and reconciles the cache. A failed
// list fetch degrades to an empty list inside the client, so Refresh always
// settles the store.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.state == LoadStateInitial {
		s.state = LoadStateLoading
	} else {
		s.state = LoadStateRefreshing
	}
	s.mu.Unlock()

	fetched := s.client.GetOrders(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = fetched
	s.pending = make(map[string]domain.OrderStatus)
	s.state = LoadStateReady
}

// Orders returns the optimistic view: the last fetch with pending patches
// applied on top.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	for i := range out {
		if status, ok := s.pending[out[i].ID]; ok {
			out[i].Status = status
		}
	}
	return out
}

// ConfirmedOrders returns the last fetch without optimistic patches.
func (s *Store) ConfirmedOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get returns one cached order in its optimistic view.
func (s *Store) Get(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			if status, ok := s.pending[o.ID]; ok {
				o.Status = status
			}
			return o, true
		}
	}
	return domain.Order{}, false
}

// Cancel requests cancellation from the API and, on success, marks the order
// CANCELLED locally pending the next refetch. The write error is propagated;
// swallowing it would desynchronize client and server.
func (s *Store) Cancel(ctx context.Context, orderID, reason string) error {
	if _, err := s.client.CancelOrder(ctx, orderID, reason); err != nil {
		s.logger.Error("Failed to cancel order", zap.String("order_id", orderID), zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[orderID] = domain.OrderStatusCancelled
	s.logger.Info("Order cancelled", zap.String("order_id", orderID), zap.String("reason", reason))
	return nil
}

// UpdateStatus is the admin/employee path: the transition is validated
// against the cached status, sent to the API, and applied optimistically.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("orders: invalid status %q", status)
	}

	if current, ok := s.Get(orderID); ok {
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s for order %s", ErrInvalidTransition, current.Status, status, orderID)
		}
	}

	if _, err := s.client.UpdateOrderStatus(ctx, orderID, status); err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[orderID] = status
	return nil
}

// Manager hands out the per-user order store.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	client Client
	logger *zap.Logger
}

func NewManager(client Client, logger *zap.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		client: client,
		logger: logger,
	}
}

// Store returns the user's order store, creating it on first use.
func (m *Manager) Store(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stores[userID]
	if !ok {
		st = NewStore(userID, m.client, m.logger)
		m.stores[userID] = st
	}
	return st
}
