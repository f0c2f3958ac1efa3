package checkout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/cart"
)

// Manager hands out the per-user cart and checkout session. Sessions span
// the whole login session; a completed session is replaced by a fresh one
// over the same (now empty) cart.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tax      TaxStrategy
	logger   *zap.Logger
}

func NewManager(tax TaxStrategy, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		tax:      tax,
		logger:   logger,
	}
}

// Session returns the user's checkout session, creating the cart and session
// on first use. A session left in the terminal step is recycled so the next
// checkout starts clean.
func (m *Manager) Session(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if ok {
		if step, _ := s.Step(); step != StepComplete {
			return s
		}
		s = NewSession(s.Cart(), m.tax, m.logger)
		m.sessions[userID] = s
		return s
	}

	s = NewSession(cart.New(), m.tax, m.logger)
	m.sessions[userID] = s
	return s
}
