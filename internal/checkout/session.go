package checkout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/cart"
	"github.com/novamart/storefront/internal/domain"
)

// Step is one stage of the checkout flow.
type Step string

const (
	StepCart     Step = "cart"
	StepAddress  Step = "address"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
	StepComplete Step = "complete" // terminal
)

// next returns the following step, or "" past the end.
func (s Step) next() Step {
	switch s {
	case StepCart:
		return StepAddress
	case StepAddress:
		return StepPayment
	case StepPayment:
		return StepReview
	case StepReview:
		return StepComplete
	default:
		return ""
	}
}

// prev returns the preceding step, or "" before the start.
func (s Step) prev() Step {
	switch s {
	case StepAddress:
		return StepCart
	case StepPayment:
		return StepAddress
	case StepReview:
		return StepPayment
	default:
		return ""
	}
}

var (
	// ErrCartEmpty means the session was entered with nothing in the cart;
	// the caller sends the user back to the cart view.
	ErrCartEmpty = errors.New("checkout: cart is empty")

	// ErrPaymentRequired blocks payment -> review until the payment adapter
	// has reported a confirmation token.
	ErrPaymentRequired = errors.New("checkout: payment has not been confirmed")

	// ErrShippingRequired blocks address -> payment until the address form
	// has been submitted and validated.
	ErrShippingRequired = errors.New("checkout: shipping information is incomplete")

	// ErrComplete means the session already finished; start a new one.
	ErrComplete = errors.New("checkout: session is complete")

	// ErrInFlight rejects a re-submit while a prior submission is still
	// being processed.
	ErrInFlight = errors.New("checkout: a submission is already in progress")
)

// ValidationError carries the per-field messages of a rejected address form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: shipping info validation failed (%d fields)", len(e.Fields))
}

// Session is the checkout state for one cart: the step controller plus the
// shipping, payment, and summary state the steps read and write. It owns its
// ShippingInfo/PaymentInfo for the duration of one checkout and resets them
// on completion.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	cart   *cart.Cart
	tax    TaxStrategy
	logger *zap.Logger

	step            Step
	shipping        domain.ShippingInfo
	shippingValid   bool
	payment         domain.PaymentInfo
	lastPaymentErr  string
	placing         bool
	completedOrder  string
}

// NewSession starts a checkout session for the given cart.
func NewSession(c *cart.Cart, tax TaxStrategy, logger *zap.Logger) *Session {
	return &Session{
		id:     uuid.New(),
		cart:   c,
		tax:    tax,
		logger: logger,
		step:   StepCart,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Cart returns the cart this session checks out.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// guard enforces the empty-cart entry check. It runs on every entry to the
// flow, not just at the start; an emptied cart bounces the session back to
// the cart step.
func (s *Session) guard() error {
	if s.step == StepComplete {
		return ErrComplete
	}
	if s.cart.Count() == 0 {
		s.step = StepCart
		return ErrCartEmpty
	}
	return nil
}

// Step returns the active step, applying the empty-cart guard first.
func (s *Session) Step() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == StepComplete {
		return StepComplete, nil
	}
	if err := s.guard(); err != nil {
		return s.step, err
	}
	return s.step, nil
}

// Summary recomputes the order summary from the live cart subtotal. It never
// returns a cached value, so the payment step always sees settled totals.
func (s *Session) Summary() domain.OrderSummary {
	return ComputeSummary(s.cart.Subtotal(), s.tax)
}

// ShippingInfo returns the submitted shipping info.
func (s *Session) ShippingInfo() domain.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

// PaymentInfo returns the payment confirmation state.
func (s *Session) PaymentInfo() domain.PaymentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

// SetShippingField applies a single field edit without validation; the form
// validates on submit, not on keystroke. Phone and ZIP are normalized here
// because their formatters do run as the user types.
func (s *Session) SetShippingField(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "firstName":
		s.shipping.FirstName = value
	case "lastName":
		s.shipping.LastName = value
	case "email":
		s.shipping.Email = value
	case "phone":
		s.shipping.Phone = NormalizePhone(value)
	case "address":
		s.shipping.Address = value
	case "city":
		s.shipping.City = value
	case "state":
		s.shipping.State = value
	case "zipCode":
		s.shipping.ZipCode = NormalizeZip(value)
	case "country":
		s.shipping.Country = value
	}
	s.shippingValid = false
}

// SubmitShipping validates the full address form. On failure every invalid
// field's message is collected and nothing is stored; on success the info is
// stored, normalized, and the session advances to the payment step.
func (s *Session) SubmitShipping(info domain.ShippingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.step != StepAddress {
		return fmt.Errorf("checkout: cannot submit shipping on step %q", s.step)
	}

	info.Phone = NormalizePhone(info.Phone)
	info.ZipCode = NormalizeZip(info.ZipCode)

	if fieldErrs := ValidateShippingInfo(info); len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	s.shipping = info
	s.shippingValid = true
	s.step = StepPayment
	s.logger.Info("Shipping info submitted",
		zap.String("session_id", s.id.String()),
		zap.String("country", info.Country),
	)
	return nil
}

// Advance moves one step forward. Transitions are strictly single-step; the
// payment step additionally requires a confirmation token before review.
func (s *Session) Advance() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return s.step, err
	}

	switch s.step {
	case StepAddress:
		if !s.shippingValid {
			return s.step, ErrShippingRequired
		}
	case StepPayment:
		if s.payment.PaymentIntentID == "" {
			if s.lastPaymentErr != "" {
				return s.step, fmt.Errorf("%w: %s", ErrPaymentRequired, s.lastPaymentErr)
			}
			return s.step, ErrPaymentRequired
		}
	case StepReview:
		return s.step, fmt.Errorf("checkout: place the order to finish the review step")
	}

	s.step = s.step.next()
	return s.step, nil
}

// Back moves one step backward, no further than the cart.
func (s *Session) Back() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return s.step, err
	}

	if prev := s.step.prev(); prev != "" {
		s.step = prev
	}
	return s.step, nil
}

// ConfirmPayment records a successful payment confirmation. The token's
// presence is what lets the review step proceed to order placement.
func (s *Session) ConfirmPayment(paymentIntentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.step != StepPayment {
		return fmt.Errorf("checkout: cannot confirm payment on step %q", s.step)
	}
	if paymentIntentID == "" {
		return fmt.Errorf("checkout: payment confirmation token is empty")
	}

	s.payment = domain.PaymentInfo{PaymentIntentID: paymentIntentID}
	s.lastPaymentErr = ""
	s.step = StepReview
	s.logger.Info("Payment confirmed", zap.String("session_id", s.id.String()))
	return nil
}

// FailPayment records the payment adapter's error so it can be surfaced when
// the user tries to advance. The session stays on the payment step; retry is
// a user-initiated re-submit.
func (s *Session) FailPayment(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPaymentErr = err.Error()
	s.payment = domain.PaymentInfo{}
	s.logger.Warn("Payment failed",
		zap.String("session_id", s.id.String()),
		zap.Error(err),
	)
}

// BeginPlacement marks order placement in flight, rejecting a re-submit
// while a prior one is being processed. Placement is only valid on review
// with a confirmed payment.
func (s *Session) BeginPlacement() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.step != StepReview {
		return fmt.Errorf("checkout: cannot place an order on step %q", s.step)
	}
	if s.payment.PaymentIntentID == "" {
		return ErrPaymentRequired
	}
	if s.placing {
		return ErrInFlight
	}
	s.placing = true
	return nil
}

// AbortPlacement releases the in-flight mark after a failed create so the
// user can re-submit.
func (s *Session) AbortPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placing = false
}

// Complete finishes the session: the cart and the session-owned shipping and
// payment state are cleared and the step becomes terminal.
func (s *Session) Complete(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.shipping = domain.ShippingInfo{}
	s.shippingValid = false
	s.payment = domain.PaymentInfo{}
	s.lastPaymentErr = ""
	s.placing = false
	s.completedOrder = orderID
	s.step = StepComplete
	s.logger.Info("Checkout complete",
		zap.String("session_id", s.id.String()),
		zap.String("order_id", orderID),
	)
}

// CompletedOrderID returns the order created by this session, if finished.
func (s *Session) CompletedOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedOrder
}

// Reset clears all checkout state and returns to the cart step. The cart
// itself is untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shipping = domain.ShippingInfo{}
	s.shippingValid = false
	s.payment = domain.PaymentInfo{}
	s.lastPaymentErr = ""
	s.placing = false
	s.completedOrder = ""
	s.step = StepCart
}
