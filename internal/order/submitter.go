package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rugurujane/storefront/internal/cart"
)

const (
	// SuccessMessage is the notification shown after an order is placed.
	SuccessMessage = "Order placed successfully!"
	// FailureMessage is the recoverable error shown when placing fails.
	FailureMessage = "Failed to place order. Please try again."
)

var (
	// ErrEmptyCart is returned, without contacting the service, when the
	// snapshot holds no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmissionPending is returned while another submission is in flight.
	ErrSubmissionPending = errors.New("order submission already in progress")
)

// Cart is the part of the cart store a successful submission resets.
type Cart interface {
	Clear()
	CloseOverlay()
}

// Submitter places the cart as an order. At most one submission is in
// flight at a time and each accepted submission calls the service exactly
// once.
type Submitter struct {
	service Service
	cart    Cart
	logger  *slog.Logger

	pending atomic.Bool

	mu     sync.Mutex
	err    error
	notice string
}

// NewSubmitter creates a Submitter. logger may be nil.
func NewSubmitter(service Service, c Cart, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Submitter{service: service, cart: c, logger: logger}
}

// Submit sends snapshot's items to the order service. On success the cart
// is cleared, the overlay closed and a success notification set. On failure
// the cart is untouched and Err reports the failure until the next
// submission or Dismiss. The whole cart is cleared, not just the snapshot's
// lines, so callers must hold cart changes while Pending reports true.
func (s *Submitter) Submit(ctx context.Context, snapshot cart.State) (*Confirmation, error) {
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !s.pending.CompareAndSwap(false, true) {
		return nil, ErrSubmissionPending
	}
	defer s.pending.Store(false)

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	req := BuildRequest(snapshot.Items)
	s.logger.Debug("order: submitting", "lines", len(req.Products))

	conf, err := s.service.CreateOrder(ctx, req)
	if err != nil {
		err = fmt.Errorf("failed to place order: %w", err)
		s.logger.Error("order: submission failed", "error", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return nil, err
	}

	s.cart.Clear()
	s.cart.CloseOverlay()

	s.mu.Lock()
	s.notice = SuccessMessage
	s.mu.Unlock()

	if conf != nil {
		s.logger.Info("order: placed", "id", conf.ID, "total", conf.TotalPrice)
	}
	return conf, nil
}

// Pending reports whether a submission is in flight.
func (s *Submitter) Pending() bool { return s.pending.Load() }

// Err returns the last submission failure, if any.
func (s *Submitter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrorMessage returns FailureMessage while a failure is recorded.
func (s *Submitter) ErrorMessage() string {
	if s.Err() == nil {
		return ""
	}
	return FailureMessage
}

// Notification returns the pending success notification, if any.
func (s *Submitter) Notification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Dismiss clears the recorded failure and notification.
func (s *Submitter) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.notice = ""
}
