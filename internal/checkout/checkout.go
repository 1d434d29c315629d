// Package checkout places orders from a session's cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AliakbarCal15/Internship-Task-39/internal/cart"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
)

var (
	ErrValidation       = errors.New("validation")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrPlacementPending = errors.New("order placement already in progress")
)

// Session is the slice of session state checkout works on. Callers must not
// hold the lock while calling Place.
type Session interface {
	sync.Locker
	ID() string
	Ledger() *cart.Ledger
	Placement() *Placement
	RecordOrder(o *models.Order)
}

type Pricer interface {
	Price(ctx context.Context, ledger *cart.Ledger) (pricing.PricedCart, error)
}

type Service struct {
	Pricer       Pricer
	Materializer Materializer
}

func NewService(pricer Pricer, m Materializer) *Service {
	return &Service{Pricer: pricer, Materializer: m}
}

// Place prices the cart and starts materializing it. It returns once the
// placement is pending; the cart is cleared only when the order exists.
func (s *Service) Place(ctx context.Context, sess Session, addr models.Address, paymentMethod string) error {
	l := logging.FromContext(ctx).With("component", "checkout")

	sess.Lock()
	defer sess.Unlock()

	placement := sess.Placement()
	if placement.State() == StatePending {
		return ErrPlacementPending
	}

	priced, err := s.Pricer.Price(ctx, sess.Ledger())
	if err != nil {
		return fmt.Errorf("price cart: %w", err)
	}
	if priced.Empty() {
		return ErrEmptyCart
	}

	req := Request{
		SessionID:     sess.ID(),
		Priced:        priced,
		Address:       addr,
		PaymentMethod: paymentMethod,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	work := logging.IntoContext(ctx, l)
	err = placement.Begin(work, s.Materializer, req, func(order *models.Order, err error) {
		if err != nil {
			l.Warn("order_placement_failed", "error", err)
			return
		}
		sess.Lock()
		defer sess.Unlock()
		sess.RecordOrder(order)
		sess.Ledger().Clear()
		l.Info("order_placed", "order_id", order.ID)
	})
	if err != nil {
		return err
	}

	l.Info("order_placement_started", "items", len(priced.Lines), "total", priced.Total)
	return nil
}
