package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AliakbarCal15/Internship-Task-39/internal/events"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/tracker"
)

type Request struct {
	SessionID     string
	Priced        pricing.PricedCart
	Address       models.Address
	PaymentMethod string
}

// Materializer turns a priced cart into an order. Implementations may block.
type Materializer interface {
	Materialize(ctx context.Context, req Request) (*models.Order, error)
}

// Validate checks the parts of a request the caller supplied directly.
func (r Request) Validate() error {
	a := r.Address
	required := []struct{ name, value string }{
		{"full_name", a.FullName},
		{"phone", a.Phone},
		{"pincode", a.Pincode},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s required", ErrValidation, f.name)
		}
	}
	if a.Type != "" && a.Type != "home" && a.Type != "work" {
		return fmt.Errorf("%w: address type must be home or work", ErrValidation)
	}
	if !models.ValidPaymentMethod(r.PaymentMethod) {
		return fmt.Errorf("%w: unsupported payment method %q", ErrValidation, r.PaymentMethod)
	}
	return nil
}

// OrderMaterializer simulates the order backend: it waits Delay, then
// snapshots the priced cart into a placed order.
type OrderMaterializer struct {
	Delay  time.Duration
	ETA    time.Duration
	Events events.Publisher
	Topic  string

	Now   func() time.Time
	NewID func() string
}

func NewOrderMaterializer(delay, eta time.Duration, pub events.Publisher, topic string) *OrderMaterializer {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderMaterializer{
		Delay:  delay,
		ETA:    eta,
		Events: pub,
		Topic:  topic,
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  func() string { return uuid.NewString() },
	}
}

func (m *OrderMaterializer) Materialize(ctx context.Context, req Request) (*models.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout.materializer")

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Priced.Empty() {
		return nil, ErrEmptyCart
	}

	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	now := m.Now()
	items := make([]models.OrderItem, 0, len(req.Priced.Lines))
	for _, line := range req.Priced.Lines {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order := &models.Order{
		ID:                m.NewID(),
		UserID:            req.SessionID,
		Items:             items,
		Subtotal:          req.Priced.Subtotal,
		DeliveryFee:       req.Priced.DeliveryFee,
		DiscountAmount:    req.Priced.DiscountAmount,
		TotalAmount:       req.Priced.Total,
		CouponCode:        req.Priced.CouponCode,
		Status:            models.OrderStatusPlaced,
		PlacedAt:          now,
		EstimatedDelivery: now.Add(m.ETA),
		DeliveryAddress:   req.Address,
		PaymentMethod:     req.PaymentMethod,
		StatusUpdates: []models.StatusUpdate{{
			Status:      models.OrderStatusPlaced,
			Timestamp:   now,
			Description: tracker.DefaultDescription(models.OrderStatusPlaced),
		}},
	}

	err := m.Events.PublishEvent(ctx, m.Topic, req.SessionID, events.Event{
		Type:      events.TypeOrderPlaced,
		OrderID:   order.ID,
		SessionID: req.SessionID,
		Status:    string(order.Status),
		Total:     order.TotalAmount,
		At:        now,
	})
	if err != nil {
		l.Warn("order_event_publish_failed", "order_id", order.ID, "error", err)
	}

	l.Info("order_materialized", "order_id", order.ID, "items", len(items), "total", order.TotalAmount)
	return order, nil
}
