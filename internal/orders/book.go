// Package orders keeps the orders placed within one session and drives
// their delivery status.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AliakbarCal15/Internship-Task-39/internal/events"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/tracker"
)

var ErrNotFound = errors.New("order not found")

// Book is safe for concurrent use; the delivery simulator writes to it
// outside the session lock.
type Book struct {
	mu        sync.RWMutex
	sessionID string
	orders    []*models.Order

	Events events.Publisher
	Topic  string
	Now    func() time.Time
}

func NewBook(sessionID string, pub events.Publisher, topic string) *Book {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Book{
		sessionID: sessionID,
		Events:    pub,
		Topic:     topic,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Add stores a copy of o in front of the existing orders.
func (b *Book) Add(o *models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append([]*models.Order{o.Clone()}, b.orders...)
}

func (b *Book) Get(id string) (*models.Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o := b.find(id)
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o.Clone(), nil
}

// List returns copies, newest first.
func (b *Book) List() []*models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*models.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o.Clone())
	}
	return out
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

func (b *Book) find(id string) *models.Order {
	for _, o := range b.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Advance moves the order one status forward and announces the change.
func (b *Book) Advance(ctx context.Context, id, description string) (*models.Order, error) {
	o, _, err := b.advance(ctx, id, "", description)
	return o, err
}

// AdvanceBelow advances the order one step only while its status is still
// before target; the check and the move happen under one lock. The bool
// reports whether a step was taken.
func (b *Book) AdvanceBelow(ctx context.Context, id string, target models.OrderStatus, description string) (*models.Order, bool, error) {
	return b.advance(ctx, id, target, description)
}

func (b *Book) advance(ctx context.Context, id string, target models.OrderStatus, description string) (*models.Order, bool, error) {
	b.mu.Lock()
	o := b.find(id)
	if o == nil {
		b.mu.Unlock()
		return nil, false, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if target != "" && tracker.Index(o.Status) >= tracker.Index(target) {
		snapshot := o.Clone()
		b.mu.Unlock()
		return snapshot, false, nil
	}
	now := b.Now()
	if err := tracker.Advance(o, now, description); err != nil {
		b.mu.Unlock()
		return nil, false, fmt.Errorf("advance order %s: %w", id, err)
	}
	snapshot := o.Clone()
	b.mu.Unlock()

	err := b.Events.PublishEvent(ctx, b.Topic, b.sessionID, events.Event{
		Type:      events.TypeOrderStatusChanged,
		OrderID:   snapshot.ID,
		SessionID: b.sessionID,
		Status:    string(snapshot.Status),
		At:        now,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("order_event_publish_failed", "order_id", id, "error", err)
	}
	return snapshot, true, nil
}
