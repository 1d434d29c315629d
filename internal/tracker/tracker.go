// Package tracker moves orders along the fixed delivery sequence and
// renders their progress.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

var (
	ErrTerminal          = errors.New("order already delivered")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

var Sequence = []models.OrderStatus{
	models.OrderStatusPlaced,
	models.OrderStatusConfirmed,
	models.OrderStatusShipped,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

var labels = map[models.OrderStatus]string{
	models.OrderStatusPlaced:         "Order Placed",
	models.OrderStatusConfirmed:      "Order Confirmed",
	models.OrderStatusShipped:        "Shipped",
	models.OrderStatusOutForDelivery: "Out for Delivery",
	models.OrderStatusDelivered:      "Delivered",
}

var defaultDescriptions = map[models.OrderStatus]string{
	models.OrderStatusPlaced:         "Your order has been placed",
	models.OrderStatusConfirmed:      "Seller has confirmed your order",
	models.OrderStatusShipped:        "Your item has been shipped",
	models.OrderStatusOutForDelivery: "Your item is out for delivery",
	models.OrderStatusDelivered:      "Your item has been delivered",
}

// Index returns the position of status in Sequence, or -1.
func Index(status models.OrderStatus) int {
	for i, s := range Sequence {
		if s == status {
			return i
		}
	}
	return -1
}

func Label(status models.OrderStatus) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return string(status)
}

func DefaultDescription(status models.OrderStatus) string {
	return defaultDescriptions[status]
}

func IsTerminal(status models.OrderStatus) bool {
	return status == models.OrderStatusDelivered
}

// Next returns the status that follows current.
func Next(current models.OrderStatus) (models.OrderStatus, error) {
	i := Index(current)
	switch {
	case i < 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	case i == len(Sequence)-1:
		return "", ErrTerminal
	}
	return Sequence[i+1], nil
}

// Advance moves the order exactly one step forward and records the update.
// An empty description falls back to the status default.
func Advance(o *models.Order, now time.Time, description string) error {
	next, err := Next(o.Status)
	if err != nil {
		return err
	}
	apply(o, next, now, description)
	return nil
}

// AdvanceTo accepts only the immediate successor of the current status.
func AdvanceTo(o *models.Order, target models.OrderStatus, now time.Time, description string) error {
	if Index(target) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	next, err := Next(o.Status)
	if err != nil {
		return err
	}
	if target != next {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	apply(o, next, now, description)
	return nil
}

func apply(o *models.Order, status models.OrderStatus, now time.Time, description string) {
	if description == "" {
		description = DefaultDescription(status)
	}
	o.Status = status
	o.StatusUpdates = append(o.StatusUpdates, models.StatusUpdate{
		Status:      status,
		Timestamp:   now,
		Description: description,
	})
}

// Step is one row of the tracking view. A delivered order has no step in
// progress; every step renders as completed.
type Step struct {
	Status     models.OrderStatus   `json:"status"`
	Label      string               `json:"label"`
	Completed  bool                 `json:"completed"`
	InProgress bool                 `json:"in_progress"`
	Pending    bool                 `json:"pending"`
	Update     *models.StatusUpdate `json:"update,omitempty"`
}

type View struct {
	CurrentIndex int    `json:"current_index"`
	Total        int    `json:"total"`
	Steps        []Step `json:"steps"`
}

// Progress renders every step of Sequence relative to the order's status.
// The current step counts as completed; it is also in progress unless the
// order has been delivered.
func Progress(o *models.Order) View {
	current := Index(o.Status)
	terminal := IsTerminal(o.Status)

	steps := make([]Step, len(Sequence))
	for i, status := range Sequence {
		steps[i] = Step{
			Status:     status,
			Label:      Label(status),
			Completed:  current >= 0 && i <= current,
			InProgress: i == current && !terminal,
			Pending:    i > current,
			Update:     findUpdate(o.StatusUpdates, status),
		}
	}

	return View{CurrentIndex: current, Total: len(Sequence), Steps: steps}
}

func findUpdate(updates []models.StatusUpdate, status models.OrderStatus) *models.StatusUpdate {
	for i := range updates {
		if updates[i].Status == status {
			u := updates[i]
			return &u
		}
	}
	return nil
}
