package orders

import (
	"context"
	"errors"
	"time"

	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/tracker"
)

type DeliveryStep struct {
	Status models.OrderStatus
	After  time.Duration
}

// Simulator walks placed orders through the rest of the delivery sequence.
type Simulator struct {
	Steps []DeliveryStep
}

// NewSimulator spaces every remaining status interval apart.
func NewSimulator(interval time.Duration) *Simulator {
	steps := make([]DeliveryStep, 0, len(tracker.Sequence)-1)
	for _, s := range tracker.Sequence[1:] {
		steps = append(steps, DeliveryStep{Status: s, After: interval})
	}
	return &Simulator{Steps: steps}
}

// Start runs the simulation in the background until the order is delivered
// or ctx is done. The returned channel closes when it stops.
func (s *Simulator) Start(ctx context.Context, book *Book, orderID string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx, book, orderID)
	}()
	return done
}

func (s *Simulator) run(ctx context.Context, book *Book, orderID string) {
	l := logging.FromContext(ctx).With("component", "orders.simulator", "order_id", orderID)

	for _, step := range s.Steps {
		t := time.NewTimer(step.After)
		select {
		case <-ctx.Done():
			t.Stop()
			l.Debug("delivery_simulation_stopped", "reason", ctx.Err())
			return
		case <-t.C:
		}

		// steps already reached through manual advancement are skipped
		o, advanced, err := book.AdvanceBelow(ctx, orderID, step.Status, "")
		if err != nil {
			if !errors.Is(err, tracker.ErrTerminal) {
				l.Warn("delivery_simulation_failed", "error", err)
			}
			return
		}
		if !advanced {
			continue
		}
		l.Info("order_status_advanced", "status", o.Status)
	}
}
