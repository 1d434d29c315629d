package checkout

import (
	"context"
	"sync"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

type State int

const (
	StateIdle State = iota
	StatePending
	StateSettled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	}
	return "idle"
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Placement runs at most one materialization at a time. Once begun the work
// cannot be cancelled; a settled placement may be begun again.
type Placement struct {
	mu    sync.Mutex
	state State
	order *models.Order
	err   error
	done  chan struct{}
}

func NewPlacement() *Placement {
	return &Placement{}
}

// Begin starts the materialization in the background. onSettled, if set,
// runs before the placement reports settled.
func (p *Placement) Begin(ctx context.Context, m Materializer, req Request, onSettled func(*models.Order, error)) error {
	p.mu.Lock()
	if p.state == StatePending {
		p.mu.Unlock()
		return ErrPlacementPending
	}
	p.state = StatePending
	p.order, p.err = nil, nil
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	work := context.WithoutCancel(ctx)
	go func() {
		order, err := m.Materialize(work, req)
		if onSettled != nil {
			onSettled(order, err)
		}

		p.mu.Lock()
		p.state = StateSettled
		p.order, p.err = order, err
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

func (p *Placement) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Result is meaningful only once settled.
func (p *Placement) Result() (*models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.order == nil {
		return nil, p.err
	}
	return p.order.Clone(), p.err
}

// Snapshot is one consistent reading of a placement.
type Snapshot struct {
	State State
	Order *models.Order
	Err   error
}

// Snapshot reads state and result under a single lock, so a settled
// snapshot always carries the outcome of the same attempt.
func (p *Placement) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := Snapshot{State: p.state, Err: p.err}
	if p.order != nil {
		snap.Order = p.order.Clone()
	}
	return snap
}

// Done is closed when the current attempt settles. With no attempt it is
// already closed.
func (p *Placement) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return closedCh
	}
	return p.done
}
