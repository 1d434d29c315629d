// Package session holds the per-visitor application state: cart, wishlist,
// orders and the in-flight order placement.
package session

import (
	"context"
	"sync"

	"github.com/AliakbarCal15/Internship-Task-39/internal/cart"
	"github.com/AliakbarCal15/Internship-Task-39/internal/checkout"
	"github.com/AliakbarCal15/Internship-Task-39/internal/events"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/orders"
	"github.com/AliakbarCal15/Internship-Task-39/internal/wishlist"
)

// State must be locked around any cart or wishlist access. The order book
// and the placement carry their own locks.
type State struct {
	mu sync.Mutex

	id        string
	cart      *cart.Ledger
	wishlist  *wishlist.List
	book      *orders.Book
	placement *checkout.Placement

	ctx       context.Context
	cancel    context.CancelFunc
	simulator *orders.Simulator
}

func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

func (s *State) ID() string                     { return s.id }
func (s *State) Ledger() *cart.Ledger           { return s.cart }
func (s *State) Wishlist() *wishlist.List       { return s.wishlist }
func (s *State) Orders() *orders.Book           { return s.book }
func (s *State) Placement() *checkout.Placement { return s.placement }

// RecordOrder stores a placed order and, when delivery simulation is on,
// starts moving it along.
func (s *State) RecordOrder(o *models.Order) {
	s.book.Add(o)
	if s.simulator != nil {
		s.simulator.Start(s.ctx, s.book, o.ID)
	}
}

// Registry owns every live session. It is built once by main.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State

	base      context.Context
	events    events.Publisher
	topic     string
	simulator *orders.Simulator
}

type Option func(*Registry)

func WithEvents(pub events.Publisher, topic string) Option {
	return func(r *Registry) {
		r.events = pub
		r.topic = topic
	}
}

func WithSimulator(sim *orders.Simulator) Option {
	return func(r *Registry) { r.simulator = sim }
}

// NewRegistry ties background work of every session to ctx.
func NewRegistry(ctx context.Context, opts ...Option) *Registry {
	r := &Registry{
		states: make(map[string]*State),
		base:   ctx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.states[id]; ok {
		return s
	}

	ctx, cancel := context.WithCancel(r.base)
	ctx = logging.IntoContext(ctx, logging.FromContext(r.base).With("session_id", id))
	s := &State{
		id:        id,
		cart:      cart.NewLedger(),
		wishlist:  wishlist.New(),
		book:      orders.NewBook(id, r.events, r.topic),
		placement: checkout.NewPlacement(),
		ctx:       ctx,
		cancel:    cancel,
		simulator: r.simulator,
	}
	r.states[id] = s
	return s
}

// Reset drops the session and stops its background work. The next Get
// starts from empty state.
func (r *Registry) Reset(id string) {
	r.mu.Lock()
	s, ok := r.states[id]
	delete(r.states, id)
	r.mu.Unlock()

	if ok {
		s.cancel()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
