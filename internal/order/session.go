package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lunch-tray/internal/events"
	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// ErrEmptyOrder is returned when submitting an order with nothing selected.
var ErrEmptyOrder = errors.New("order has no selections")

// Emitter publishes order lifecycle events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) (events.Event, error)
}

// Recorder receives order activity for metrics.
type Recorder interface {
	ObserveSelection(category, result string)
	ObserveCompletion(outcome string, total int64)
}

// View is a snapshot of the session's current order.
type View struct {
	OrderID uuid.UUID
	Snapshot
}

// SessionConfig configures a Session.
type SessionConfig struct {
	State   *State
	Events  Emitter
	Metrics Recorder
	Logger  zerolog.Logger
	NewID   func() uuid.UUID
}

// Session owns one State and serializes every call made against it.
type Session struct {
	mu      sync.Mutex
	state   *State
	id      uuid.UUID
	events  Emitter
	metrics Recorder
	logger  zerolog.Logger
	newID   func() uuid.UUID
}

// NewSession constructs a Session around an existing State.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.State == nil {
		return nil, errors.New("order: state is required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.New
	}
	return &Session{
		state:   cfg.State,
		id:      newID(),
		events:  cfg.Events,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		newID:   newID,
	}, nil
}

// Current returns the current order.
func (s *Session) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Select sets the item for a category.
func (s *Session) Select(category menu.Category, name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.state.Select(category, name)
	s.observeSelection(category, err)
	if err != nil {
		return View{}, err
	}
	return s.viewLocked(), nil
}

// Recompute re-derives tax and total from the subtotal.
func (s *Session) Recompute() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RecomputeTaxAndTotal()
	return s.viewLocked()
}

// Submit publishes the order, resets the tray and starts a new order.
// It returns the submitted order and the order that replaced it.
func (s *Session) Submit(ctx context.Context) (finished, next View, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Empty() {
		return View{}, View{}, ErrEmptyOrder
	}
	return s.finishLocked(ctx, events.TopicOrderSubmitted, "submitted")
}

// Cancel discards the order, resets the tray and starts a new order.
// It returns the canceled order and the order that replaced it.
func (s *Session) Cancel(ctx context.Context) (finished, next View, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(ctx, events.TopicOrderCanceled, "canceled")
}

// Watch calls fn with the current order and again after every change to it.
// fn runs while the session lock is held and must not call back into the session.
func (s *Session) Watch(fn func(View)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Total is written last by every mutation, so the state is consistent here.
	stop := s.state.Total().Subscribe(func(pricing.Money) {
		fn(s.viewLocked())
	})
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			stop()
		})
	}
}

func (s *Session) finishLocked(ctx context.Context, topic, outcome string) (View, View, error) {
	finished := s.viewLocked()
	if s.events != nil {
		ev, err := s.events.Emit(ctx, topic, finished.OrderID, orderPayload(finished))
		if ev.ID == uuid.Nil {
			return View{}, View{}, fmt.Errorf("order: publish %s: %w", topic, err)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("topic", topic).Str("order_id", finished.OrderID.String()).Msg("order event notifier failed")
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveCompletion(outcome, finished.Total)
	}
	s.logger.Info().
		Str("order_id", finished.OrderID.String()).
		Str("outcome", outcome).
		Int64("total", finished.Total).
		Msg("order finished")

	// Rotate the id first so watchers notified by Reset see the new order.
	s.id = s.newID()
	s.state.Reset()
	return finished, s.viewLocked(), nil
}

func (s *Session) observeSelection(category menu.Category, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrUnknownCategory):
		result = "unknown_category"
	case errors.Is(err, ErrUnknownItem):
		result = "unknown_item"
	case err != nil:
		result = "error"
	}
	s.metrics.ObserveSelection(string(category), result)
}

func (s *Session) viewLocked() View {
	return View{OrderID: s.id, Snapshot: s.state.Snapshot()}
}

type payloadItem struct {
	Name  string        `json:"name"`
	Price pricing.Money `json:"price"`
}

type payload struct {
	Items    map[menu.Category]payloadItem `json:"items"`
	Subtotal pricing.Money                 `json:"subtotal"`
	Tax      pricing.Money                 `json:"tax"`
	Total    pricing.Money                 `json:"total"`
	TaxBps   int                           `json:"tax_rate_bps"`
}

func orderPayload(v View) payload {
	p := payload{
		Items:    make(map[menu.Category]payloadItem, 3),
		Subtotal: v.Subtotal,
		Tax:      v.Tax,
		Total:    v.Total,
		TaxBps:   v.TaxBps,
	}
	for _, c := range menu.Categories() {
		if it := v.Selection(c); it != nil {
			p.Items[c] = payloadItem{Name: it.Name, Price: it.Price}
		}
	}
	return p
}
