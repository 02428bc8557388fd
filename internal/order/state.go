package order

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/observable"
	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// ErrUnknownItem is returned when a selection does not resolve in the menu catalog.
var ErrUnknownItem = errors.New("unknown menu item")

// ErrUnknownCategory is returned by Select for a category outside the tray.
var ErrUnknownCategory = errors.New("unknown menu category")

// Catalog resolves item names for a State.
type Catalog interface {
	Lookup(name string) (menu.Item, bool)
}

// Option customises a State.
type Option func(*State)

// WithLogger attaches a logger used for selection tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

type slot struct {
	category menu.Category
	item     *observable.Value[*menu.Item]
	// previous holds the price of the slot's selection captured just before replacement.
	previous pricing.Money
}

// State is the in-progress order: one optional item per category plus derived totals.
// It is not safe for concurrent use.
type State struct {
	catalog Catalog
	taxBps  int
	logger  zerolog.Logger

	entree        slot
	side          slot
	accompaniment slot

	subtotal *observable.Value[pricing.Money]
	tax      *observable.Value[pricing.Money]
	total    *observable.Value[pricing.Money]
}

// NewState returns an empty order priced with the given tax rate in basis points.
func NewState(catalog Catalog, taxBps int, opts ...Option) (*State, error) {
	if catalog == nil {
		return nil, errors.New("order: catalog is required")
	}
	if !pricing.ValidBps(taxBps) {
		return nil, fmt.Errorf("order: tax rate %d bps out of range", taxBps)
	}
	s := &State{
		catalog:       catalog,
		taxBps:        taxBps,
		logger:        zerolog.Nop(),
		entree:        slot{category: menu.CategoryEntree, item: observable.New[*menu.Item](nil)},
		side:          slot{category: menu.CategorySide, item: observable.New[*menu.Item](nil)},
		accompaniment: slot{category: menu.CategoryAccompaniment, item: observable.New[*menu.Item](nil)},
		subtotal:      observable.New[pricing.Money](0),
		tax:           observable.New[pricing.Money](0),
		total:         observable.New[pricing.Money](0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TaxBps returns the tax rate fixed for this order.
func (s *State) TaxBps() int { return s.taxBps }

// Entree exposes the selected entree; nil when unselected.
func (s *State) Entree() observable.Reader[*menu.Item] { return s.entree.item }

// Side exposes the selected side; nil when unselected.
func (s *State) Side() observable.Reader[*menu.Item] { return s.side.item }

// Accompaniment exposes the selected accompaniment; nil when unselected.
func (s *State) Accompaniment() observable.Reader[*menu.Item] { return s.accompaniment.item }

// Subtotal exposes the pre-tax sum of the selections.
func (s *State) Subtotal() observable.Reader[pricing.Money] { return s.subtotal }

// Tax exposes the tax charged on the subtotal.
func (s *State) Tax() observable.Reader[pricing.Money] { return s.tax }

// Total exposes subtotal plus tax.
func (s *State) Total() observable.Reader[pricing.Money] { return s.total }

// SelectEntree replaces the entree with the named item.
func (s *State) SelectEntree(name string) error { return s.selectInto(&s.entree, name) }

// SelectSide replaces the side with the named item.
func (s *State) SelectSide(name string) error { return s.selectInto(&s.side, name) }

// SelectAccompaniment replaces the accompaniment with the named item.
func (s *State) SelectAccompaniment(name string) error {
	return s.selectInto(&s.accompaniment, name)
}

// Select dispatches to the selector for the given category.
func (s *State) Select(category menu.Category, name string) error {
	sl := s.slotFor(category)
	if sl == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.selectInto(sl, name)
}

func (s *State) selectInto(sl *slot, name string) error {
	item, ok := s.catalog.Lookup(name)
	if !ok {
		s.logger.Debug().Str("category", string(sl.category)).Str("item", name).Msg("selection rejected")
		return fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	if item.Category != sl.category {
		s.logger.Debug().Str("category", string(sl.category)).Str("item", name).Msg("selection rejected")
		return fmt.Errorf("%w: %q is not a %s", ErrUnknownItem, name, sl.category)
	}

	sl.previous = 0
	if current := sl.item.Get(); current != nil {
		sl.previous = current.Price
	}
	subtotal := s.subtotal.Get() - sl.previous + item.Price
	summary := pricing.Compute(subtotal, s.taxBps)

	selected := item
	sl.item.Set(&selected)
	s.subtotal.Set(summary.Subtotal)
	s.tax.Set(summary.Tax)
	s.total.Set(summary.Total)

	s.logger.Debug().
		Str("category", string(sl.category)).
		Str("item", item.Name).
		Int64("previous_price", sl.previous).
		Int64("subtotal", summary.Subtotal).
		Int64("total", summary.Total).
		Msg("item selected")
	return nil
}

// RecomputeTaxAndTotal derives tax and total from the current subtotal.
func (s *State) RecomputeTaxAndTotal() {
	summary := pricing.Compute(s.subtotal.Get(), s.taxBps)
	s.tax.Set(summary.Tax)
	s.total.Set(summary.Total)
}

// Reset clears the selections and zeroes every derived amount.
func (s *State) Reset() {
	for _, sl := range s.slots() {
		sl.previous = 0
		sl.item.Set(nil)
	}
	s.subtotal.Set(0)
	s.tax.Set(0)
	s.total.Set(0)
	s.logger.Debug().Msg("order reset")
}

// Empty reports whether nothing is selected.
func (s *State) Empty() bool {
	for _, sl := range s.slots() {
		if sl.item.Get() != nil {
			return false
		}
	}
	return true
}

// Snapshot captures the current values for serialization.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Entree:        copyItem(s.entree.item.Get()),
		Side:          copyItem(s.side.item.Get()),
		Accompaniment: copyItem(s.accompaniment.item.Get()),
		Subtotal:      s.subtotal.Get(),
		Tax:           s.tax.Get(),
		Total:         s.total.Get(),
		TaxBps:        s.taxBps,
	}
}

func (s *State) slots() []*slot {
	return []*slot{&s.entree, &s.side, &s.accompaniment}
}

func (s *State) slotFor(category menu.Category) *slot {
	switch category {
	case menu.CategoryEntree:
		return &s.entree
	case menu.CategorySide:
		return &s.side
	case menu.CategoryAccompaniment:
		return &s.accompaniment
	default:
		return nil
	}
}

// Snapshot is a plain copy of a State.
type Snapshot struct {
	Entree        *menu.Item
	Side          *menu.Item
	Accompaniment *menu.Item
	Subtotal      pricing.Money
	Tax           pricing.Money
	Total         pricing.Money
	TaxBps        int
}

// Selection returns the snapshot's item for the category.
func (s Snapshot) Selection(category menu.Category) *menu.Item {
	switch category {
	case menu.CategoryEntree:
		return s.Entree
	case menu.CategorySide:
		return s.Side
	case menu.CategoryAccompaniment:
		return s.Accompaniment
	default:
		return nil
	}
}

func copyItem(it *menu.Item) *menu.Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}
