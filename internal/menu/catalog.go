package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// MaxPrice is the largest item price. A full tray of such items still fits
// the subtotal range pricing.Tax accepts.
const MaxPrice = pricing.MaxSubtotal / 3

// ErrDuplicateItem is returned when two items share a name.
var ErrDuplicateItem = errors.New("duplicate menu item")

// ErrInvalidItem is returned when an item fails validation.
var ErrInvalidItem = errors.New("invalid menu item")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog is a read-only name to item lookup.
type Catalog struct {
	items map[string]Item
	order []string
}

// NewCatalog validates the items and builds a Catalog.
func NewCatalog(items ...Item) (*Catalog, error) {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidItem, it.Name, err)
		}
		if it.Price > MaxPrice {
			return nil, fmt.Errorf("%w %q: price exceeds maximum", ErrInvalidItem, it.Name)
		}
		if _, exists := c.items[it.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.Name)
		}
		c.items[it.Name] = it
		c.order = append(c.order, it.Name)
	}
	rank := make(map[Category]int, 3)
	for i, cat := range Categories() {
		rank[cat] = i
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.items[c.order[i]], c.items[c.order[j]]
		if a.Category != b.Category {
			return rank[a.Category] < rank[b.Category]
		}
		return a.Name < b.Name
	})
	return c, nil
}

// Lookup returns the item registered under name.
func (c *Catalog) Lookup(name string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	it, ok := c.items[strings.TrimSpace(name)]
	return it, ok
}

// Items returns every item ordered by category then name.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// ByCategory returns the items of one category ordered by name.
func (c *Catalog) ByCategory(cat Category) []Item {
	var out []Item
	for _, it := range c.Items() {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Len reports the number of items in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
