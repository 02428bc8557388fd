package menu

import "github.com/noah-isme/lunch-tray/internal/pricing"

// Category identifies the slot of the tray an item fills.
type Category string

const (
	CategoryEntree        Category = "entree"
	CategorySide          Category = "side"
	CategoryAccompaniment Category = "accompaniment"
)

// Categories returns the tray slots in display order.
func Categories() []Category {
	return []Category{CategoryEntree, CategorySide, CategoryAccompaniment}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEntree, CategorySide, CategoryAccompaniment:
		return true
	default:
		return false
	}
}

// ParseCategory maps a user-supplied string to a Category.
func ParseCategory(value string) (Category, bool) {
	c := Category(value)
	return c, c.Valid()
}

// Item is an immutable menu entry. Name is the lookup key.
type Item struct {
	Name        string        `json:"name" validate:"required"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Category    Category      `json:"category" validate:"oneof=entree side accompaniment"`
	Price       pricing.Money `json:"price" validate:"gte=0"`
}
