package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// ErrInvalidPrice is returned when a menu file price cannot be represented in minor units.
var ErrInvalidPrice = errors.New("invalid price")

var maxPrice = decimal.NewFromInt(MaxPrice)

type fileItem struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Price       string   `json:"price"`
}

type fileMenu struct {
	Items []fileItem `json:"items"`
}

// LoadFile reads a JSON menu whose prices are decimal strings such as "5.50".
// digits is the number of minor-unit digits of the menu's currency.
func LoadFile(path string, digits int) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return Parse(data, digits)
}

// Parse decodes a JSON menu document into a Catalog.
func Parse(data []byte, digits int) (*Catalog, error) {
	var doc fileMenu
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	items := make([]Item, 0, len(doc.Items))
	for _, fi := range doc.Items {
		price, err := ParsePrice(fi.Price, digits)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", fi.Name, err)
		}
		items = append(items, Item{
			Name:        fi.Name,
			Title:       fi.Title,
			Description: fi.Description,
			Category:    fi.Category,
			Price:       price,
		})
	}
	return NewCatalog(items...)
}

// ParsePrice converts a decimal major-unit string into minor units of a
// currency with the given number of fractional digits.
func ParsePrice(value string, digits int) (pricing.Money, error) {
	if digits < 0 {
		return 0, fmt.Errorf("%w %q: negative minor digits %d", ErrInvalidPrice, value, digits)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPrice, value, err)
	}
	minor := d.Shift(int32(digits))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w %q: more than %d fractional digits", ErrInvalidPrice, value, digits)
	}
	if minor.IsNegative() {
		return 0, fmt.Errorf("%w %q: negative", ErrInvalidPrice, value)
	}
	if minor.GreaterThan(maxPrice) {
		return 0, fmt.Errorf("%w %q: exceeds maximum price", ErrInvalidPrice, value)
	}
	return minor.IntPart(), nil
}
