package menu

import (
	"errors"
	"fmt"
)

// DefaultMinorDigits is the number of fractional digits the built-in menu is priced in.
const DefaultMinorDigits = 2

// ErrCurrencyDigits is returned when the built-in menu is used with a currency
// whose minor unit differs from the one it is priced in.
var ErrCurrencyDigits = errors.New("menu priced for a different currency minor unit")

// Default returns the built-in lunch tray menu, priced in hundredths.
func Default() *Catalog {
	c, err := NewCatalog(defaultItems()...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultFor returns the built-in menu for a currency with the given minor
// digits, rejecting currencies it is not priced in.
func DefaultFor(digits int) (*Catalog, error) {
	if digits != DefaultMinorDigits {
		return nil, fmt.Errorf("%w: built-in menu uses %d digits, currency uses %d", ErrCurrencyDigits, DefaultMinorDigits, digits)
	}
	return Default(), nil
}

func defaultItems() []Item {
	return []Item{
		{Name: "cauliflower", Title: "Cauliflower", Description: "Whole cauliflower, brined, roasted, and deep fried", Category: CategoryEntree, Price: 700},
		{Name: "chili", Title: "Three Bean Chili", Description: "Black beans, red beans, kidney beans, slow cooked, topped with onion", Category: CategoryEntree, Price: 400},
		{Name: "pasta", Title: "Mushroom Pasta", Description: "Penne pasta, mushrooms, basil, with plum tomatoes cooked in garlic and olive oil", Category: CategoryEntree, Price: 550},
		{Name: "skillet", Title: "Spicy Black Bean Skillet", Description: "Seasonal vegetables, black beans, house spice blend, served with avocado and quick pickled onions", Category: CategoryEntree, Price: 550},
		{Name: "salad", Title: "Summer Salad", Description: "Heirloom tomatoes, butter lettuce, peaches, avocado, balsamic dressing", Category: CategorySide, Price: 250},
		{Name: "soup", Title: "Butternut Squash Soup", Description: "Roasted butternut squash, roasted peppers, chili oil", Category: CategorySide, Price: 300},
		{Name: "potatoes", Title: "Spicy Potatoes", Description: "Marble potatoes, roasted, and fried in house spice blend", Category: CategorySide, Price: 200},
		{Name: "rice", Title: "Coconut Rice", Description: "Rice, coconut milk, lime, and sugar", Category: CategorySide, Price: 150},
		{Name: "bread", Title: "Lunch Roll", Description: "Fresh baked roll made in house", Category: CategoryAccompaniment, Price: 50},
		{Name: "berries", Title: "Mixed Berries", Description: "Strawberries, blueberries, raspberries, and huckleberries", Category: CategoryAccompaniment, Price: 100},
		{Name: "pickles", Title: "Pickled Veggies", Description: "Pickled cucumbers and carrots, made in house", Category: CategoryAccompaniment, Price: 50},
	}
}
