package pricing

import "math"

// Money represents a monetary value stored in minor units.
type Money = int64

// BpsDenominator is the number of basis points in a whole.
const BpsDenominator = 10000

// MaxSubtotal is the largest subtotal Tax accepts without overflowing at a 100% rate.
const MaxSubtotal Money = math.MaxInt64 / BpsDenominator

// Summary aggregates computed pricing components for one order.
type Summary struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// Sum adds the provided prices, ignoring negative amounts.
func Sum(prices ...Money) Money {
	var subtotal Money
	for _, p := range prices {
		if p <= 0 {
			continue
		}
		subtotal += p
	}
	return subtotal
}

// Tax applies the basis-point rate to the subtotal, rounding half to even to
// the nearest minor unit.
func Tax(subtotal Money, taxBps int) Money {
	if subtotal <= 0 || taxBps <= 0 {
		return 0
	}
	product := subtotal * Money(taxBps)
	tax, rem := product/BpsDenominator, product%BpsDenominator
	switch {
	case 2*rem > BpsDenominator:
		tax++
	case 2*rem == BpsDenominator && tax%2 == 1:
		tax++
	}
	return tax
}

// Compute derives tax and total for the given subtotal.
func Compute(subtotal Money, taxBps int) Summary {
	if subtotal < 0 {
		subtotal = 0
	}
	tax := Tax(subtotal, taxBps)
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// ValidBps reports whether the rate lies within [0, 100%].
func ValidBps(taxBps int) bool {
	return taxBps >= 0 && taxBps <= BpsDenominator
}
