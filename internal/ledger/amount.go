package ledger

import "fmt"

// Amount is a monetary value in currency minor units (cents). Money never
// passes through floating point.
type Amount int64

// String renders the amount with two decimal places, e.g. 125000 -> "1250.00".
func (a Amount) String() string {
	units := int64(a) / 100
	cents := int64(a) % 100
	if cents < 0 {
		cents = -cents
	}
	if a < 0 && units == 0 {
		return fmt.Sprintf("-0.%02d", cents)
	}
	return fmt.Sprintf("%d.%02d", units, cents)
}

// Sum totals a list of amounts.
func Sum(amounts []Amount) Amount {
	var total Amount
	for _, amount := range amounts {
		total += amount
	}
	return total
}
