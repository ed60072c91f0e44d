package reconcile

import "github.com/google/uuid"

// Line is a single (product, quantity) entry in a cart or a stock ledger.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpsertAdd merges a quantity delta into the lines. An existing line for the
// product is incremented in place, otherwise a new line is appended. The
// delta is taken as-is; callers decide whether the product actually exists.
func UpsertAdd(lines []Line, productID uuid.UUID, delta int) []Line {
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += delta
			return lines
		}
	}
	return append(lines, Line{ProductID: productID, Quantity: delta})
}

// SetQuantity replaces the quantity of the product's line. A quantity of zero
// or below removes the line. Returns false when the product has no line.
func SetQuantity(lines []Line, productID uuid.UUID, quantity int) ([]Line, bool) {
	for i := range lines {
		if lines[i].ProductID == productID {
			if quantity <= 0 {
				return append(lines[:i], lines[i+1:]...), true
			}
			lines[i].Quantity = quantity
			return lines, true
		}
	}
	return lines, false
}

// Remove deletes the product's line. Returns false when the product has no line.
func Remove(lines []Line, productID uuid.UUID) ([]Line, bool) {
	for i := range lines {
		if lines[i].ProductID == productID {
			return append(lines[:i], lines[i+1:]...), true
		}
	}
	return lines, false
}
