package receiptdoc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate checks a Document for shape errors before it reaches the
// composer. Arithmetic consistency between subtotal, discount and total
// is deliberately not checked here: the order entry screen owns those
// numbers.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.OrderID) == "" {
		return fmt.Errorf("order_id is required")
	}
	if d.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}

	if len(d.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("item[%d]: name is required", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item[%d] '%s': quantity must be at least 1, got %d", i, item.Name, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item[%d] '%s': unit_price must not be negative", i, item.Name)
		}
		if item.LineTotal.IsNegative() {
			return fmt.Errorf("item[%d] '%s': line_total must not be negative", i, item.Name)
		}
	}

	if d.Subtotal.IsNegative() {
		return fmt.Errorf("subtotal must not be negative")
	}
	if d.Discount != nil && d.Discount.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("discount amount must be positive")
	}
	if d.Total.IsNegative() {
		return fmt.Errorf("total must not be negative")
	}
	if d.AmountPaid.IsNegative() {
		return fmt.Errorf("amount_paid must not be negative")
	}
	if d.Change.IsNegative() {
		return fmt.Errorf("change must not be negative")
	}

	return nil
}
