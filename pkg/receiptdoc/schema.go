// Package receiptdoc defines the order document the POS app submits for
// receipt printing
package receiptdoc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the snapshot of an order a receipt is printed from. All
// monetary fields arrive pre-computed from the order entry screen; the
// print pipeline formats them but never recomputes totals, so
// Total == Subtotal - Discount.Amount is the submitter's responsibility.
type Document struct {
	OrderID     string          `json:"order_id"`
	Timestamp   time.Time       `json:"timestamp"`
	CashierName string          `json:"cashier_name,omitempty"`
	Items       []LineItem      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    *Discount       `json:"discount,omitempty"`
	Total       decimal.Decimal `json:"total"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Change      decimal.Decimal `json:"change"`
	LogoURL     string          `json:"logo_url,omitempty"`
}

// LineItem is one ordered product line
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Discount is an order-level discount, optionally tied to a promo code
type Discount struct {
	Amount decimal.Decimal `json:"amount"`
	Code   string          `json:"code,omitempty"`
}
