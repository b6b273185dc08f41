package compose

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

// Layout constants for 58mm paper in the printer's default font: 32
// columns across. The item table packs quantity, name and amount into
// fixed fields with no separators.
const (
	paperColumns = 32
	qtyWidth     = 2
	nameWidth    = 18
	amountWidth  = 8
	labelWidth   = 22
	valueWidth   = 10

	// headerRow is the exact 31-character column header the POS app
	// expects above the item table.
	headerRow  = "QTY  ITEM                AMOUNT"
	timeLayout = "2006-01-02 15:04"
)

// padLeft right-justifies s in a field of exactly n characters. Longer
// strings are truncated silently: a fixed-width column can not grow, so
// callers sending very long values lose the tail.
func padLeft(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// padRight left-justifies s in a field of exactly n characters,
// truncating silently when longer.
func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func divider() string {
	return strings.Repeat("-", paperColumns)
}

// itemRow formats one line item. Names longer than the name column are
// cut, never wrapped.
func itemRow(item receiptdoc.LineItem) string {
	return padLeft(strconv.Itoa(item.Quantity), qtyWidth) +
		padRight(item.Name, nameWidth) +
		padLeft(item.LineTotal.StringFixed(2), amountWidth)
}

// totalRow renders one line of the totals block in its 22/10
// label/value layout.
func totalRow(label string, amount decimal.Decimal) string {
	return totalLine(label, amount.StringFixed(2))
}

func totalLine(label, value string) string {
	return padLeft(label, labelWidth) + padLeft(value, valueWidth)
}
