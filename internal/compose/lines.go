package compose

import (
	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

// Line is one printable row of the receipt body with its style flags.
// The composer turns lines into command segments; the preview renderer
// draws the same lines onto a canvas, so layout lives in one place.
type Line struct {
	Text   string
	Bold   bool
	Center bool
}

// Lines lays out the document body in print order: order header, item
// table, totals block, footer. The logo, trailing feed and cut are
// print artifacts and stay with the composer.
func Lines(doc *receiptdoc.Document) []Line {
	var lines []Line
	left := func(s string) { lines = append(lines, Line{Text: s}) }

	left("Order #" + doc.OrderID)
	left(doc.Timestamp.Format(timeLayout))
	if doc.CashierName != "" {
		left("Cashier: " + doc.CashierName)
	}
	left("")

	left(headerRow)
	left(divider())
	for _, item := range doc.Items {
		left(itemRow(item))
	}
	left(divider())

	left(totalRow("Subtotal:", doc.Subtotal))
	if doc.Discount != nil {
		left(totalRow("Discount:", doc.Discount.Amount.Neg()))
		if doc.Discount.Code != "" {
			left(totalLine("Code:", doc.Discount.Code))
		}
	}
	lines = append(lines, Line{Text: totalRow("TOTAL:", doc.Total), Bold: true})
	left(totalRow("Paid:", doc.AmountPaid))
	left(totalRow("Change:", doc.Change))
	left("")

	lines = append(lines, Line{Text: "Thank you for your purchase!", Center: true})
	lines = append(lines, Line{Text: "Please come again", Center: true})

	return lines
}
