package service

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// priceLine fills a line's subtotal and tax from quantity, price and rate.
func priceLine(line *model.OrderLine) {
	line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(moneyPlaces)
	line.TaxAmount = line.Subtotal.Mul(line.TaxPercent).Div(hundred).Round(moneyPlaces)
}

// computeTotals re-derives the order totals from its lines. discountPercent
// is the percentage of the attached coupon, or zero.
func computeTotals(order *model.Order, discountPercent decimal.Decimal) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range order.Lines {
		priceLine(&order.Lines[i])
		subtotal = subtotal.Add(order.Lines[i].Subtotal)
		tax = tax.Add(order.Lines[i].TaxAmount)
	}

	discount := subtotal.Mul(discountPercent).Div(hundred).Round(moneyPlaces)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	order.Subtotal = subtotal
	order.TaxAmount = tax
	order.DiscountAmount = discount
	order.TotalAmount = decimal.Max(decimal.Zero, subtotal.Add(tax).Sub(discount))
}
