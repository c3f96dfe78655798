package service

import (
	"testing"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(qty int, price, tax string) model.OrderLine {
	return model.OrderLine{
		Quantity:   qty,
		UnitPrice:  decimal.RequireFromString(price),
		TaxPercent: decimal.RequireFromString(tax),
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []model.OrderLine
		discount string
		subtotal string
		tax      string
		disc     string
		total    string
	}{
		{
			name:     "single line with tax",
			lines:    []model.OrderLine{line(2, "500", "10")},
			discount: "0",
			subtotal: "1000.00", tax: "100.00", disc: "0.00", total: "1100.00",
		},
		{
			name:     "twenty percent coupon",
			lines:    []model.OrderLine{line(2, "500", "10")},
			discount: "20",
			subtotal: "1000.00", tax: "100.00", disc: "200.00", total: "900.00",
		},
		{
			name:     "mixed rates rounded per line",
			lines:    []model.OrderLine{line(3, "19.99", "7.5"), line(1, "0.10", "0")},
			discount: "0",
			subtotal: "60.07", tax: "4.50", disc: "0.00", total: "64.57",
		},
		{
			name:     "full discount keeps tax",
			lines:    []model.OrderLine{line(1, "80", "5")},
			discount: "100",
			subtotal: "80.00", tax: "4.00", disc: "80.00", total: "4.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &model.Order{Lines: tt.lines}
			computeTotals(order, decimal.RequireFromString(tt.discount))

			assert.Equal(t, tt.subtotal, money(order.Subtotal))
			assert.Equal(t, tt.tax, money(order.TaxAmount))
			assert.Equal(t, tt.disc, money(order.DiscountAmount))
			assert.Equal(t, tt.total, money(order.TotalAmount))
			assert.True(t, order.TotalAmount.Equal(order.Subtotal.Add(order.TaxAmount).Sub(order.DiscountAmount)))
			assert.False(t, order.TotalAmount.IsNegative())
		})
	}
}
