package service

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/apperror"
	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actor = "5b1e7c1e-8a53-4c8e-9d1f-2a7d2f3c9b10"

func createSale(t *testing.T, f *fixture, party model.Contact, lines ...OrderLineRequest) OrderResponse {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), actor, CreateOrderRequest{
		Type:    model.OrderTypeSale,
		PartyID: party.ID.String(),
		Lines:   lines,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 10)

	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 2})

	assert.Equal(t, model.OrderStatusDraft, order.Status)
	assert.Equal(t, "SO-20260315-00001", order.OrderNumber)
	assert.Equal(t, model.ChannelSales, order.Channel)
	assert.Equal(t, "1000.00", order.Subtotal)
	assert.Equal(t, "100.00", order.TaxAmount)
	assert.Equal(t, "0.00", order.DiscountAmount)
	assert.Equal(t, "1100.00", order.TotalAmount)
	assert.Equal(t, "Ada", order.PartyName)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "500.00", order.Lines[0].UnitPrice)

	// No stock moves before confirmation.
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	second := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	assert.Equal(t, "SO-20260315-00002", second.OrderNumber)
}

func TestCreateOrderOverridesLinePricing(t *testing.T) {
	f := newFixture(t)
	vendor := f.addContact(t, "Acme", model.ContactTypeVendor, nil)
	p := f.addProduct(t, "BOLT", "2", "0", 0)

	order, err := f.orders.CreateOrder(context.Background(), actor, CreateOrderRequest{
		Type:    model.OrderTypePurchase,
		PartyID: vendor.ID.String(),
		Lines:   []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 100, UnitPrice: "1.25", TaxPercent: "8"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-20260315-00001", order.OrderNumber)
	assert.Equal(t, "125.00", order.Subtotal)
	assert.Equal(t, "10.00", order.TaxAmount)
	assert.Equal(t, "135.00", order.TotalAmount)
}

func TestCreateOrderLinePricingPrecision(t *testing.T) {
	f := newFixture(t)
	vendor := f.addContact(t, "Acme", model.ContactTypeVendor, nil)
	p := f.addProduct(t, "BOLT", "2", "0", 0)

	purchase := func(price, tax string) (OrderResponse, error) {
		return f.orders.CreateOrder(context.Background(), actor, CreateOrderRequest{
			Type:    model.OrderTypePurchase,
			PartyID: vendor.ID.String(),
			Lines:   []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 3, UnitPrice: price, TaxPercent: tax}},
		})
	}

	_, err := purchase("0.005", "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "unit price below a cent")
	_, err = purchase("", "10.555")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "tax percent beyond two places")

	orders, _, err := f.orders.ListOrders(context.Background(), OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Trailing zeros are not extra precision.
	order, err := purchase("2.500", "10.50")
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "2.50", order.Lines[0].UnitPrice)
	assert.Equal(t, "10.50", order.Lines[0].TaxPercent)
	assert.Equal(t, "7.50", order.Subtotal)
}

func TestCreateOrderRejections(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	vendor := f.addContact(t, "Acme", model.ContactTypeVendor, nil)
	p := f.addProduct(t, "MUG", "500", "10", 3)

	tests := []struct {
		name string
		req  CreateOrderRequest
		kind apperror.Kind
	}{
		{"no lines", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String()}, apperror.KindValidation},
		{"zero quantity", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 0}}}, apperror.KindValidation},
		{"unknown product", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: "9d6f5a1c-0000-4000-8000-000000000001", Quantity: 1}}}, apperror.KindNotFound},
		{"over stock", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 4}}}, apperror.KindInsufficientStock},
		{"over stock across lines", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 2}, {ProductID: p.ID.String(), Quantity: 2}}}, apperror.KindInsufficientStock},
		{"negative price", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1, UnitPrice: "-1"}}}, apperror.KindValidation},
		{"tax above 100", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: customer.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1, TaxPercent: "101"}}}, apperror.KindValidation},
		{"vendor on sale", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: vendor.ID.String(),
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}}}, apperror.KindValidation},
		{"unknown party", CreateOrderRequest{Type: model.OrderTypeSale, PartyID: "9d6f5a1c-0000-4000-8000-000000000002",
			Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}}}, apperror.KindNotFound},
		{"bad type", CreateOrderRequest{Type: "RETURN", PartyID: customer.ID.String()}, apperror.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(context.Background(), actor, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}

	orders, total, err := f.orders.ListOrders(context.Background(), OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, total)
}

func TestConfirmOrderDecrementsStock(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	mug := f.addProduct(t, "MUG", "500", "10", 10)
	cup := f.addProduct(t, "CUP", "20", "0", 4)

	order := createSale(t, f, customer,
		OrderLineRequest{ProductID: mug.ID.String(), Quantity: 2},
		OrderLineRequest{ProductID: cup.ID.String(), Quantity: 1},
		OrderLineRequest{ProductID: mug.ID.String(), Quantity: 3},
	)

	confirmed, err := f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, 5, f.stockOf(t, mug.ID))
	assert.Equal(t, 3, f.stockOf(t, cup.ID))

	var mugMoves []model.InventoryTransaction
	for _, m := range f.store.movements {
		if m.ProductID == mug.ID {
			mugMoves = append(mugMoves, m)
		}
	}
	require.Len(t, mugMoves, 1)
	assert.Equal(t, model.TxTypeOut, mugMoves[0].TransactionType)
	assert.Equal(t, 5, mugMoves[0].QuantityChanged)
	assert.Equal(t, 5, mugMoves[0].StockAfter)
}

func TestConfirmPurchaseOrderIncrementsStock(t *testing.T) {
	f := newFixture(t)
	vendor := f.addContact(t, "Acme", model.ContactTypeBoth, nil)
	p := f.addProduct(t, "BOLT", "2", "0", 1)

	order, err := f.orders.CreateOrder(context.Background(), actor, CreateOrderRequest{
		Type:    model.OrderTypePurchase,
		PartyID: vendor.ID.String(),
		Lines:   []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 50}},
	})
	require.NoError(t, err)

	_, err = f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 51, f.stockOf(t, p.ID))
}

func TestConfirmOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	mug := f.addProduct(t, "MUG", "500", "10", 10)
	cup := f.addProduct(t, "CUP", "20", "0", 5)

	order := createSale(t, f, customer,
		OrderLineRequest{ProductID: mug.ID.String(), Quantity: 2},
		OrderLineRequest{ProductID: cup.ID.String(), Quantity: 5},
	)

	// Stock drops after the order was placed.
	_, err := f.products.AdjustStock(context.Background(), actor, cup.ID.String(), AdjustStockRequest{Delta: -2, Reason: "breakage"})
	require.NoError(t, err)
	movementsBefore := len(f.store.movements)

	_, err = f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))

	assert.Equal(t, 10, f.stockOf(t, mug.ID))
	assert.Equal(t, 3, f.stockOf(t, cup.ID))
	assert.Len(t, f.store.movements, movementsBefore)
	assert.Equal(t, model.OrderStatusDraft, f.orderStatus(t, order.ID))
}

func TestConfirmSingleLineShortStock(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 5)

	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 5})
	_, err := f.products.AdjustStock(context.Background(), actor, p.ID.String(), AdjustStockRequest{Delta: -2, Reason: "recount"})
	require.NoError(t, err)

	_, err = f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
	assert.Equal(t, 3, f.stockOf(t, p.ID))
}

func TestConfirmNonDraftFails(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 10)

	confirmed := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err := f.orders.ConfirmOrder(context.Background(), actor, confirmed.ID)
	require.NoError(t, err)

	cancelled := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.orders.CancelOrder(context.Background(), actor, cancelled.ID)
	require.NoError(t, err)

	for _, id := range []string{confirmed.ID, cancelled.ID} {
		_, err := f.orders.ConfirmOrder(context.Background(), actor, id)
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	}
	assert.Equal(t, 9, f.stockOf(t, p.ID))
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 10)
	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})

	cancelled, err := f.orders.CancelOrder(context.Background(), actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	_, err = f.orders.CancelOrder(context.Background(), actor, order.ID)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	_, err = f.orders.CancelOrder(context.Background(), actor, "not-a-uuid")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateOrderLines(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 10)
	offer := f.addOffer(t, "20", fixedNow.AddDate(0, 0, -1), fixedNow.AddDate(0, 1, 0), model.AvailableOnSales)
	f.addCoupon(t, "SPRING", offer, nil, nil)

	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 2})
	_, err := f.orders.ApplyCoupon(context.Background(), actor, order.ID, ApplyCouponRequest{Code: "spring"})
	require.NoError(t, err)

	updated, err := f.orders.UpdateOrderLines(context.Background(), actor, order.ID, UpdateOrderLinesRequest{
		Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1500.00", updated.Subtotal)
	assert.Equal(t, "300.00", updated.DiscountAmount)
	assert.Equal(t, "1350.00", updated.TotalAmount)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 3, updated.Lines[0].Quantity)

	_, err = f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderLines(context.Background(), actor, order.ID, UpdateOrderLinesRequest{
		Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestApplyCoupon(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 10)
	offer := f.addOffer(t, "20", fixedNow.AddDate(0, 0, -1), fixedNow.AddDate(0, 1, 0), model.AvailableOnSales)
	coupon := f.addCoupon(t, "CPN-AAAA00000001", offer, nil, nil)

	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 2})

	applied, err := f.orders.ApplyCoupon(context.Background(), actor, order.ID, ApplyCouponRequest{Code: "  cpn-aaaa00000001 "})
	require.NoError(t, err)
	assert.Equal(t, "200.00", applied.DiscountAmount)
	assert.Equal(t, "900.00", applied.TotalAmount)
	require.NotNil(t, applied.CouponCode)
	assert.Equal(t, coupon.Code, *applied.CouponCode)

	stored := f.store.coupons[coupon.ID]
	assert.Equal(t, model.CouponStatusUsed, stored.Status)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, order.ID, stored.OrderID.String())

	second := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.orders.ApplyCoupon(context.Background(), actor, second.ID, ApplyCouponRequest{Code: coupon.Code})
	assert.Equal(t, apperror.KindCouponInvalid, apperror.KindOf(err))
}

func TestApplyCouponRejections(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	other := f.addContact(t, "Bob", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "500", "10", 100)

	active := f.addOffer(t, "10", fixedNow.AddDate(0, 0, -10), fixedNow.AddDate(0, 0, 10), model.AvailableOnSales)
	website := f.addOffer(t, "15", fixedNow.AddDate(0, 0, -10), fixedNow.AddDate(0, 0, 10), model.AvailableOnWebsite)
	future := f.addOffer(t, "30", fixedNow.AddDate(0, 0, 1), fixedNow.AddDate(0, 0, 10), model.AvailableOnSales)
	yesterday := fixedNow.AddDate(0, 0, -1)

	f.addCoupon(t, "EXPIRED", active, nil, &yesterday)
	f.addCoupon(t, "BOUND", active, &other.ID, nil)
	f.addCoupon(t, "WEB", website, nil, nil)
	f.addCoupon(t, "LATER", future, nil, nil)

	for _, code := range []string{"MISSING", "EXPIRED", "BOUND", "WEB", "LATER"} {
		t.Run(code, func(t *testing.T) {
			order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
			_, err := f.orders.ApplyCoupon(context.Background(), actor, order.ID, ApplyCouponRequest{Code: code})
			assert.Equal(t, apperror.KindCouponInvalid, apperror.KindOf(err))

			reloaded, err := f.orders.GetOrder(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Nil(t, reloaded.CouponCode)
			assert.Equal(t, "0.00", reloaded.DiscountAmount)
		})
	}

	for _, c := range f.store.coupons {
		assert.Equal(t, model.CouponStatusUnused, c.Status, c.Code)
	}
}

func TestApplyCouponBoundToOrderParty(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "100", "0", 10)
	offer := f.addOffer(t, "50", fixedNow, fixedNow, model.AvailableOnSales)
	f.addCoupon(t, "ADA-ONLY", offer, &customer.ID, nil)

	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	applied, err := f.orders.ApplyCoupon(context.Background(), actor, order.ID, ApplyCouponRequest{Code: "ADA-ONLY"})
	require.NoError(t, err)
	assert.Equal(t, "50.00", applied.TotalAmount)
}

func TestApplyCouponOnlyOnDraftSale(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeBoth, nil)
	p := f.addProduct(t, "MUG", "100", "0", 10)
	offer := f.addOffer(t, "10", fixedNow, fixedNow, model.AvailableOnSales)
	f.addCoupon(t, "ONE", offer, nil, nil)
	f.addCoupon(t, "TWO", offer, nil, nil)

	purchase, err := f.orders.CreateOrder(context.Background(), actor, CreateOrderRequest{
		Type: model.OrderTypePurchase, PartyID: customer.ID.String(),
		Lines: []OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.orders.ApplyCoupon(context.Background(), actor, purchase.ID, ApplyCouponRequest{Code: "ONE"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	sale := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.orders.ConfirmOrder(context.Background(), actor, sale.ID)
	require.NoError(t, err)
	_, err = f.orders.ApplyCoupon(context.Background(), actor, sale.ID, ApplyCouponRequest{Code: "ONE"})
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	draft := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.orders.ApplyCoupon(context.Background(), actor, draft.ID, ApplyCouponRequest{Code: "ONE"})
	require.NoError(t, err)
	_, err = f.orders.ApplyCoupon(context.Background(), actor, draft.ID, ApplyCouponRequest{Code: "TWO"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, model.CouponStatusUnused, couponByCode(f, "TWO").Status)
}

func couponByCode(f *fixture, code string) model.Coupon {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, c := range f.store.coupons {
		if c.Code == code {
			return c
		}
	}
	return model.Coupon{}
}

func TestConcurrentCouponRedemption(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "100", "0", 100)
	offer := f.addOffer(t, "25", fixedNow, fixedNow.AddDate(0, 0, 7), model.AvailableOnSales)
	f.addCoupon(t, "ONCE", offer, nil, nil)

	const attempts = 8
	orderIDs := make([]string, attempts)
	for i := range orderIDs {
		orderIDs[i] = createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1}).ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
		start    = make(chan struct{})
	)
	for _, id := range orderIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			_, err := f.orders.ApplyCoupon(context.Background(), actor, id, ApplyCouponRequest{Code: "ONCE"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else if apperror.Is(err, apperror.KindCouponInvalid) {
				rejected++
			}
		}(id)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, rejected)

	withCoupon := 0
	for _, id := range orderIDs {
		o, err := f.orders.GetOrder(context.Background(), id)
		require.NoError(t, err)
		if o.CouponCode != nil {
			withCoupon++
		}
	}
	assert.Equal(t, 1, withCoupon)
}

func TestConcurrentConfirmationsDoNotOversell(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "100", "0", 5)

	orderIDs := make([]string, 3)
	for i := range orderIDs {
		orderIDs[i] = createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 2}).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, len(orderIDs))
	for i, id := range orderIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.orders.ConfirmOrder(context.Background(), actor, id)
		}(i, id)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, f.stockOf(t, p.ID))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ada := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	bob := f.addContact(t, "Bob", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "100", "0", 100)

	createSale(t, f, ada, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	createSale(t, f, ada, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	bobs := createSale(t, f, bob, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err := f.orders.ConfirmOrder(context.Background(), actor, bobs.ID)
	require.NoError(t, err)

	orders, total, err := f.orders.ListOrders(context.Background(), OrderFilter{PartyID: ada.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	orders, total, err = f.orders.ListOrders(context.Background(), OrderFilter{Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bobs.ID, orders[0].ID)

	_, _, err = f.orders.ListOrders(context.Background(), OrderFilter{PartyID: "nope"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAuditTrailForOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	customer := f.addContact(t, "Ada", model.ContactTypeCustomer, nil)
	p := f.addProduct(t, "MUG", "100", "0", 10)
	order := createSale(t, f, customer, OrderLineRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err := f.orders.ConfirmOrder(context.Background(), actor, order.ID)
	require.NoError(t, err)

	logs, total, err := f.audit.GetAuditLogs(context.Background(), AuditFilter{EntityID: order.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, model.ActionConfirmOrder, logs[0].Action)
	assert.Equal(t, model.ActionCreateOrder, logs[1].Action)
	assert.Equal(t, actor, logs[0].UserID)
}
