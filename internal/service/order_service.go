package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type OrderLineRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	UnitPrice  string `json:"unit_price"`  // Optional: defaults to the product price
	TaxPercent string `json:"tax_percent"` // Optional: defaults to the product tax rate
}

type CreateOrderRequest struct {
	Type    string             `json:"type" binding:"required,oneof=SALE PURCHASE"`
	PartyID string             `json:"party_id" binding:"required"`
	Channel string             `json:"channel" binding:"omitempty,oneof=SALES WEBSITE"`
	Note    string             `json:"note"`
	Lines   []OrderLineRequest `json:"lines" binding:"required,dive"`
}

type UpdateOrderLinesRequest struct {
	Lines []OrderLineRequest `json:"lines" binding:"required,dive"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type OrderFilter struct {
	Type    string
	Status  string
	PartyID string
	Page    int
	Limit   int
}

type OrderLineResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TaxPercent string `json:"tax_percent"`
	Subtotal   string `json:"subtotal"`
	TaxAmount  string `json:"tax_amount"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Type           string              `json:"type"`
	Channel        string              `json:"channel"`
	Status         string              `json:"status"`
	PartyID        string              `json:"party_id"`
	PartyName      string              `json:"party_name"`
	Lines          []OrderLineResponse `json:"lines"`
	Subtotal       string              `json:"subtotal"`
	TaxAmount      string              `json:"tax_amount"`
	DiscountAmount string              `json:"discount_amount"`
	TotalAmount    string              `json:"total_amount"`
	CouponCode     *string             `json:"coupon_code"`
	Note           string              `json:"note"`
	ConfirmedAt    *string             `json:"confirmed_at"`
	CancelledAt    *string             `json:"cancelled_at"`
	CreatedAt      string              `json:"created_at"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (OrderResponse, error)
	UpdateOrderLines(ctx context.Context, actorID, id string, req UpdateOrderLinesRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error)
	ConfirmOrder(ctx context.Context, actorID, id string) (OrderResponse, error)
	CancelOrder(ctx context.Context, actorID, id string) (OrderResponse, error)
	ApplyCoupon(ctx context.Context, actorID, id string, req ApplyCouponRequest) (OrderResponse, error)
}

type orderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	contactRepo     repository.ContactRepository
	couponRepo      repository.CouponRepository
	inventoryTxRepo repository.InventoryTxRepository
	auditRepo       repository.AuditRepository
	numbers         NumberGenerator
	txManager       repository.TransactionManager
	logger          *zap.Logger
	now             func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	contactRepo repository.ContactRepository,
	couponRepo repository.CouponRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	auditRepo repository.AuditRepository,
	numbers NumberGenerator,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		contactRepo:     contactRepo,
		couponRepo:      couponRepo,
		inventoryTxRepo: inventoryTxRepo,
		auditRepo:       auditRepo,
		numbers:         numbers,
		txManager:       txManager,
		logger:          logger,
		now:             time.Now,
	}
}

// --- Implementation ---

func (s *orderService) CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (OrderResponse, error) {
	if req.Type != model.OrderTypeSale && req.Type != model.OrderTypePurchase {
		return OrderResponse{}, apperror.Validation("type must be SALE or PURCHASE")
	}
	partyID, err := parseID("party_id", req.PartyID)
	if err != nil {
		return OrderResponse{}, err
	}

	channel := req.Channel
	if channel == "" {
		channel = model.ChannelSales
	}
	if req.Type == model.OrderTypePurchase && channel != model.ChannelSales {
		return OrderResponse{}, apperror.Validation("purchase orders can only be placed through the SALES channel")
	}

	party, err := s.contactRepo.FindByID(ctx, partyID)
	if err != nil {
		return OrderResponse{}, notFound(err, "contact %s not found", partyID)
	}
	if req.Type == model.OrderTypeSale && !party.IsCustomer() {
		return OrderResponse{}, apperror.Validation("contact %s is not a customer", party.Name)
	}
	if req.Type == model.OrderTypePurchase && !party.IsVendor() {
		return OrderResponse{}, apperror.Validation("contact %s is not a vendor", party.Name)
	}

	var orderID uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		lines, err := s.buildLines(txCtx, req.Type, req.Lines)
		if err != nil {
			return err
		}

		prefix := PrefixSaleOrder
		if req.Type == model.OrderTypePurchase {
			prefix = PrefixPurchaseOrder
		}
		number, err := s.numbers.Next(txCtx, prefix)
		if err != nil {
			return err
		}

		order := model.Order{
			OrderNumber: number,
			Type:        req.Type,
			Channel:     channel,
			Status:      model.OrderStatusDraft,
			PartyID:     partyID,
			Lines:       lines,
			Note:        req.Note,
			CreatedBy:   actorUUID(actorID),
		}
		computeTotals(&order, decimal.Zero)

		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, "order number already in use")
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		orderID = order.ID

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"type":     order.Type,
			"party_id": order.PartyID.String(),
			"lines":    len(order.Lines),
			"total":    money(order.TotalAmount),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.reload(ctx, orderID)
}

// UpdateOrderLines replaces the lines of a DRAFT order and recomputes its
// totals. When a coupon is attached, its offer percentage is re-applied to the
// new subtotal in the same transaction, so the discount always matches the
// current lines and the coupon stays redeemed on this order.
func (s *orderService) UpdateOrderLines(ctx context.Context, actorID, id string, req UpdateOrderLinesRequest) (OrderResponse, error) {
	orderID, err := parseID("order id", id)
	if err != nil {
		return OrderResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFound(err, "order %s not found", orderID)
		}
		if !order.IsDraft() {
			return apperror.InvalidState("order %s is %s; only DRAFT orders can be edited", order.OrderNumber, order.Status)
		}

		lines, err := s.buildLines(txCtx, order.Type, req.Lines)
		if err != nil {
			return err
		}

		// An attached coupon is re-applied to the new subtotal.
		discountPercent := decimal.Zero
		if order.CouponID != nil {
			coupon, err := s.couponRepo.FindByID(txCtx, *order.CouponID)
			if err != nil {
				return notFound(err, "coupon attached to order %s not found", order.OrderNumber)
			}
			if coupon.Offer != nil {
				discountPercent = coupon.Offer.DiscountPercentage
			}
		}

		order.Lines = lines
		computeTotals(order, discountPercent)

		if err := s.orderRepo.ReplaceLines(txCtx, order.ID, order.Lines); err != nil {
			return fmt.Errorf("failed to replace order lines: %w", err)
		}
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"lines": len(order.Lines),
			"total": money(order.TotalAmount),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.reload(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	orderID, err := parseID("order id", id)
	if err != nil {
		return OrderResponse{}, err
	}
	return s.reload(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	partyID, err := parseOptionalID("party_id", filter.PartyID)
	if err != nil {
		return nil, 0, err
	}

	orders, total, err := s.orderRepo.List(ctx, repository.OrderListFilter{
		Type:    filter.Type,
		Status:  filter.Status,
		PartyID: partyID,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}
	return result, total, nil
}

// ConfirmOrder moves a DRAFT order to CONFIRMED and applies its stock
// movement. Every line succeeds or the whole transaction rolls back.
func (s *orderService) ConfirmOrder(ctx context.Context, actorID, id string) (OrderResponse, error) {
	orderID, err := parseID("order id", id)
	if err != nil {
		return OrderResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFound(err, "order %s not found", orderID)
		}
		if !order.IsDraft() {
			return apperror.InvalidState("order %s is %s; only DRAFT orders can be confirmed", order.OrderNumber, order.Status)
		}

		txType := model.TxTypeOut
		sign := -1
		if order.Type == model.OrderTypePurchase {
			txType = model.TxTypeIn
			sign = 1
		}

		for _, movement := range aggregateQuantities(order.Lines) {
			stockAfter, err := s.productRepo.AdjustStock(txCtx, movement.productID, sign*movement.quantity)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrInsufficientStock):
					return apperror.InsufficientStock("insufficient stock for product %s: %d requested", movement.productID, movement.quantity)
				case errors.Is(err, repository.ErrNotFound):
					return apperror.NotFound("product %s not found", movement.productID)
				}
				return fmt.Errorf("failed to adjust stock for product %s: %w", movement.productID, err)
			}

			ref := order.ID
			if err := s.inventoryTxRepo.Create(txCtx, &model.InventoryTransaction{
				ProductID:       movement.productID,
				OrderID:         &ref,
				TransactionType: txType,
				QuantityChanged: movement.quantity,
				StockAfter:      stockAfter,
				Reason:          "order " + order.OrderNumber,
			}); err != nil {
				return fmt.Errorf("failed to record inventory transaction: %w", err)
			}
		}

		now := s.now()
		order.Status = model.OrderStatusConfirmed
		order.ConfirmedAt = &now
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionConfirmOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"total": money(order.TotalAmount),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	s.logger.Info("order confirmed", zap.String("order_id", orderID.String()))
	return s.reload(ctx, orderID)
}

func (s *orderService) CancelOrder(ctx context.Context, actorID, id string) (OrderResponse, error) {
	orderID, err := parseID("order id", id)
	if err != nil {
		return OrderResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFound(err, "order %s not found", orderID)
		}
		if !order.IsDraft() {
			return apperror.InvalidState("order %s is %s; only DRAFT orders can be cancelled", order.OrderNumber, order.Status)
		}

		now := s.now()
		order.Status = model.OrderStatusCancelled
		order.CancelledAt = &now
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCancelOrder, order.ID.String(), order.OrderNumber, nil)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.reload(ctx, orderID)
}

// ApplyCoupon redeems a coupon on a DRAFT sale order. The coupon is marked
// USED and the discount attached in the same transaction.
func (s *orderService) ApplyCoupon(ctx context.Context, actorID, id string, req ApplyCouponRequest) (OrderResponse, error) {
	orderID, err := parseID("order id", id)
	if err != nil {
		return OrderResponse{}, err
	}
	code := normalizeCouponCode(req.Code)
	if code == "" {
		return OrderResponse{}, apperror.Validation("coupon code is required")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFound(err, "order %s not found", orderID)
		}
		if !order.IsDraft() {
			return apperror.InvalidState("order %s is %s; coupons can only be applied to DRAFT orders", order.OrderNumber, order.Status)
		}
		if order.Type != model.OrderTypeSale {
			return apperror.Validation("coupons can only be applied to sale orders")
		}
		if order.CouponID != nil {
			return apperror.Conflict("order %s already has coupon %s applied", order.OrderNumber, *order.CouponCode)
		}

		coupon, err := s.couponRepo.FindByCode(txCtx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.CouponInvalid("coupon %s not found", code)
			}
			return fmt.Errorf("failed to look up coupon: %w", err)
		}

		now := s.now()
		if reason := couponRejection(coupon, &order.PartyID, order.Channel, now); reason != "" {
			return apperror.CouponInvalid("coupon %s cannot be applied: %s", code, reason)
		}

		if err := s.couponRepo.MarkUsed(txCtx, coupon.ID, order.ID, now); err != nil {
			switch {
			case errors.Is(err, repository.ErrStaleState):
				return apperror.CouponInvalid("coupon %s cannot be applied: %s", code, "already used")
			case errors.Is(err, repository.ErrDuplicate):
				return apperror.Wrap(apperror.KindConflict, err, "coupon is already attached to an order")
			}
			return fmt.Errorf("failed to redeem coupon: %w", err)
		}

		order.CouponID = &coupon.ID
		order.CouponCode = &coupon.Code
		computeTotals(order, coupon.Offer.DiscountPercentage)
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionApplyCoupon, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"coupon":   coupon.Code,
			"discount": money(order.DiscountAmount),
			"total":    money(order.TotalAmount),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.reload(ctx, orderID)
}

// --- Helpers ---

// buildLines validates line requests against the product catalog. Sale
// lines may not request more than the current stock of their product.
func (s *orderService) buildLines(ctx context.Context, orderType string, reqs []OrderLineRequest) ([]model.OrderLine, error) {
	if len(reqs) == 0 {
		return nil, apperror.Validation("order must have at least one line")
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for i, r := range reqs {
		pid, err := parseID(fmt.Sprintf("lines[%d].product_id", i), r.ProductID)
		if err != nil {
			return nil, err
		}
		if r.Quantity <= 0 {
			return nil, apperror.Validation("lines[%d].quantity must be greater than 0", i)
		}
		ids = append(ids, pid)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	requested := make(map[uuid.UUID]int, len(ids))
	lines := make([]model.OrderLine, 0, len(reqs))
	for i, r := range reqs {
		product, ok := byID[ids[i]]
		if !ok {
			return nil, apperror.NotFound("product %s not found", ids[i])
		}

		unitPrice := product.Price
		if r.UnitPrice != "" {
			if unitPrice, err = parseMoney(fmt.Sprintf("lines[%d].unit_price", i), r.UnitPrice); err != nil {
				return nil, err
			}
		}
		if unitPrice.IsNegative() {
			return nil, apperror.Validation("lines[%d].unit_price must not be negative", i)
		}

		taxPercent := product.TaxPercent
		if r.TaxPercent != "" {
			if taxPercent, err = parsePercent(fmt.Sprintf("lines[%d].tax_percent", i), r.TaxPercent); err != nil {
				return nil, err
			}
		}

		requested[product.ID] += r.Quantity
		if orderType == model.OrderTypeSale && requested[product.ID] > product.CurrentStock {
			return nil, apperror.InsufficientStock("product %s has %d in stock, %d requested", product.SKU, product.CurrentStock, requested[product.ID])
		}

		lines = append(lines, model.OrderLine{
			Position:   i + 1,
			ProductID:  product.ID,
			Quantity:   r.Quantity,
			UnitPrice:  unitPrice,
			TaxPercent: taxPercent,
		})
	}
	return lines, nil
}

type stockMovement struct {
	productID uuid.UUID
	quantity  int
}

// aggregateQuantities sums line quantities per product, ordered by product
// id so concurrent confirmations lock product rows in the same order.
func aggregateQuantities(lines []model.OrderLine) []stockMovement {
	totals := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}
	movements := make([]stockMovement, 0, len(totals))
	for id, qty := range totals {
		movements = append(movements, stockMovement{productID: id, quantity: qty})
	}
	sort.Slice(movements, func(i, j int) bool {
		return strings.Compare(movements[i].productID.String(), movements[j].productID.String()) < 0
	})
	return movements
}

func (s *orderService) reload(ctx context.Context, id uuid.UUID) (OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return OrderResponse{}, notFound(err, "order %s not found", id)
	}
	return toOrderResponse(*order), nil
}

// --- Mapping ---

func toOrderResponse(o model.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		Type:           o.Type,
		Channel:        o.Channel,
		Status:         o.Status,
		PartyID:        o.PartyID.String(),
		Lines:          make([]OrderLineResponse, 0, len(o.Lines)),
		Subtotal:       money(o.Subtotal),
		TaxAmount:      money(o.TaxAmount),
		DiscountAmount: money(o.DiscountAmount),
		TotalAmount:    money(o.TotalAmount),
		CouponCode:     o.CouponCode,
		Note:           o.Note,
		ConfirmedAt:    formatTime(o.ConfirmedAt),
		CancelledAt:    formatTime(o.CancelledAt),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.Party != nil {
		resp.PartyName = o.Party.Name
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:         l.ID.String(),
			ProductID:  l.ProductID.String(),
			Quantity:   l.Quantity,
			UnitPrice:  money(l.UnitPrice),
			TaxPercent: l.TaxPercent.StringFixed(2),
			Subtotal:   money(l.Subtotal),
			TaxAmount:  money(l.TaxAmount),
		})
	}
	return resp
}
