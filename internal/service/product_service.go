package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventStockChanged is broadcast after a manual stock adjustment.
const EventStockChanged = "stock_changed"

// DTOs
type CreateProductRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Price        string `json:"price" binding:"required"`
	TaxPercent   string `json:"tax_percent"`   // Optional, defaults to 0
	InitialStock int    `json:"initial_stock"` // Optional opening balance
}

type UpdateProductRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	TaxPercent  string `json:"tax_percent"`
	IsActive    *bool  `json:"is_active"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CurrentStock int    `json:"current_stock"`
	Price        string `json:"price"`
	TaxPercent   string `json:"tax_percent"`
	IsActive     bool   `json:"is_active"`
}

type StockMovementResponse struct {
	ID              string  `json:"id"`
	OrderID         *string `json:"order_id"`
	TransactionType string  `json:"transaction_type"`
	QuantityChanged int     `json:"quantity_changed"`
	StockAfter      int     `json:"stock_after"`
	Reason          string  `json:"reason"`
	CreatedAt       string  `json:"created_at"`
}

type ProductService interface {
	GetProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, actorID, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, actorID, id string) error
	AdjustStock(ctx context.Context, actorID, id string, req AdjustStockRequest) (ProductResponse, error)
	ListStockMovements(ctx context.Context, id string, page, limit int) ([]StockMovementResponse, int64, error)
}

type productService struct {
	productRepo     repository.ProductRepository
	inventoryTxRepo repository.InventoryTxRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	notifier        Notifier
	logger          *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	inventoryTxRepo repository.InventoryTxRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
	logger *zap.Logger,
) ProductService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &productService{
		productRepo:     productRepo,
		inventoryTxRepo: inventoryTxRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *productService) GetProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	page, limit = normalizePage(page, limit)

	products, total, err := s.productRepo.List(ctx, page, limit, strings.TrimSpace(search))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := parseID("product id", id)
	if err != nil {
		return ProductResponse{}, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, notFound(err, "product %s not found", productID)
	}
	return toProductResponse(*product), nil
}

func (s *productService) CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (ProductResponse, error) {
	price, taxPercent, err := parsePricing(req.Price, req.TaxPercent)
	if err != nil {
		return ProductResponse{}, err
	}
	if req.InitialStock < 0 {
		return ProductResponse{}, apperror.Validation("initial_stock must not be negative")
	}

	product := model.Product{
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        price,
		TaxPercent:   taxPercent,
		CurrentStock: req.InitialStock,
		IsActive:     true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, fmt.Sprintf("sku %s already exists", product.SKU))
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		if product.CurrentStock > 0 {
			if err := s.inventoryTxRepo.Create(txCtx, &model.InventoryTransaction{
				ProductID:       product.ID,
				TransactionType: model.TxTypeIn,
				QuantityChanged: product.CurrentStock,
				StockAfter:      product.CurrentStock,
				Reason:          "opening balance",
			}); err != nil {
				return fmt.Errorf("failed to record inventory transaction: %w", err)
			}
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateProduct, product.ID.String(), product.Name, map[string]interface{}{
			"sku":           product.SKU,
			"price":         money(product.Price),
			"initial_stock": product.CurrentStock,
		})
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, actorID, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := parseID("product id", id)
	if err != nil {
		return ProductResponse{}, err
	}
	price, taxPercent, err := parsePricing(req.Price, req.TaxPercent)
	if err != nil {
		return ProductResponse{}, err
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err = s.productRepo.FindByID(txCtx, productID)
		if err != nil {
			return notFound(err, "product %s not found", productID)
		}

		product.SKU = strings.TrimSpace(req.SKU)
		product.Name = strings.TrimSpace(req.Name)
		product.Description = req.Description
		product.Price = price
		product.TaxPercent = taxPercent
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := s.productRepo.Update(txCtx, product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, fmt.Sprintf("sku %s already exists", product.SKU))
			}
			return fmt.Errorf("failed to update product: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(*product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, actorID, id string) error {
	productID, err := parseID("product id", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.productRepo.FindByID(txCtx, productID)
		if err != nil {
			return notFound(err, "product %s not found", productID)
		}
		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return notFound(err, "product %s not found", productID)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteProduct, product.ID.String(), product.Name, map[string]interface{}{"deleted": true})
	})
}

// AdjustStock applies a manual correction. Negative deltas cannot take stock
// below zero.
func (s *productService) AdjustStock(ctx context.Context, actorID, id string, req AdjustStockRequest) (ProductResponse, error) {
	productID, err := parseID("product id", id)
	if err != nil {
		return ProductResponse{}, err
	}
	if req.Delta == 0 {
		return ProductResponse{}, apperror.Validation("delta must not be 0")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return ProductResponse{}, apperror.Validation("reason is required")
	}

	var stockAfter int
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		stockAfter, err = s.productRepo.AdjustStock(txCtx, productID, req.Delta)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrInsufficientStock):
				return apperror.InsufficientStock("adjustment of %d would make stock of product %s negative", req.Delta, productID)
			case errors.Is(err, repository.ErrNotFound):
				return apperror.NotFound("product %s not found", productID)
			}
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		txType, qty := model.TxTypeIn, req.Delta
		if req.Delta < 0 {
			txType, qty = model.TxTypeOut, -req.Delta
		}
		if err := s.inventoryTxRepo.Create(txCtx, &model.InventoryTransaction{
			ProductID:       productID,
			TransactionType: txType,
			QuantityChanged: qty,
			StockAfter:      stockAfter,
			Reason:          reason,
		}); err != nil {
			return fmt.Errorf("failed to record inventory transaction: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionAdjustStock, productID.String(), reason, map[string]interface{}{
			"delta":       req.Delta,
			"stock_after": stockAfter,
		})
	})
	if err != nil {
		return ProductResponse{}, err
	}

	if err := s.notifier.Notify(EventStockChanged, map[string]interface{}{
		"product_id":    productID.String(),
		"current_stock": stockAfter,
	}); err != nil {
		s.logger.Warn("stock notification failed", zap.String("product_id", productID.String()), zap.Error(err))
	}

	return s.GetProduct(ctx, productID.String())
}

func (s *productService) ListStockMovements(ctx context.Context, id string, page, limit int) ([]StockMovementResponse, int64, error) {
	productID, err := parseID("product id", id)
	if err != nil {
		return nil, 0, err
	}
	page, limit = normalizePage(page, limit)

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, notFound(err, "product %s not found", productID)
	}

	movements, total, err := s.inventoryTxRepo.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	res := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, StockMovementResponse{
			ID:              m.ID.String(),
			OrderID:         optionalID(m.OrderID),
			TransactionType: m.TransactionType,
			QuantityChanged: m.QuantityChanged,
			StockAfter:      m.StockAfter,
			Reason:          m.Reason,
			CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}

func parsePricing(rawPrice, rawTax string) (decimal.Decimal, decimal.Decimal, error) {
	price, err := parseMoney("price", rawPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("price must not be negative")
	}
	taxPercent := decimal.Zero
	if rawTax != "" {
		if taxPercent, err = parsePercent("tax_percent", rawTax); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	return price, taxPercent, nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		CurrentStock: p.CurrentStock,
		Price:        money(p.Price),
		TaxPercent:   p.TaxPercent.StringFixed(2),
		IsActive:     p.IsActive,
	}
}

