package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	couponCodePrefix = "CPN-"
	maxCouponBatch   = 1000
)

// --- DTOs ---

type CreateOfferRequest struct {
	Name               string `json:"name" binding:"required"`
	DiscountPercentage string `json:"discount_percentage" binding:"required"`
	StartDate          string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate            string `json:"end_date" binding:"required"`   // YYYY-MM-DD
	AvailableOn        string `json:"available_on" binding:"required,oneof=SALES WEBSITE"`
}

type OfferResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DiscountPercentage string `json:"discount_percentage"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	AvailableOn        string `json:"available_on"`
	CreatedAt          string `json:"created_at"`
}

// GenerateCouponsRequest selects anonymous mode with Quantity or targeted
// mode with CustomerIDs (one coupon per customer).
type GenerateCouponsRequest struct {
	OfferID        string   `json:"offer_id" binding:"required"`
	Quantity       int      `json:"quantity"`
	CustomerIDs    []string `json:"customer_ids"`
	ExpirationDate string   `json:"expiration_date"` // Optional: defaults to the offer end date
}

type CouponFilter struct {
	OfferID string
	Status  string
	Page    int
	Limit   int
}

type CouponResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	Status          string  `json:"status"`
	ExpirationDate  *string `json:"expiration_date"`
	OfferID         string  `json:"offer_id"`
	BoundCustomerID *string `json:"bound_customer_id"`
	OrderID         *string `json:"order_id"`
	UsedAt          *string `json:"used_at"`
	CreatedAt       string  `json:"created_at"`
}

type CouponValidation struct {
	Valid              bool   `json:"valid"`
	Code               string `json:"code"`
	DiscountPercentage string `json:"discount_percentage"`
	Message            string `json:"message"`
}

// --- Interface ---

type CouponService interface {
	CreateOffer(ctx context.Context, actorID string, req CreateOfferRequest) (OfferResponse, error)
	ListOffers(ctx context.Context, page, limit int) ([]OfferResponse, int64, error)
	GenerateCoupons(ctx context.Context, actorID string, req GenerateCouponsRequest) ([]CouponResponse, error)
	ListCoupons(ctx context.Context, filter CouponFilter) ([]CouponResponse, int64, error)
	ValidateCoupon(ctx context.Context, code, customerID string) (CouponValidation, error)
}

type couponService struct {
	couponRepo  repository.CouponRepository
	offerRepo   repository.DiscountOfferRepository
	contactRepo repository.ContactRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	logger      *zap.Logger
	now         func() time.Time
	newCode     func() string
}

func NewCouponService(
	couponRepo repository.CouponRepository,
	offerRepo repository.DiscountOfferRepository,
	contactRepo repository.ContactRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) CouponService {
	return &couponService{
		couponRepo:  couponRepo,
		offerRepo:   offerRepo,
		contactRepo: contactRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
		newCode:     randomCouponCode,
	}
}

// --- Implementation ---

func (s *couponService) CreateOffer(ctx context.Context, actorID string, req CreateOfferRequest) (OfferResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return OfferResponse{}, apperror.Validation("name is required")
	}
	pct, err := parsePercent("discount_percentage", req.DiscountPercentage)
	if err != nil {
		return OfferResponse{}, err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return OfferResponse{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return OfferResponse{}, err
	}
	if end.Before(start) {
		return OfferResponse{}, apperror.Validation("end_date must not be before start_date")
	}
	if req.AvailableOn != model.AvailableOnSales && req.AvailableOn != model.AvailableOnWebsite {
		return OfferResponse{}, apperror.Validation("available_on must be SALES or WEBSITE")
	}

	offer := model.DiscountOffer{
		Name:               name,
		DiscountPercentage: pct,
		StartDate:          start,
		EndDate:            end,
		AvailableOn:        req.AvailableOn,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.offerRepo.Create(txCtx, &offer); err != nil {
			return fmt.Errorf("failed to create discount offer: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateOffer, offer.ID.String(), offer.Name, map[string]interface{}{
			"discount_percentage": pct.StringFixed(2),
			"available_on":        offer.AvailableOn,
		})
	})
	if err != nil {
		return OfferResponse{}, err
	}

	return toOfferResponse(offer), nil
}

func (s *couponService) ListOffers(ctx context.Context, page, limit int) ([]OfferResponse, int64, error) {
	page, limit = normalizePage(page, limit)
	offers, total, err := s.offerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch discount offers: %w", err)
	}

	result := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		result = append(result, toOfferResponse(o))
	}
	return result, total, nil
}

func (s *couponService) GenerateCoupons(ctx context.Context, actorID string, req GenerateCouponsRequest) ([]CouponResponse, error) {
	offerID, err := parseID("offer_id", req.OfferID)
	if err != nil {
		return nil, err
	}

	targeted := req.CustomerIDs != nil
	switch {
	case targeted && req.Quantity != 0:
		return nil, apperror.Validation("quantity and customer_ids are mutually exclusive")
	case targeted && len(req.CustomerIDs) == 0:
		return nil, apperror.Validation("customer_ids must not be empty")
	case !targeted && req.Quantity <= 0:
		return nil, apperror.Validation("quantity must be greater than 0")
	case req.Quantity > maxCouponBatch || len(req.CustomerIDs) > maxCouponBatch:
		return nil, apperror.Validation("at most %d coupons can be generated at once", maxCouponBatch)
	}

	var expiration *time.Time
	if req.ExpirationDate != "" {
		exp, err := parseDate("expiration_date", req.ExpirationDate)
		if err != nil {
			return nil, err
		}
		expiration = &exp
	}

	var customerIDs []uuid.UUID
	if targeted {
		seen := make(map[uuid.UUID]bool, len(req.CustomerIDs))
		for i, raw := range req.CustomerIDs {
			id, err := parseID(fmt.Sprintf("customer_ids[%d]", i), raw)
			if err != nil {
				return nil, err
			}
			if seen[id] {
				return nil, apperror.Validation("customer %s is listed more than once", id)
			}
			seen[id] = true
			customerIDs = append(customerIDs, id)
		}
	}

	var coupons []model.Coupon
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		offer, err := s.offerRepo.FindByID(txCtx, offerID)
		if err != nil {
			return notFound(err, "discount offer %s not found", offerID)
		}
		if expiration == nil {
			end := offer.EndDate
			expiration = &end
		}

		if targeted {
			if err := s.checkCustomers(txCtx, customerIDs); err != nil {
				return err
			}
			for i := range customerIDs {
				coupons = append(coupons, s.newCoupon(offer.ID, *expiration, &customerIDs[i]))
			}
		} else {
			for i := 0; i < req.Quantity; i++ {
				coupons = append(coupons, s.newCoupon(offer.ID, *expiration, nil))
			}
		}

		if err := s.couponRepo.CreateBatch(txCtx, coupons); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, "generated coupon code collided, retry the request")
			}
			return fmt.Errorf("failed to create coupons: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionGenerateCoupon, offer.ID.String(), offer.Name, map[string]interface{}{
			"count":    len(coupons),
			"targeted": targeted,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("coupons generated",
		zap.String("offer_id", offerID.String()),
		zap.Int("count", len(coupons)),
		zap.Bool("targeted", targeted),
	)

	result := make([]CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		result = append(result, toCouponResponse(c))
	}
	return result, nil
}

func (s *couponService) ListCoupons(ctx context.Context, filter CouponFilter) ([]CouponResponse, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	offerID, err := parseOptionalID("offer_id", filter.OfferID)
	if err != nil {
		return nil, 0, err
	}

	coupons, total, err := s.couponRepo.List(ctx, repository.CouponListFilter{
		OfferID: offerID,
		Status:  filter.Status,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch coupons: %w", err)
	}

	result := make([]CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		result = append(result, toCouponResponse(c))
	}
	return result, total, nil
}

// ValidateCoupon reports whether a code could be redeemed today. It never
// changes the coupon. A non-empty customerID also checks the customer binding.
func (s *couponService) ValidateCoupon(ctx context.Context, code, customerID string) (CouponValidation, error) {
	code = normalizeCouponCode(code)
	result := CouponValidation{Code: code, DiscountPercentage: "0.00"}
	if code == "" {
		result.Message = "coupon code is required"
		return result, nil
	}

	customer, err := parseOptionalID("customer_id", customerID)
	if err != nil {
		return CouponValidation{}, err
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			result.Message = "coupon not found"
			return result, nil
		}
		return CouponValidation{}, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if reason := couponRejection(coupon, customer, "", s.now()); reason != "" {
		result.Message = "coupon " + reason
		return result, nil
	}

	result.Valid = true
	result.DiscountPercentage = coupon.Offer.DiscountPercentage.StringFixed(2)
	result.Message = fmt.Sprintf("%s%% off with %s", result.DiscountPercentage, coupon.Offer.Name)
	return result, nil
}

// --- Helpers ---

func (s *couponService) checkCustomers(ctx context.Context, ids []uuid.UUID) error {
	contacts, err := s.contactRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	byID := make(map[uuid.UUID]model.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return apperror.NotFound("customer %s not found", id)
		}
		if !c.IsCustomer() {
			return apperror.Validation("contact %s is not a customer", c.Name)
		}
	}
	return nil
}

func (s *couponService) newCoupon(offerID uuid.UUID, expiration time.Time, customerID *uuid.UUID) model.Coupon {
	exp := expiration
	return model.Coupon{
		Code:            s.newCode(),
		Status:          model.CouponStatusUnused,
		ExpirationDate:  &exp,
		OfferID:         offerID,
		BoundCustomerID: customerID,
	}
}

// couponRejection returns why a coupon cannot be redeemed, or "" when it
// can. An empty channel skips the channel check and a nil customer skips the
// binding check.
func couponRejection(c *model.Coupon, customerID *uuid.UUID, channel string, now time.Time) string {
	switch {
	case c.Status == model.CouponStatusUsed:
		return "already used"
	case c.ExpiredOn(now):
		return "expired"
	case c.Offer == nil:
		return "has no discount offer"
	case !c.Offer.ActiveOn(now):
		return "offer is not active"
	case channel != "" && c.Offer.AvailableOn != channel:
		return fmt.Sprintf("offer is only available on %s", c.Offer.AvailableOn)
	case customerID != nil && c.BoundCustomerID != nil && *c.BoundCustomerID != *customerID:
		return "is bound to another customer"
	}
	return ""
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// randomCouponCode takes 48 bits of a random v4 uuid.
func randomCouponCode() string {
	id := uuid.New()
	return couponCodePrefix + strings.ToUpper(hex.EncodeToString(id[:6]))
}

// --- Mapping ---

func toOfferResponse(o model.DiscountOffer) OfferResponse {
	return OfferResponse{
		ID:                 o.ID.String(),
		Name:               o.Name,
		DiscountPercentage: o.DiscountPercentage.StringFixed(2),
		StartDate:          o.StartDate.Format(dateLayout),
		EndDate:            o.EndDate.Format(dateLayout),
		AvailableOn:        o.AvailableOn,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
	}
}

func toCouponResponse(c model.Coupon) CouponResponse {
	return CouponResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Status:          c.Status,
		ExpirationDate:  formatDate(c.ExpirationDate),
		OfferID:         c.OfferID.String(),
		BoundCustomerID: optionalID(c.BoundCustomerID),
		OrderID:         optionalID(c.OrderID),
		UsedAt:          formatTime(c.UsedAt),
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}
