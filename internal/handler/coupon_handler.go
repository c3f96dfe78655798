package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponService service.CouponService
	auth          *middleware.Authenticator
}

func NewCouponHandler(couponService service.CouponService, auth *middleware.Authenticator) *CouponHandler {
	return &CouponHandler{couponService: couponService, auth: auth}
}

func (h *CouponHandler) RegisterRoutes(router *gin.RouterGroup) {
	offers := router.Group("/api/admin/discount-offers", adminOnly(h.auth))
	{
		offers.POST("", h.CreateOffer)
		offers.GET("", h.ListOffers)
	}

	coupons := router.Group("/api/admin/coupons", adminOnly(h.auth))
	{
		coupons.POST("", h.GenerateCoupons)
		coupons.GET("", h.ListCoupons)
	}

	// Anyone holding a code can check it; customers get the binding check too.
	router.GET("/api/coupons/:code/validate", h.ValidateCoupon)
	router.GET("/api/store/coupons/:code/validate", customerOnly(h.auth), h.ValidateMyCoupon)
}

// CreateOffer creates a discount offer
// @Summary      Create discount offer
// @Tags         coupons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOfferRequest  true  "Offer"
// @Success      201      {object}  response.Response{data=service.OfferResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/discount-offers [post]
func (h *CouponHandler) CreateOffer(c *gin.Context) {
	var req service.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	offer, err := h.couponService.CreateOffer(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, offer))
}

// ListOffers returns a paginated list of discount offers
// @Summary      List discount offers
// @Tags         coupons
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.OfferResponse}}
// @Router       /api/admin/discount-offers [get]
func (h *CouponHandler) ListOffers(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}

	offers, total, err := h.couponService.ListOffers(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, offers, total, p.Page, p.Limit))
}

// GenerateCoupons creates a batch of anonymous or customer-bound coupons
// @Summary      Generate coupons
// @Description  Pass quantity for anonymous coupons or customer_ids for one bound coupon per customer
// @Tags         coupons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GenerateCouponsRequest  true  "Batch"
// @Success      201      {object}  response.Response{data=[]service.CouponResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/coupons [post]
func (h *CouponHandler) GenerateCoupons(c *gin.Context) {
	var req service.GenerateCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	coupons, err := h.couponService.GenerateCoupons(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, coupons))
}

// ListCoupons returns a paginated list of coupons
// @Summary      List coupons
// @Tags         coupons
// @Security     BearerAuth
// @Produce      json
// @Param        offer_id  query     string  false  "Discount offer ID"
// @Param        status    query     string  false  "UNUSED or USED"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=response.Page{items=[]service.CouponResponse}}
// @Router       /api/admin/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}

	coupons, total, err := h.couponService.ListCoupons(c.Request.Context(), service.CouponFilter{
		OfferID: c.Query("offer_id"),
		Status:  c.Query("status"),
		Page:    p.Page,
		Limit:   p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, coupons, total, p.Page, p.Limit))
}

// ValidateCoupon reports whether a code is redeemable today without using it
// @Summary      Validate coupon
// @Tags         coupons
// @Produce      json
// @Param        code         path      string  true   "Coupon code"
// @Param        customer_id  query     string  false  "Customer to check the binding against"
// @Success      200          {object}  response.Response{data=service.CouponValidation}
// @Router       /api/coupons/{code}/validate [get]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	h.validate(c, c.Query("customer_id"))
}

// ValidateMyCoupon validates a code for the signed-in customer
// @Summary      Validate coupon for me
// @Tags         store
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Coupon code"
// @Success      200   {object}  response.Response{data=service.CouponValidation}
// @Router       /api/store/coupons/{code}/validate [get]
func (h *CouponHandler) ValidateMyCoupon(c *gin.Context) {
	h.validate(c, middleware.CurrentUserID(c))
}

func (h *CouponHandler) validate(c *gin.Context, customerID string) {
	result, err := h.couponService.ValidateCoupon(c.Request.Context(), c.Param("code"), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
