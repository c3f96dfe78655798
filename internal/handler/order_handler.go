package handler

import (
	"net/http"

	"storefront/internal/apperror"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// StoreOrderRequest is what a signed-in customer submits at checkout. The
// party, type and channel come from the session; prices from the catalog.
type StoreOrderRequest struct {
	Note  string                     `json:"note"`
	Lines []service.OrderLineRequest `json:"lines" binding:"required,dive"`
}

type OrderHandler struct {
	orderService service.OrderService
	auth         *middleware.Authenticator
}

func NewOrderHandler(orderService service.OrderService, auth *middleware.Authenticator) *OrderHandler {
	return &OrderHandler{orderService: orderService, auth: auth}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/admin/orders", adminOnly(h.auth))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/lines", h.UpdateOrderLines)
		orders.POST("/:id/confirm", h.ConfirmOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/coupon", h.ApplyCoupon)
	}

	store := router.Group("/api/store/orders", customerOnly(h.auth))
	{
		store.POST("", h.PlaceOrder)
		store.GET("", h.MyOrders)
		store.GET("/:id", h.MyOrder)
		store.POST("/:id/coupon", h.ApplyMyCoupon)
		store.POST("/:id/confirm", h.ConfirmMyOrder)
	}
}

// CreateOrder creates a draft sale or purchase order
// @Summary      Create order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/admin/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders returns a paginated list of orders
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        type      query     string  false  "SALE or PURCHASE"
// @Param        status    query     string  false  "DRAFT, CONFIRMED, PAID or CANCELLED"
// @Param        party_id  query     string  false  "Customer or vendor ID"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=response.Page{items=[]service.OrderResponse}}
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	h.list(c, service.OrderFilter{
		Type:    c.Query("type"),
		Status:  c.Query("status"),
		PartyID: c.Query("party_id"),
		Page:    p.Page,
		Limit:   p.Limit,
	})
}

// GetOrder returns one order with its lines
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateOrderLines replaces the lines of a draft order
// @Summary      Replace order lines
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Order ID"
// @Param        payload  body      service.UpdateOrderLinesRequest  true  "New lines"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/admin/orders/{id}/lines [put]
func (h *OrderHandler) UpdateOrderLines(c *gin.Context) {
	var req service.UpdateOrderLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderLines(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ConfirmOrder confirms a draft order and moves stock
// @Summary      Confirm order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/admin/orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	order, err := h.orderService.ConfirmOrder(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CancelOrder cancels a draft order
// @Summary      Cancel order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/admin/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ApplyCoupon redeems a coupon on a draft sale order
// @Summary      Apply coupon
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.ApplyCouponRequest  true  "Coupon code"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/admin/orders/{id}/coupon [post]
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	var req service.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.ApplyCoupon(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// PlaceOrder creates a website sale order for the signed-in customer
// @Summary      Place order
// @Tags         store
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      StoreOrderRequest  true  "Order lines"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/store/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req StoreOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lines := make([]service.OrderLineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = service.OrderLineRequest{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	customerID := middleware.CurrentUserID(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), customerID, service.CreateOrderRequest{
		Type:    model.OrderTypeSale,
		PartyID: customerID,
		Channel: model.ChannelWebsite,
		Note:    req.Note,
		Lines:   lines,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// MyOrders lists the signed-in customer's orders
// @Summary      List my orders
// @Tags         store
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "DRAFT, CONFIRMED, PAID or CANCELLED"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.OrderResponse}}
// @Router       /api/store/orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	h.list(c, service.OrderFilter{
		Type:    model.OrderTypeSale,
		Status:  c.Query("status"),
		PartyID: middleware.CurrentUserID(c),
		Page:    p.Page,
		Limit:   p.Limit,
	})
}

// MyOrder returns one of the signed-in customer's orders
// @Summary      Get my order
// @Tags         store
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/store/orders/{id} [get]
func (h *OrderHandler) MyOrder(c *gin.Context) {
	order, ok := h.ownOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ApplyMyCoupon redeems a coupon on the customer's draft order
// @Summary      Apply coupon to my order
// @Tags         store
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.ApplyCouponRequest  true  "Coupon code"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/store/orders/{id}/coupon [post]
func (h *OrderHandler) ApplyMyCoupon(c *gin.Context) {
	var req service.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, ok := h.ownOrder(c); !ok {
		return
	}

	order, err := h.orderService.ApplyCoupon(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ConfirmMyOrder checks out the customer's draft order
// @Summary      Confirm my order
// @Tags         store
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/store/orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmMyOrder(c *gin.Context) {
	if _, ok := h.ownOrder(c); !ok {
		return
	}

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

func (h *OrderHandler) list(c *gin.Context, filter service.OrderFilter) {
	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, filter.Page, filter.Limit))
}

// ownOrder loads the order in the path and hides it unless it belongs to the
// signed-in customer.
func (h *OrderHandler) ownOrder(c *gin.Context) (service.OrderResponse, bool) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err == nil && order.PartyID != middleware.CurrentUserID(c) {
		err = apperror.NotFound("order %s not found", c.Param("id"))
	}
	if err != nil {
		respondError(c, err)
		return service.OrderResponse{}, false
	}
	return order, true
}
