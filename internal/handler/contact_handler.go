package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService     service.ContactService
	paymentTermService service.PaymentTermService
	auth               *middleware.Authenticator
}

func NewContactHandler(contactService service.ContactService, paymentTermService service.PaymentTermService, auth *middleware.Authenticator) *ContactHandler {
	return &ContactHandler{contactService: contactService, paymentTermService: paymentTermService, auth: auth}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	contacts := router.Group("/api/admin/contacts", adminOnly(h.auth))
	{
		contacts.GET("", h.ListContacts)
		contacts.POST("", h.CreateContact)
		contacts.GET("/:id", h.GetContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)
	}

	terms := router.Group("/api/admin/payment-terms", adminOnly(h.auth))
	{
		terms.GET("", h.ListPaymentTerms)
		terms.POST("", h.CreatePaymentTerm)
	}
}

// ListContacts returns paginated contacts with optional type/search filter
// @Summary      List contacts
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        type    query     string  false  "Filter by type: CUSTOMER, VENDOR, BOTH"
// @Param        search  query     string  false  "Search by name, company, phone, email"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.ContactResponse}}
// @Router       /api/admin/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}

	contacts, total, err := h.contactService.GetContacts(c.Request.Context(), c.Query("type"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, contacts, total, p.Page, p.Limit))
}

// GetContact returns one contact
// @Summary      Get contact
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/admin/contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// CreateContact creates a new customer or vendor
// @Summary      Create contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateContactRequest  true  "Contact payload"
// @Success      201  {object}  response.Response{data=service.ContactResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contact))
}

// UpdateContact applies the fields present in the payload
// @Summary      Update contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Contact ID"
// @Param        payload  body  service.UpdateContactRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// DeleteContact deletes a contact
// @Summary      Delete contact
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Contact ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/admin/contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactService.DeleteContact(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Contact deleted successfully"}))
}

// ListPaymentTerms returns every payment term
// @Summary      List payment terms
// @Tags         payment-terms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.PaymentTermResponse}
// @Router       /api/admin/payment-terms [get]
func (h *ContactHandler) ListPaymentTerms(c *gin.Context) {
	terms, err := h.paymentTermService.ListPaymentTerms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, terms))
}

// CreatePaymentTerm creates a payment term
// @Summary      Create payment term
// @Tags         payment-terms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePaymentTermRequest  true  "Payment term"
// @Success      201      {object}  response.Response{data=service.PaymentTermResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/admin/payment-terms [post]
func (h *ContactHandler) CreatePaymentTerm(c *gin.Context) {
	var req service.CreatePaymentTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	term, err := h.paymentTermService.CreatePaymentTerm(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, term))
}
