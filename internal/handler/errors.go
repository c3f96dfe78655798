package handler

import (
	"net/http"

	"storefront/internal/apperror"
	"storefront/internal/middleware"
	"storefront/pkg/pagination"
	"storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:        http.StatusBadRequest,
	apperror.KindNotFound:          http.StatusNotFound,
	apperror.KindInvalidState:      http.StatusConflict,
	apperror.KindConflict:          http.StatusConflict,
	apperror.KindInsufficientStock: http.StatusUnprocessableEntity,
	apperror.KindCouponInvalid:     http.StatusUnprocessableEntity,
}

// respondError renders a service error. Unclassified errors become a generic
// 500 and are attached to the gin context for the request logger.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.ErrorWithCode(http.StatusInternalServerError, string(apperror.KindInternal), "Internal server error"))
		return
	}
	c.JSON(status, response.ErrorWithCode(status, string(kind), apperror.Message(err)))
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, string(apperror.KindValidation), "Invalid request payload: "+err.Error()))
}

// pageParams parses pagination or writes a 400 and returns false.
func pageParams(c *gin.Context) (pagination.Params, bool) {
	p, err := pagination.Parse(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, string(apperror.KindValidation), err.Error()))
		return pagination.Params{}, false
	}
	return p, true
}

func adminOnly(auth *middleware.Authenticator) gin.HandlerFunc {
	return auth.RequireRole(middleware.RoleAdmin)
}

func customerOnly(auth *middleware.Authenticator) gin.HandlerFunc {
	return auth.RequireRole(middleware.RoleCustomer)
}
