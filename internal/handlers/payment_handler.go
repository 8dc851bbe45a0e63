package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
)

func ListMyPayments(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		payments, total, err := ps.ListPaymentsByUser(c.Request.Context(), userId, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := offset/limit + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(payments, page, limit, total))
	}
}

func GetPayment(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		payment, err := ps.GetPayment(c.Request.Context(), paymentId)
		if err != nil {
			respondError(c, err)
			return
		}

		if payment.UserID != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(payment, "payment retrieved successfully"))
	}
}

// ConfirmPayment settles a pending mobile money or bank transfer payment.
// Providers normally hit this via a callback, so it is admin-only.
func ConfirmPayment(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := currentClaims(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		reference := strings.TrimSpace(c.Param("reference"))
		if reference == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("payment reference is required"))
			return
		}

		payment, err := ps.ConfirmPayment(c.Request.Context(), reference)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(payment, "payment confirmed"))
	}
}

func FailPayment(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := currentClaims(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		reference := strings.TrimSpace(c.Param("reference"))
		if reference == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("payment reference is required"))
			return
		}

		payment, err := ps.FailPayment(c.Request.Context(), reference)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(payment, "payment marked as failed"))
	}
}
