package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
)

// PurchaseTickets handles POST /events/:id/purchase. The buyer comes from
// the verified token, never from the body.
func PurchaseTickets(ps *services.PurchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		_, buyerId, ok := currentClaims(c)
		if !ok {
			return
		}

		var req services.PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := ps.Purchase(c.Request.Context(), eventId, buyerId, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(result, "Purchase completed successfully"))
	}
}
