package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
	"github.com/yeqown/go-qrcode"
)

func ListMyTickets(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		tickets, total, err := ts.ListTicketsByUser(c.Request.Context(), userId, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(tickets, page, limit, total))
	}
}

func GetTicket(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		ticket, err := ts.GetTicket(c.Request.Context(), ticketId)
		if err != nil {
			respondError(c, err)
			return
		}
		if ticket.UserID != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("forbidden: not your ticket"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(ticket, ""))
	}
}

// ValidateTicket is the gate-scan endpoint; organizers and admins only.
func ValidateTicket(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		claims, validatorId, ok := currentClaims(c)
		if !ok {
			return
		}
		if !claims.IsOrganizer() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only organizers can validate tickets"))
			return
		}

		ticket, err := ts.ValidateTicket(c.Request.Context(), ticketId, validatorId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(ticket, "Ticket validated successfully"))
	}
}

func TransferTicket(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		var req struct {
			NewOwnerID string `json:"new_owner_id" binding:"required"`
			Reason     string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		newOwnerId, err := uuid.Parse(req.NewOwnerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid new owner ID format"))
			return
		}

		ticket, err := ts.TransferTicket(c.Request.Context(), ticketId, userId, newOwnerId, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(ticket, "Ticket transferred successfully"))
	}
}

func RequestTicketRefund(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		var req struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		ticket, err := ts.RequestRefund(c.Request.Context(), ticketId, userId, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(ticket, "Refund requested successfully"))
	}
}

// TicketQR renders the ticket's validation code as a PNG for gate scanning.
func TicketQR(ts *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		content, err := ts.TicketQRContent(c.Request.Context(), ticketId, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		qrc, err := qrcode.New(content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to generate QR code"))
			return
		}

		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := qrc.SaveTo(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to write QR code"))
			return
		}
	}
}
