package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
)

func parsePagination(c *gin.Context) (offset, limit int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "\"'")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(name+" is required"))
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name+" format"))
		return uuid.Nil, false
	}
	return parsed, true
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, organizerId, ok := currentClaims(c)
		if !ok {
			return
		}
		if !claims.IsOrganizer() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only users with organizer role can create events"))
			return
		}

		var event models.Event
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), &event, organizerId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		events, total, err := es.ListEvents(c.Request.Context(), offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}

func SearchEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		events, total, err := es.SearchEvents(
			c.Request.Context(),
			c.Query("category"),
			c.Query("location"),
			c.Query("status"),
			offset, limit,
		)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		event, err := es.GetEvent(c.Request.Context(), eventId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ListEventsByOrganizer(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		organizerId, ok := parseIDParam(c, "organizer_id")
		if !ok {
			return
		}

		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}
		if organizerId != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("unauthorized access"))
			return
		}

		events, total, err := es.ListEventsByOrganizer(c.Request.Context(), organizerId, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		_, organizerId, ok := currentClaims(c)
		if !ok {
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), organizerId, eventId, update)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		event, err := es.GetEvent(c.Request.Context(), eventId)
		if err != nil {
			respondError(c, err)
			return
		}
		if event.OrganizerID != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("forbidden: you can only delete your own events"))
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), event.OrganizerID, eventId); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "event deleted successfully"))
	}
}
