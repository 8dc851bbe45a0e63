package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/pulsetix/api/internal/models"
)

// statusFor maps the error taxonomy onto HTTP statuses at the handler
// boundary. Conflicts have already exhausted their internal retries by the
// time they get here.
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindState:
		return http.StatusUnprocessableEntity
	case models.KindCapacity:
		return http.StatusConflict
	case models.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), models.KindErrorResponse(err))
}

// currentClaims pulls the enhanced claims placed by the auth middleware and
// parses the subject into a UUID.
func currentClaims(c *gin.Context) (*helpers.EnhancedClaims, uuid.UUID, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, uuid.Nil, false
	}

	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, uuid.Nil, false
	}

	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return nil, uuid.Nil, false
	}

	return claims, userId, true
}
