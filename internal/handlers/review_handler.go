package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseReviewID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := strings.TrimSpace(c.Param("reviewId"))
	reviewId, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid review ID format"))
		return primitive.NilObjectID, false
	}
	return reviewId, true
}

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		var review models.EventReview
		if err := c.ShouldBindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := rs.CreateReview(c.Request.Context(), userId, eventId, &review)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "review created successfully"))
	}
}

func ListEventReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		reviews, total, err := rs.GetReviewsByEvent(c.Request.Context(), eventId, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := offset/limit + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(reviews, page, limit, total))
	}
}

func UpdateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewId, ok := parseReviewID(c)
		if !ok {
			return
		}

		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		var req struct {
			Rating  int    `json:"rating" binding:"required,min=1,max=5"`
			Title   string `json:"title"`
			Comment string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := rs.UpdateReview(c.Request.Context(), userId, reviewId, req.Rating, req.Title, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "review updated successfully"))
	}
}

func DeleteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		reviewId, ok := parseReviewID(c)
		if !ok {
			return
		}

		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		if err := rs.DeleteReview(c.Request.Context(), userId, reviewId, eventId); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "review deleted successfully"))
	}
}
