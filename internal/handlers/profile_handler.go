package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
)

func GetMyProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		profile, err := u.GetProfile(userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(profile, "profile retrieved successfully"))
	}
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		paramId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		if userId != paramId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := u.UpdateProfile(c.Request.Context(), update, paramId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "profile updated successfully"))
	}
}

func DeleteProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		paramId, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		claims, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		if userId != paramId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		if err := u.DeleteProfile(c.Request.Context(), paramId); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "profile deleted successfully"))
	}
}
