package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
)

func AddToFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemId := helpers.StringTrim(c.Param("id"))

		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		var reqBody struct {
			ItemType string `json:"item_type" binding:"required"`
		}
		if err := c.ShouldBindJSON(&reqBody); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		res, err := f.AddToFavourites(c.Request.Context(), userId, itemId, reqBody.ItemType)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(res, "item added to favourites"))
	}
}

func RemoveFromFavourite(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemId := helpers.StringTrim(c.Param("id"))

		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		if err := f.RemoveFromFavourites(c.Request.Context(), userId, itemId); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "item removed from favourites"))
	}
}

func GetUserFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentClaims(c)
		if !ok {
			return
		}

		res, err := f.GetFavouritesByUserID(c.Request.Context(), userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(res, "favourites retrieved successfully"))
	}
}
