package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pulsetix/api/internal/models"
	"github.com/pulsetix/api/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

const refreshTokenMaxAge = 3600 * 24 * 30

// setSessionCookies writes both tokens as httpOnly cookies so the browser
// never sees raw JWTs in response bodies.
func setSessionCookies(c *gin.Context, tokenRes *types.TokenResponse) {
	isProduction := os.Getenv("GIN_MODE") == "production"

	c.SetCookie(
		"access_token",
		tokenRes.AccessToken,
		tokenRes.ExpiresIn,
		"/",
		"", // let Gin pick current domain
		isProduction,
		true,
	)

	c.SetCookie(
		"refresh_token",
		tokenRes.RefreshToken,
		refreshTokenMaxAge,
		"/",
		"",
		isProduction,
		true,
	)
}

func SignUp(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		createdUser, err := u.CreateUser(&user)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(createdUser, "user created successfully"))
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		authResponse, err := u.AuthenticateUser(req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid email or password"))
			return
		}

		if tokenRes, ok := authResponse.(*types.TokenResponse); ok && tokenRes.AccessToken != "" {
			setSessionCookies(c, tokenRes)

			// Return user info but not tokens
			c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
				"user": tokenRes.User,
			}, "logged in successfully"))
			return
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid token response"))
	}
}

func RefreshSession(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("refresh token not found"))
			return
		}

		response, err := u.RefreshToken(refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("session refresh failed"))
			return
		}

		if tokenRes, ok := response.(*types.TokenResponse); ok && tokenRes.AccessToken != "" {
			setSessionCookies(c, tokenRes)
			c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
				"user": tokenRes.User,
			}, "session refreshed"))
			return
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid token response"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"

		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "logged out successfully"))
	}
}
