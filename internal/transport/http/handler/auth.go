package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agriguard/internal/app"
	"agriguard/internal/model"
	"agriguard/internal/transport/http/middleware"
	"agriguard/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=128"`
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
	FullName     string `json:"full_name" binding:"max=128"`
	FarmLocation string `json:"farm_location" binding:"max=128"`
}

type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account from a JSON profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "Invalid registration payload")
		return
	}

	user, err := h.authService.Register(app.RegisterInput{
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		FullName:     req.FullName,
		FarmLocation: req.FarmLocation,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUsernameRegistered), errors.Is(err, app.ErrEmailRegistered):
			response.Detail(c, http.StatusBadRequest, err.Error())
		default:
			response.Detail(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	response.OK(c, accountOut(user))
}

// Token exchanges form-encoded credentials for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "Invalid credentials payload")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Detail(c, http.StatusUnauthorized, err.Error())
			return
		}
		response.Detail(c, http.StatusInternalServerError, "Login failed")
		return
	}

	response.OK(c, gin.H{
		"access_token": result.Token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "Fetch current user failed")
		return
	}
	if user == nil {
		response.Detail(c, http.StatusUnauthorized, "User not found")
		return
	}

	response.OK(c, accountOut(user))
}

func accountOut(user *model.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"full_name":     user.FullName,
		"farm_location": user.FarmLocation,
		"created_at":    user.CreatedAt,
	}
}
