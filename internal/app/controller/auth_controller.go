package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles staff login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": result.User.ID,
		"role":    result.User.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login realizado com sucesso",
		"user":    result.User,
		"tokens":  result.Tokens,
		"landing": result.Landing,
	})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Logout revokes the current access token and, when sent, the refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAccessToken(c), req.RefreshToken); err != nil {
		respondServiceError(c, err, "logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout realizado com sucesso",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.Me(userID)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"landing": user.Role.Landing(),
	})
}

// Authorize re-checks a supervisor's credentials for a sensitive action
// POST /api/v1/auth/authorize
func (ctrl *AuthController) Authorize(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	user, err := ctrl.authService.Authorize(c.Request.Context(), req.Login, req.Password,
		model.RoleAdmin, model.RoleOwner, model.RoleManager)
	if err != nil {
		respondServiceError(c, err, "authorize")
		return
	}

	requester, _ := middleware.GetUserID(c)
	log.Info("Supervisor authorization granted", map[string]interface{}{
		"supervisor_id": user.ID,
		"requested_by":  requester,
	})

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"user":       user,
	})
}
