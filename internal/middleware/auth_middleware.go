package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UserLoginKey   = "user_login"
	UserRoleKey    = "user_role"
	UserStoreIDKey = "user_store_id"
	StoreIDKey     = "store_id"
	AccessTokenKey = "access_token"
)

// TokenValidator checks an access token and returns its claims
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*util.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate validates the access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Formato de autenticação inválido")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// websocket clients cannot set headers
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "Faça login para continuar")
				c.Abort()
				return
			}
			log.Debug("Using token from query parameter", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}

		claims, err := m.tokens.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case stderrors.Is(err, service.ErrTokenExpired):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Sessão expirada, faça login novamente")
			case stderrors.Is(err, service.ErrTokenRevoked):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Sessão encerrada, faça login novamente")
			default:
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Token de acesso inválido")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserLoginKey, claims.Login)
		c.Set(UserRoleKey, model.UserRole(claims.Role))
		c.Set(UserStoreIDKey, claims.StoreID)
		c.Set(AccessTokenKey, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":  claims.UserID,
			"login":    claims.Login,
			"role":     claims.Role,
			"store_id": claims.StoreID,
		})

		c.Next()
	}
}

// RequireRole checks if user has one of the given roles
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Perfil de acesso não encontrado")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "Você não tem permissão para esta ação")
		c.Abort()
	}
}

// RequireStore resolves which store the request works on. Staff are bound to
// their own store; admins may pick any store with ?store_id=.
func (m *AuthMiddleware) RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		resolved := GetUserStoreID(c)

		role, _ := GetUserRole(c)
		if role == model.RoleAdmin {
			if raw := c.Query("store_id"); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 32)
				if err != nil || id == 0 {
					errors.BadRequest(c, errors.ValidationInvalidID, "Loja inválida")
					c.Abort()
					return
				}
				resolved = uint(id)
			}
		}

		if resolved == 0 {
			log.Warn("Request without store", map[string]interface{}{
				"path": c.Request.URL.Path,
				"role": role,
			})
			errors.BadRequest(c, errors.AuthzStoreRequired, "Selecione uma loja")
			c.Abort()
			return
		}

		c.Set(StoreIDKey, resolved)
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}

// GetStoreID returns the store resolved by RequireStore
func GetStoreID(c *gin.Context) (uint, bool) {
	storeID, exists := c.Get(StoreIDKey)
	if !exists {
		return 0, false
	}
	return storeID.(uint), true
}

// GetAccessToken returns the raw bearer token of the request
func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

// GetUserStoreID returns the store the token was issued for, 0 for none
func GetUserStoreID(c *gin.Context) uint {
	storeID, _ := c.Get(UserStoreIDKey)
	id, _ := storeID.(uint)
	return id
}
