package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrMissingCredentials = errors.New("login and password are required")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrNotSupervisor      = errors.New("user is not allowed to authorize")
)

// ThrottledError reports how long the caller has to wait
type ThrottledError struct {
	Wait time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many failed login attempts, retry in %s", e.Wait.Round(time.Second))
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrTooManyAttempts
}

type LoginResult struct {
	User    *model.User
	Tokens  *util.TokenPair
	Landing string
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, tokens ...string) error
	Me(userID uint) (*model.User, error)
	// Authorize checks credentials without issuing tokens. When roles are
	// given the user must hold one of them.
	Authorize(ctx context.Context, login, password string, roles ...model.UserRole) (*model.User, error)
	ValidateAccessToken(ctx context.Context, token string) (*util.Claims, error)
}

type authService struct {
	userRepo      repository.UserRepository
	activity      ActivityService
	throttle      LoginThrottle
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	activity ActivityService,
	throttle LoginThrottle,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		activity:      activity,
		throttle:      throttle,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.checkCredentials(ctx, login, password)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(user.ID, user.StoreID, model.ActivityLogin, fmt.Sprintf("login %s", user.Login))

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"login":   user.Login,
		"role":    user.Role,
	})

	return &LoginResult{
		User:    user,
		Tokens:  tokens,
		Landing: user.Role.Landing(),
	}, nil
}

func (s *authService) Authorize(ctx context.Context, login, password string, roles ...model.UserRole) (*model.User, error) {
	user, err := s.checkCredentials(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return user, nil
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}

	logger.Warn("Authorization refused: role not allowed", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return nil, ErrNotSupervisor
}

// checkCredentials applies the throttle
func (s *authService) checkCredentials(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	wait, err := s.throttle.Wait(ctx, login)
	if err != nil {
		// a broken throttle backend must not lock everybody out
		logger.Warn("Login throttle unavailable", map[string]interface{}{
			"login": login,
			"error": err.Error(),
		})
	} else if wait > 0 {
		logger.Warn("Login throttled", map[string]interface{}{
			"login": login,
			"wait":  wait.String(),
		})
		return nil, &ThrottledError{Wait: wait}
	}

	user, err := s.userRepo.FindByLogin(login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user == nil || !util.VerifyPassword(user.PasswordHash, password) {
		cooldown, ferr := s.throttle.Fail(ctx, login)
		logger.Warn("Login failed: invalid credentials", map[string]interface{}{
			"login":    login,
			"cooldown": cooldown.String(),
		})
		if ferr != nil {
			logger.Warn("Failed to record login failure", map[string]interface{}{
				"login": login,
				"error": ferr.Error(),
			})
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, login); err != nil {
		logger.Warn("Failed to reset login throttle", map[string]interface{}{
			"login": login,
			"error": err.Error(),
		})
	}
	s.upgradeHash(user, password)
	return user, nil
}

// upgradeHash re-hashes a verified password stored under an outdated bcrypt cost
func (s *authService) upgradeHash(user *model.User, password string) {
	if !util.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Warn("Failed to rehash password", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
		return
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		logger.Warn("Failed to store rehashed password", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
	}
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	subject := util.TokenSubject{
		UserID: user.ID,
		Login:  user.Login,
		Role:   string(user.Role),
	}
	if user.StoreID != nil {
		subject.StoreID = *user.StoreID
	}

	tokens, err := util.GenerateTokenPair(subject, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) parse(ctx context.Context, token, tokenType string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authService) ValidateAccessToken(ctx context.Context, token string) (*util.Claims, error) {
	return s.parse(ctx, token, util.TokenTypeAccess)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.parse(ctx, refreshToken, util.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// a refresh token is single use
	claimed, err := s.revoker.Claim(ctx, claims.ID, tokenTTL(claims))
	if err != nil {
		return nil, err
	}
	if !claimed {
		logger.Warn("Refresh token already used", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, ErrTokenRevoked
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// Logout revokes every valid token given; unparsable tokens are ignored
func (s *authService) Logout(ctx context.Context, tokens ...string) error {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := util.ValidateToken(token, s.jwtSecret)
		if err != nil {
			continue
		}
		if err := s.revoke(ctx, claims); err != nil {
			return err
		}
		logger.Info("Token revoked", map[string]interface{}{
			"user_id":    claims.UserID,
			"token_type": claims.TokenType,
		})
	}
	return nil
}

func (s *authService) revoke(ctx context.Context, claims *util.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, tokenTTL(claims))
}

// tokenTTL is how long a token still has before it expires on its own
func tokenTTL(claims *util.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

func (s *authService) Me(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
