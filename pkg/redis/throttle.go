package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"github.com/redis/go-redis/v9"
)

// failures are forgotten after this long without a new one
const failureWindow = 15 * time.Minute

// LoginThrottle blocks a login for an increasing cooldown after each
// failed attempt. State is shared by every server instance.
type LoginThrottle struct {
	client *redis.Client
}

func NewLoginThrottle(c *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: c}
}

func throttleKeys(login string) (failures, lock string) {
	login = strings.ToLower(login)
	return fmt.Sprintf("login:failures:%s", login), fmt.Sprintf("login:lock:%s", login)
}

// Wait returns the remaining cooldown, zero when the login may try again
func (t *LoginThrottle) Wait(ctx context.Context, login string) (time.Duration, error) {
	_, lockKey := throttleKeys(login)
	ttl, err := t.client.PTTL(ctx, lockKey).Result()
	if err != nil {
		logger.Error("Failed to read login lock", err, map[string]interface{}{
			"login": login,
		})
		return 0, err
	}
	// -2 missing key, -1 no expiry
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Fail records a failed attempt and returns the new cooldown
func (t *LoginThrottle) Fail(ctx context.Context, login string) (time.Duration, error) {
	failuresKey, lockKey := throttleKeys(login)

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, failuresKey)
	pipe.Expire(ctx, failuresKey, failureWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to record login failure", err, map[string]interface{}{
			"login": login,
		})
		return 0, err
	}

	cooldown := util.LoginCooldown(int(incr.Val()))
	if err := t.client.Set(ctx, lockKey, "1", cooldown).Err(); err != nil {
		logger.Error("Failed to set login lock", err, map[string]interface{}{
			"login": login,
		})
		return 0, err
	}
	return cooldown, nil
}

// Reset clears failures after a successful login
func (t *LoginThrottle) Reset(ctx context.Context, login string) error {
	failuresKey, lockKey := throttleKeys(login)
	if err := t.client.Del(ctx, failuresKey, lockKey).Err(); err != nil {
		logger.Error("Failed to reset login throttle", err, map[string]interface{}{
			"login": login,
		})
		return err
	}
	return nil
}
