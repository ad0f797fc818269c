package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/evoapps/confeitaria-backend/pkg/util"
)

// LoginThrottle slows down repeated failed logins for the same account
type LoginThrottle interface {
	Wait(ctx context.Context, login string) (time.Duration, error)
	Fail(ctx context.Context, login string) (time.Duration, error)
	Reset(ctx context.Context, login string) error
}

// TokenRevoker tracks tokens invalidated by logout or spent by a refresh
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Claim revokes tokenID and reports whether this call was the one that did it
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// failures are forgotten after this long without a new one
const loginFailureWindow = 15 * time.Minute

type loginState struct {
	failures int
	until    time.Time
}

// MemoryLoginThrottle keeps throttle state in process, for single
// instance deployments without Redis
type MemoryLoginThrottle struct {
	mu     sync.Mutex
	now    func() time.Time
	states map[string]*loginState
}

func NewMemoryLoginThrottle() *MemoryLoginThrottle {
	return &MemoryLoginThrottle{now: time.Now, states: make(map[string]*loginState)}
}

func (t *MemoryLoginThrottle) Wait(_ context.Context, login string) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[strings.ToLower(login)]
	if !ok {
		return 0, nil
	}
	if wait := st.until.Sub(t.now()); wait > 0 {
		return wait, nil
	}
	return 0, nil
}

func (t *MemoryLoginThrottle) Fail(_ context.Context, login string) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, old := range t.states {
		if now.Sub(old.until) > loginFailureWindow {
			delete(t.states, k)
		}
	}

	key := strings.ToLower(login)
	st, ok := t.states[key]
	if !ok {
		st = &loginState{}
		t.states[key] = st
	}
	st.failures++
	cooldown := util.LoginCooldown(st.failures)
	st.until = now.Add(cooldown)
	return cooldown, nil
}

func (t *MemoryLoginThrottle) Reset(_ context.Context, login string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, strings.ToLower(login))
	return nil
}

// MemoryTokenRevoker keeps revoked token ids in process
type MemoryTokenRevoker struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

func NewMemoryTokenRevoker() *MemoryTokenRevoker {
	return &MemoryTokenRevoker{now: time.Now, revoked: make(map[string]time.Time)}
}

func (r *MemoryTokenRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.prune()
	if ttl > 0 {
		r.revoked[tokenID] = now.Add(ttl)
	}
	return nil
}

func (r *MemoryTokenRevoker) Claim(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.prune()
	if _, taken := r.revoked[tokenID]; taken {
		return false, nil
	}
	if ttl > 0 {
		r.revoked[tokenID] = now.Add(ttl)
	}
	return true, nil
}

// prune drops expired ids and returns the current time. Callers hold mu.
func (r *MemoryTokenRevoker) prune() time.Time {
	now := r.now()
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	return now
}

func (r *MemoryTokenRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}
