package util

import "time"

// MaxLoginCooldown caps the wait between failed login attempts
const MaxLoginCooldown = 30 * time.Second

// LoginCooldown returns how long a login stays blocked after the given
// number of consecutive failures: 2^failures seconds, capped at 30s.
func LoginCooldown(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	if failures >= 5 {
		return MaxLoginCooldown
	}
	return (time.Duration(1) << failures) * time.Second
}
