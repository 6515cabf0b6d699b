package redis

import (
	"context"
	"time"
)

func blacklistKey(jti string) string {
	return "token:blacklist:" + jti
}

// BlacklistToken marks a refresh token id as revoked until its natural expiry.
func BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return Set(ctx, blacklistKey(jti), "1", ttl)
}

// IsTokenBlacklisted reports whether a refresh token id has been revoked.
func IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, err := Get(ctx, blacklistKey(jti))
	if err != nil {
		if IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
