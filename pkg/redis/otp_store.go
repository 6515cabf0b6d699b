package redis

import (
	"context"
	"time"
)

// OTP purposes recognised by the store.
const (
	PurposeRegister = "register"
	PurposeLogin    = "login"
)

// OTPStore keeps one-time codes and pending registration payloads in Redis.
// Exactly one live code exists per (purpose, email) pair; setting a new one
// overwrites the old. Expiry is handled entirely by key TTLs.
type OTPStore struct {
	codeTTL    time.Duration
	payloadTTL time.Duration
}

// NewOTPStore creates an OTP store with the given TTL policies.
func NewOTPStore(codeTTL, payloadTTL time.Duration) *OTPStore {
	return &OTPStore{codeTTL: codeTTL, payloadTTL: payloadTTL}
}

func codeKey(purpose, email string) string {
	return "otp:" + purpose + ":" + email
}

func payloadKey(email string) string {
	return "register:payload:" + email
}

func verifiedKey(purpose, email string) string {
	return "otp_verified:" + purpose + ":" + email
}

// SetCode stores a code for (purpose, email), replacing any live code.
func (s *OTPStore) SetCode(ctx context.Context, purpose, email, code string) error {
	return Set(ctx, codeKey(purpose, email), code, s.codeTTL)
}

// GetCode returns the live code for (purpose, email). The second return is
// false when no code exists or it has expired.
func (s *OTPStore) GetCode(ctx context.Context, purpose, email string) (string, bool, error) {
	code, err := Get(ctx, codeKey(purpose, email))
	if err != nil {
		if IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return code, true, nil
}

// DeleteCode removes the code for (purpose, email).
func (s *OTPStore) DeleteCode(ctx context.Context, purpose, email string) error {
	return Del(ctx, codeKey(purpose, email))
}

// SetPendingRegistration stashes a validated registration payload.
func (s *OTPStore) SetPendingRegistration(ctx context.Context, email string, payload []byte) error {
	return Set(ctx, payloadKey(email), payload, s.payloadTTL)
}

// GetPendingRegistration returns the stashed payload, false when absent or expired.
func (s *OTPStore) GetPendingRegistration(ctx context.Context, email string) ([]byte, bool, error) {
	raw, err := Get(ctx, payloadKey(email))
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(raw), true, nil
}

// HasPendingRegistration reports whether a payload is stashed for email.
func (s *OTPStore) HasPendingRegistration(ctx context.Context, email string) (bool, error) {
	_, ok, err := s.GetPendingRegistration(ctx, email)
	return ok, err
}

// DeletePendingRegistration removes the stashed payload.
func (s *OTPStore) DeletePendingRegistration(ctx context.Context, email string) error {
	return Del(ctx, payloadKey(email))
}

// MarkVerified records a short-lived verification flag for non-register purposes.
func (s *OTPStore) MarkVerified(ctx context.Context, purpose, email string) error {
	return Set(ctx, verifiedKey(purpose, email), "1", s.payloadTTL)
}

// RollbackRegistration deletes the register code and pending payload together.
// Called when email delivery fails so no dangling state survives the send.
func (s *OTPStore) RollbackRegistration(ctx context.Context, email string) error {
	return Del(ctx, codeKey(PurposeRegister, email), payloadKey(email))
}
