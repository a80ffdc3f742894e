package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OTPLength = 6
	OTPExpiry = 10 * time.Minute
)

var (
	ErrOTPNotFound = errors.New("no code requested or code expired")
	ErrOTPMismatch = errors.New("incorrect code")
)

// OTPService issues and verifies single-use email sign-in codes backed by
// Redis with a TTL. Codes are deleted on successful verification.
type OTPService struct {
	client *redis.Client
}

func NewOTPService(client *redis.Client) *OTPService {
	return &OTPService{client: client}
}

// Issue generates a fresh 6-digit code for the email, replacing any
// outstanding one, and returns it for delivery.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := otpKey(email)
	if err := s.client.Set(ctx, key, code, OTPExpiry).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}
	return code, nil
}

// Verify checks the submitted code and consumes it on success.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	key := otpKey(email)

	stored, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrOTPMismatch
	}

	// Single use.
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to consume OTP: %w", err)
	}
	return nil
}

func otpKey(email string) string {
	return "toolshub:otp:" + strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
