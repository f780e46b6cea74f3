package gamification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	referralPrefix    = "BARBER"
	referralSuffixLen = 6
	referralCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrCodeExhausted means every generation attempt collided with an existing
// code. With a 36^6 space this indicates a broken store, not bad luck.
var ErrCodeExhausted = errors.New("gamification: referral code space exhausted")

// CodeChecker reports whether a referral code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// GenerateReferralCode produces a fresh BARBER-prefixed code, retrying on
// collision up to maxAttempts times.
func GenerateReferralCode(ctx context.Context, checker CodeChecker, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	for i := 0; i < maxAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if checker == nil {
			return code, nil
		}
		exists, err := checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("gamification: check referral code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func randomCode() (string, error) {
	buf := make([]byte, referralSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("gamification: read random: %w", err)
	}
	suffix := make([]byte, referralSuffixLen)
	for i, b := range buf {
		suffix[i] = referralCharset[int(b)%len(referralCharset)]
	}
	return referralPrefix + string(suffix), nil
}
