package gamification

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^BARBER[A-Z0-9]{6}$`)

type stubChecker struct {
	taken map[string]bool
	all   bool
	err   error
	calls int
}

func (s *stubChecker) CodeExists(_ context.Context, code string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if s.all {
		return true, nil
	}
	return s.taken[code], nil
}

func TestGenerateReferralCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode(context.Background(), nil, 5)
		if err != nil {
			t.Fatalf("GenerateReferralCode: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match BARBER + 6 uppercase alphanumerics", code)
		}
	}
}

func TestGenerateReferralCodeChecksCollisions(t *testing.T) {
	checker := &stubChecker{}
	code, err := GenerateReferralCode(context.Background(), checker, 5)
	if err != nil {
		t.Fatalf("GenerateReferralCode: %v", err)
	}
	if checker.calls != 1 {
		t.Fatalf("expected one existence check, got %d", checker.calls)
	}
	if !codePattern.MatchString(code) {
		t.Fatalf("bad code %q", code)
	}
}

func TestGenerateReferralCodeExhaustsAttempts(t *testing.T) {
	checker := &stubChecker{all: true}
	_, err := GenerateReferralCode(context.Background(), checker, 3)
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if checker.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", checker.calls)
	}
}

func TestGenerateReferralCodeCheckerError(t *testing.T) {
	checker := &stubChecker{err: errors.New("db down")}
	if _, err := GenerateReferralCode(context.Background(), checker, 5); err == nil {
		t.Fatal("expected error when checker fails")
	}
}

func TestGenerateReferralCodeDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode(context.Background(), nil, 5)
		if err != nil {
			t.Fatalf("GenerateReferralCode: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in 100 draws", code)
		}
		seen[code] = true
	}
}
