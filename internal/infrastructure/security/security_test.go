package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 0, 0)
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := newTestManager()

	access, refresh, err := tm.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatal("tokens must be distinct and non-empty")
	}

	sub, err := tm.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if sub != "user-123" {
		t.Errorf("access sub = %q", sub)
	}

	sub, err = tm.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if sub != "user-123" {
		t.Errorf("refresh sub = %q", sub)
	}
}

func TestTokenManagerRejectsCrossTokens(t *testing.T) {
	tm := newTestManager()

	access, refresh, err := tm.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := tm.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token passed access validation")
	}
	if _, err := tm.ValidateRefreshToken(access); err == nil {
		t.Error("access token passed refresh validation")
	}
}

func TestTokenManagerEnforcesTokenType(t *testing.T) {
	// Один секрет на оба типа: различать должен только claim "type"
	tm := NewTokenManager("same-secret", "same-secret", 0, 0)

	access, refresh, err := tm.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := tm.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access despite shared secret")
	}
	if _, err := tm.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh despite shared secret")
	}
}

func TestTokenManagerRejectsWrongSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("different", "different", 0, 0)

	access, _, err := tm.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := other.ValidateAccessToken(access); err == nil {
		t.Error("token validated with wrong secret")
	}
	if _, err := tm.ValidateAccessToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestTokenManagerRejectsMissingSubject(t *testing.T) {
	tm := newTestManager()

	// Подписано верным секретом, но без sub
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":  time.Now().Add(time.Minute).Unix(),
		"type": "access",
	})
	signed, err := raw.SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tm.ValidateAccessToken(signed); err == nil {
		t.Error("token without subject validated")
	}
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	tm := newTestManager()

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-123",
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"type": "access",
	})
	signed, err := raw.SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tm.ValidateAccessToken(signed); err == nil {
		t.Error("expired token validated")
	}
}

func TestTokenManagerConfiguredTTL(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 30*time.Minute, 48*time.Hour)

	access, _, err := tm.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	token, err := jwt.Parse(access, func(*jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	exp := int64(claims["exp"].(float64))

	want := time.Now().Add(30 * time.Minute).Unix()
	if exp < want-60 || exp > want+60 {
		t.Fatalf("access exp = %d, want about %d", exp, want)
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("hash equals plaintext")
	}

	if err := h.Compare(hash, "secret-password"); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := h.Compare(hash, "wrong-password"); err == nil {
		t.Error("Compare accepted wrong password")
	}
}

func TestPasswordHasherRejectsTooLong(t *testing.T) {
	h := NewPasswordHasher()

	if _, err := h.Hash(strings.Repeat("x", 73)); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72-byte password should hash: %v", err)
	}
}
