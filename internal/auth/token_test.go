package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thejerf/abtime"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

var t0 = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T, clock abtime.AbstractTime) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, TokenTTL, clock)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	if _, err := NewTokenCodec("", TokenTTL, nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, nil)

	tests := []Identity{
		{ID: 1, Email: "alice@example.com", Role: RoleCitizen},
		{ID: 42, Email: "admin@city.gov", Role: RoleAdmin},
		{ID: 9007199254740993, Email: "big.id@example.com", Role: RoleCitizen},
	}

	for _, want := range tests {
		t.Run(want.Email, func(t *testing.T) {
			token, err := codec.Issue(want)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if parts := strings.Split(token, "."); len(parts) != 3 {
				t.Fatalf("token should have 3 parts, got %d", len(parts))
			}

			got, err := codec.Verify(token)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if got != want {
				t.Errorf("Verify() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestTokenCodec_Expiry(t *testing.T) {
	clock := abtime.NewManualAtTime(t0)
	codec := newTestCodec(t, clock)

	token, err := codec.Issue(Identity{ID: 7, Email: "bob@example.com", Role: RoleCitizen})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.Advance(3599 * time.Second)
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("token should still be valid at t0+3599s: %v", err)
	}

	clock.Advance(2 * time.Second)
	_, err = codec.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at t0+3601s, got %v", err)
	}
}

func TestTokenCodec_TamperRejection(t *testing.T) {
	codec := newTestCodec(t, nil)
	token, err := codec.Issue(Identity{ID: 3, Email: "carol@example.com", Role: RoleCitizen})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < len(token); i++ {
		for _, mask := range []byte{0x01, 0x02, 0x20} {
			b := []byte(token)
			b[i] ^= mask
			tampered := string(b)
			if tampered == token {
				continue
			}

			got, err := codec.Verify(tampered)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("byte %d mask %#x: expected ErrInvalidToken, got %v (claims %+v)", i, mask, err, got)
			}
			if got != (Identity{}) {
				t.Fatalf("byte %d mask %#x: returned claims from tampered token: %+v", i, mask, got)
			}
		}
	}
}

func TestTokenCodec_RejectsForeignTokens(t *testing.T) {
	codec := newTestCodec(t, nil)
	now := time.Now()

	claims := Claims{
		Identity: Identity{ID: 1, Email: "mallory@example.com", Role: RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Identity: claims.Identity}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign no-exp: %v", err)
	}

	tests := map[string]string{
		"wrong secret":   otherKey,
		"alg none":       unsigned,
		"other hmac alg": hs512,
		"no expiry":      noExpiry,
		"garbage":        "not.a.token",
		"empty":          "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenCodec_RejectsUnknownRole(t *testing.T) {
	codec := newTestCodec(t, nil)
	token, err := codec.Issue(Identity{ID: 5, Email: "eve@example.com", Role: "SUPERUSER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}
