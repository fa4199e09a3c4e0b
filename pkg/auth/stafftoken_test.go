package auth

import (
	"strings"
	"testing"
	"time"
)

var testClaims = StaffClaims{
	StaffProfileID:  "staff-1",
	OutletID:        "outlet-1",
	Role:            "pharmacist",
	ParentAccountID: "acct-1",
}

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret")
	token, err := codec.Issue(testClaims, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !strings.HasPrefix(token, "v1.") {
		t.Errorf("token %q does not carry the version prefix", token)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	result := codec.Verify(token)
	if !result.Valid {
		t.Fatalf("Verify() invalid: %s", result.Reason)
	}
	if result.Claims.StaffProfileID != "staff-1" || result.Claims.OutletID != "outlet-1" {
		t.Errorf("claims = %+v", result.Claims)
	}
	if result.Claims.ExpiresAt <= result.Claims.IssuedAt {
		t.Errorf("exp %d not after iat %d", result.Claims.ExpiresAt, result.Claims.IssuedAt)
	}
}

func TestTokenExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodecAt("secret", func() time.Time { return current })

	token, err := codec.Issue(testClaims, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !codec.Verify(token).Valid {
		t.Fatal("token invalid immediately after issue")
	}

	current = current.Add(time.Hour + time.Second)
	result := codec.Verify(token)
	if result.Valid {
		t.Error("token still valid past expiry")
	}
	if result.Reason != "token expired" {
		t.Errorf("reason = %q", result.Reason)
	}
}

func TestTokenSignatureTamper(t *testing.T) {
	codec := NewTokenCodec("secret")
	token, err := codec.Issue(testClaims, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// Flip one signature character.
	last := token[len(token)-1]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	tampered := token[:len(token)-1] + string(flip)

	result := codec.Verify(tampered)
	if result.Valid {
		t.Error("tampered token verified")
	}
	if result.Reason != "signature mismatch" {
		t.Errorf("reason = %q", result.Reason)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a").Issue(testClaims, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if NewTokenCodec("secret-b").Verify(token).Valid {
		t.Error("token signed with another secret verified")
	}
}

func TestTokenMalformedInput(t *testing.T) {
	codec := NewTokenCodec("secret")
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not a token"},
		{name: "two segments", token: "v1.payload"},
		{name: "four segments", token: "v1.a.b.c"},
		{name: "wrong version", token: "v2.payload.sig"},
		{name: "jwt shaped", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := codec.Verify(tt.token)
			if result.Valid {
				t.Errorf("Verify(%q) = valid", tt.token)
			}
			if result.Reason == "" {
				t.Error("invalid result carries no reason")
			}
		})
	}
}

func TestTokenNonBase64Payload(t *testing.T) {
	codec := NewTokenCodec("secret")
	// Sign a payload that is not valid base64 so the signature passes but
	// decoding fails.
	token := "v1.%%%." + codec.sign("%%%")
	result := codec.Verify(token)
	if result.Valid {
		t.Error("token with undecodable payload verified")
	}
	if result.Reason != "malformed payload" {
		t.Errorf("reason = %q", result.Reason)
	}
}

func TestIssueDefaultTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	codec := NewTokenCodecAt("secret", func() time.Time { return now })

	token, err := codec.Issue(testClaims, 0)
	if err != nil {
		t.Fatal(err)
	}
	result := codec.Verify(token)
	if !result.Valid {
		t.Fatal(result.Reason)
	}
	want := now.Add(DefaultTTL).Unix()
	if result.Claims.ExpiresAt != want {
		t.Errorf("exp = %d, want %d (8h default)", result.Claims.ExpiresAt, want)
	}
}
