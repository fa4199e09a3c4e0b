// Package auth implements the stateless staff session credential used for
// shared-terminal logins. A token is a capability: possession plus validity
// is authorization, there is no server-side session record and no revocation
// list. Revocation happens only through expiry or by rotating the signing
// secret, which invalidates every outstanding token at once.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

const (
	tokenVersion = "v1"

	// DefaultTTL is the staff session lifetime when the caller does not
	// specify one.
	DefaultTTL = 8 * time.Hour
)

// StaffClaims is the signed payload of a staff session token.
type StaffClaims struct {
	StaffProfileID  string `json:"staff_profile_id"`
	OutletID        string `json:"outlet_id"`
	Role            string `json:"role"`
	ParentAccountID string `json:"parent_account_id"`
	IssuedAt        int64  `json:"iat"`
	ExpiresAt       int64  `json:"exp"`
}

// VerifyResult is the outcome of Verify. Invalid tokens never produce an
// error value; they produce Valid=false with a stable reason.
type VerifyResult struct {
	Valid  bool
	Claims StaffClaims
	Reason string
}

// TokenCodec signs and verifies staff session tokens with a server-held
// HMAC-SHA256 secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec creates a codec over the given secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: time.Now}
}

// NewTokenCodecAt creates a codec with an injectable clock, for tests.
func NewTokenCodecAt(secret string, now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: now}
}

// Issue builds and signs a token for the given identity. A non-positive ttl
// falls back to DefaultTTL.
func (c *TokenCodec) Issue(claims StaffClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := c.now().UTC()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(ttl).Unix()

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return tokenVersion + "." + encoded + "." + c.sign(encoded), nil
}

// Verify checks structure, signature and expiry. Malformed input is never a
// panic or an error, always an explicit invalid result.
func (c *TokenCodec) Verify(token string) VerifyResult {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return VerifyResult{Reason: "malformed token"}
	}
	if parts[0] != tokenVersion {
		return VerifyResult{Reason: "unsupported token version"}
	}

	expected := c.sign(parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return VerifyResult{Reason: "signature mismatch"}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return VerifyResult{Reason: "malformed payload"}
	}
	var claims StaffClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return VerifyResult{Reason: "malformed payload"}
	}

	if claims.ExpiresAt <= c.now().UTC().Unix() {
		return VerifyResult{Reason: "token expired"}
	}
	return VerifyResult{Valid: true, Claims: claims}
}

func (c *TokenCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
