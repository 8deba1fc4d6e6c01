package token

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
)

// Claims is the unsigned payload decoded from a credential.
// It is derived on demand, never mutated and never persisted.
type Claims map[string]any

// Decode parses a bearer credential into its claims.
//
// The credential is expected to be dot-separated with a base64url-encoded
// JSON object as its second segment. Decode returns nil (and never panics)
// for credentials with fewer than two segments, undecodable payloads or
// payloads that are not JSON objects. No signature verification happens
// here; the accept/reject decision is made elsewhere.
func Decode(credential string) Claims {
	segments := strings.Split(credential, ".")
	if len(segments) < 2 {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(pad(segments[1]))
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil
	}
	return claims
}

// pad converts a base64url segment to standard base64 with padding.
func pad(segment string) string {
	segment = strings.ReplaceAll(segment, "-", "+")
	segment = strings.ReplaceAll(segment, "_", "/")
	if rem := len(segment) % 4; rem != 0 {
		segment += strings.Repeat("=", 4-rem)
	}
	return segment
}

// Identity returns the normalized identity key of the claims, taken from
// the "id" claim with "sub" as fallback. An empty string means the claims
// carry no usable identity.
func (c Claims) Identity() string {
	if id := NormalizeID(c["id"]); id != "" {
		return id
	}
	return NormalizeID(c["sub"])
}

// ExpiresAt returns the "exp" claim in seconds since epoch, if present.
func (c Claims) ExpiresAt() (int64, bool) {
	return c.numericClaim("exp")
}

// IssuedAt returns the "iat" claim in seconds since epoch, if present.
func (c Claims) IssuedAt() (int64, bool) {
	return c.numericClaim("iat")
}

// LogicalTime orders credentials issued to the same identity: the "exp"
// claim if present, otherwise "iat", otherwise zero.
func (c Claims) LogicalTime() int64 {
	if exp, ok := c.ExpiresAt(); ok {
		return exp
	}
	if iat, ok := c.IssuedAt(); ok {
		return iat
	}
	return 0
}

func (c Claims) numericClaim(name string) (int64, bool) {
	switch v := c[name].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// NormalizeID renders an identity claim value as a comparable string.
// JSON numbers are rendered without a fractional part so that 123 and
// "123" compare equal across the claims and the upstream response.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
