package security

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateCSRFToken returns a random URL-safe CSRF token of n bytes of
// entropy.
func GenerateCSRFToken(n int) string {
	if n <= 0 {
		n = 32
	}
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
