package utils // helper functions for session identifiers and slugs

import (
	"crypto/rand" // secure random generation for session identifiers
	"encoding/hex"
	"strings"
	"unicode"
)

// NewSessionID returns an opaque session identifier: 32 bytes of
// cryptographically secure random data, hex encoded (64 characters). The
// value carries no meaning on its own; all session state lives server-side
// keyed by this string.
func NewSessionID() (string, error) {
	return randomHex(32)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Slugify turns an arbitrary title into a lowercase, hyphen-separated,
// URL-safe slug. Runs of non-alphanumeric characters collapse into a single
// hyphen; leading and trailing hyphens are stripped.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
