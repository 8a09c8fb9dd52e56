package id

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Valid accepts a canonical hyphenated UUID or 32 hex chars, case and
// surrounding space ignored.
func Valid(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if reHex32.MatchString(s) {
		return true
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
