package logging

import (
	"strconv"
	"strings"
)

const emailHashLength = 8

// HashEmail gives a short correlation key for an address. It is case and
// whitespace insensitive and is not meant to resist reversal.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "empty"
	}

	var h int32
	for _, r := range normalized {
		h = h*31 + int32(r)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	hashed := strconv.FormatInt(abs, 36)
	if len(hashed) > emailHashLength {
		hashed = hashed[:emailHashLength]
	}
	return hashed
}
