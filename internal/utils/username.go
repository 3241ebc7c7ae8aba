package utils

import (
	"strconv"
	"strings"
)

const maxUsernameLen = 50

// DeriveUsername builds a unique, URL-safe handle from a federated
// display name. The seed (typically a unix timestamp) is appended in
// base36 so that repeated sign-ups with the same name stay distinct;
// given the same seed the result is deterministic.
func DeriveUsername(displayName string, seed int64) string {
	slug := slugify(displayName)
	if slug == "" {
		slug = "dev"
	}

	suffix := strconv.FormatInt(seed, 36)

	// Trim the slug so slug + "-" + suffix never exceeds the column size.
	maxSlug := maxUsernameLen - len(suffix) - 1
	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}

	return slug + "-" + suffix
}

// slugify lowercases the input, converts whitespace runs to single
// hyphens and drops everything outside [a-z0-9-].
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == '.':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
