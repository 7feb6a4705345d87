package taxonomy

import (
	"strings"
	"unicode"
)

// Slug lower-cases s and replaces every run of characters outside [a-z0-9]
// and the Arabic block (U+0600–U+06FF) with a single hyphen. Leading and
// trailing hyphens are dropped.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if isSlugRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 0x0600 && r <= 0x06FF:
		// Arabic punctuation inside the block still separates words.
		return !unicode.IsPunct(r)
	default:
		return false
	}
}

// Keys reserved for the blank and unsluggable buckets. A stored value that
// slugs to one of them is moved aside so it cannot share an id with the
// reserved bucket.
const (
	undefinedKey = "undefined"
	otherKey     = "other"
)

// slugKey slugs s for use as the value part of an id. An empty slug becomes
// otherKey; a slug equal to a reserved key gets a "raw-" prefix, so a stored
// "undefined" resolves to "raw-undefined", never to the blank bucket.
func slugKey(s string) string {
	slug := Slug(s)
	switch slug {
	case "":
		return otherKey
	case undefinedKey, otherKey:
		return "raw-" + slug
	}
	return slug
}

// collapse trims s, lower-cases it and folds internal whitespace runs into a
// single space. It is the lookup key for alias tables.
func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
