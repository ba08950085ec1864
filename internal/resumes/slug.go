package resumes

import (
	"fmt"
	"strings"
)

// fallbackSlugBase is used when the owner's name contains no usable
// characters at all.
const fallbackSlugBase = "resume"

// Slugify builds the base public slug from the owner's first and last
// name: lowercase, every run of characters outside [a-z0-9] collapsed to
// a single hyphen, leading and trailing hyphens stripped.
func Slugify(firstName, lastName string) string {
	raw := strings.ToLower(firstName + "-" + lastName)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return fallbackSlugBase
	}
	return b.String()
}

// slugCandidate returns the nth candidate for a base slug: the base
// itself for n == 0, then base-1, base-2, and so on.
func slugCandidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
