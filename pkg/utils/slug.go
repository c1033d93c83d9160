package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
)

// Slugify converts a display name into a URL and subdomain safe slug.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FormatDocumentNo renders a sequential document number such as INV-000042.
// The sequence value comes from the tenant's counter, so numbers are
// monotonic per tenant and survive in backups as nextIds.
func FormatDocumentNo(prefix string, n int64) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}
