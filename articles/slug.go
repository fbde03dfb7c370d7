package articles

import (
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_]+`)
)

// Slugify derives a URL-safe slug from an article title: lowercase, strip
// everything outside [a-z0-9\s-], collapse whitespace runs to a single
// hyphen, trim leading and trailing hyphens. Pure and deterministic; the
// slug is computed once at creation and never recomputed on update.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
