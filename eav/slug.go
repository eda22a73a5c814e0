package eav

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_]`)
	slugUnderscores  = regexp.MustCompile(`[_]{2,}`)
	slugPattern      = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Slugify derives a slug from an attribute name. The result is deterministic
// so two saves of the same name assign the same slug.
func Slugify(name string) string {
	slug := unidecode.Unidecode(name)
	slug = strings.ToLower(slug)
	slug = slugInvalidChars.ReplaceAllString(slug, "_")
	slug = slugUnderscores.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")

	return slug
}

// IsValidSlug reports whether slug can identify an attribute.
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
