package convert

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// exportName is the output file name for a source PDF. Names that slugify
// to nothing (e.g. non-Latin titles) fall back to fallback.
func exportName(source, fallback string, f Format) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	slug := slugify(base)
	if slug == "" {
		slug = fallback
	}
	return slug + "." + f.Ext()
}
