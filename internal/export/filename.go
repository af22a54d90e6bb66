package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BOM is the UTF-8 byte order mark, written ahead of CSV output for Excel on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a source name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "scan"
	}
	return s
}

// BuildFilename returns {sanitized_source}_{YYYY-MM-DD}.{ext}.
func BuildFilename(sourceName, ext string, at time.Time) string {
	base := strings.TrimSuffix(sourceName, ".pdf")
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), at.Format("2006-01-02"), ext)
}
