package service

import (
	"path"
	"regexp"
	"strings"
)

var unsafeFileNameChars = regexp.MustCompile(`[^\w\-. ]+`)

// SanitizeFileName strips directory components, replaces every run of
// characters outside [A-Za-z0-9_.- ] with "_" and truncates the base name so
// the result fits in maxLen while keeping the extension.
func SanitizeFileName(input string, maxLen int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	name := path.Base(strings.ReplaceAll(input, `\`, "/"))
	if name == "/" || name == "." || name == ".." {
		return ""
	}
	name = unsafeFileNameChars.ReplaceAllString(name, "_")

	if maxLen > 0 && len(name) > maxLen {
		ext := path.Ext(name)
		if len(ext) >= maxLen {
			return name[:maxLen]
		}
		base := strings.TrimSuffix(name, ext)
		name = base[:maxLen-len(ext)] + ext
	}
	return name
}
