package utils

import (
	"regexp"
	"strings"
)

var linkedinPrefix = regexp.MustCompile(`(?i)^(https?://)?(www\.)?linkedin\.com/in/`)

// NormalizeLinkedInURL accepts a profile URL or a bare handle and returns the
// canonical https://www.linkedin.com/in/<handle>/ form. Empty input stays empty.
func NormalizeLinkedInURL(input string) string {
	handle := strings.TrimSpace(input)
	handle = linkedinPrefix.ReplaceAllString(handle, "")
	handle = strings.TrimSuffix(handle, "/")
	if handle == "" {
		return ""
	}
	return "https://www.linkedin.com/in/" + handle + "/"
}
