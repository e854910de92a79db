// Package naming turns spreadsheet values into names that are safe to use as
// file names and picks the subfolder each export goes to.
package naming

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// forbiddenChars matches the characters Windows refuses in file names.
var forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// CleanName strips every character of <>:"/\|?* and trims surrounding
// whitespace. An empty result means the value cannot be used as a file name.
//
// Example: `  Ana: "A*"  ` -> `Ana A`
func CleanName(name string) string {
	return strings.TrimSpace(forbiddenChars.ReplaceAllString(name, ""))
}

// Initial returns the uppercased first character of a cleaned name, which is
// the name of the subfolder its export is written to.
func Initial(clean string) string {
	r, size := utf8.DecodeRuneInString(clean)
	if size == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}
