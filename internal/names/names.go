// Package names prepares corpus name strings for knowledge-base search.
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Honorifics lists the title prefixes removed before searching, in match order.
// Each entry includes its trailing space so "Mr.Smith" is left alone.
var Honorifics = []string{
	"Mr. ",
	"Mrs. ",
	"Dr. ",
	"Sir ",
	"Monsieur ",
	"Signor ",
	"M. ",
	"Fr. ",
}

// StripHonorific removes the first honorific prefix that matches name.
// At most one prefix is removed.
func StripHonorific(name string) string {
	for _, prefix := range Honorifics {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}

// SearchForms returns the query strings to try for name, in order. The
// stripped form comes first when stripping changed anything; the original is
// the fallback. Forms are NFC-normalized and trimmed.
func SearchForms(name string) []string {
	original := Normalize(name)
	stripped := Normalize(StripHonorific(original))
	if stripped == "" || stripped == original {
		return []string{original}
	}
	return []string{stripped, original}
}

// Normalize applies NFC composition and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
