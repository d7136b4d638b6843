package directory

import (
	"strings"

	"memberdir/member"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns the members whose full name contains the query ignoring
// case, or whose national id contains the query exactly as typed. A blank
// query matches nothing. Source order is preserved.
func Filter(members []member.Member, query string) []member.Member {
	matches := make([]member.Member, 0)
	if strings.TrimSpace(query) == "" {
		return matches
	}

	lowerQuery := foldCase(query)
	for _, entry := range members {
		if strings.Contains(foldCase(entry.FullName), lowerQuery) || strings.Contains(entry.NationalID, query) {
			matches = append(matches, entry)
		}
	}
	return matches
}

func foldCase(value string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(value)
}
