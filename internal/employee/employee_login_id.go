package employee

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const loginIDCounterPrefix = "login_id:"

// LoginIDPrefix builds the non-serial part of a login id: up to two
// company initials, the first and last name initials and the year,
// e.g. "GOJD2026".
func LoginIDPrefix(companyName, firstName, lastName string, year int) string {
	var b strings.Builder
	for i, word := range strings.Fields(companyName) {
		if i == 2 {
			break
		}
		b.WriteRune(initial(word))
	}
	b.WriteRune(initial(firstName))
	b.WriteRune(initial(lastName))
	fmt.Fprintf(&b, "%04d", year)
	return strings.ToUpper(b.String())
}

// FormatLoginID appends the zero padded serial to prefix.
func FormatLoginID(prefix string, serial int64) string {
	return fmt.Sprintf("%s%03d", prefix, serial)
}

func loginIDCounterKey(prefix string) string {
	return loginIDCounterPrefix + prefix
}

func initial(s string) rune {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return 'X'
	}
	return unicode.ToUpper(r)
}
