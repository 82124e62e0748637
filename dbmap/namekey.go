package dbmap

import (
	"strings"
	"unicode"
)

// NameKey returns the key used to match column names against struct members.
// It keeps letters and digits only and lower-cases them,
// so "OfficeCode", "officecode" and "Office_Code" all share the key "officecode".
func NameKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
