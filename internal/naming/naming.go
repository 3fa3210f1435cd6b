// Package naming converts database identifiers into source identifiers.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Convention selects a case conversion.
type Convention string

const (
	Camel               Convention = "camel"
	Pascal              Convention = "pascal"
	Snake               Convention = "snake"
	SnakeDelimited      Convention = "snakeDelimited"
	Capitalize          Convention = "capitalize"
	CapitalizeOnlyFirst Convention = "capitalizeOnlyFirst"
)

// Conventions lists every supported convention in display order.
var Conventions = []Convention{Camel, Pascal, Snake, SnakeDelimited, Capitalize, CapitalizeOnlyFirst}

var (
	separators = regexp.MustCompile(`[\W_]+`)
	lowerUpper = regexp.MustCompile(`([a-z])([A-Z])`)
)

// ParseConvention matches s case-insensitively against the known
// conventions. ok is false for anything else.
func ParseConvention(s string) (Convention, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Conventions {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return Camel, false
}

// Convert applies convention c to raw. Unknown conventions fall back to camel.
func Convert(raw string, c Convention) string {
	if raw == "" {
		return ""
	}
	switch c {
	case Pascal:
		return ToPascal(raw)
	case Snake:
		return ToSnake(raw)
	case SnakeDelimited:
		return ToSnakeDelimited(raw)
	case Capitalize:
		return CapitalizeFirst(raw)
	case CapitalizeOnlyFirst:
		return CapitalizeOnly(raw)
	default:
		return ToCamel(raw)
	}
}

// ToCamel lower-cases the first word and title-cases the rest:
// "TYPE_NAME" becomes "typeName". Leading separators are dropped before the
// first word is picked, so "_id" becomes "id".
func ToCamel(raw string) string {
	var b strings.Builder
	for i, w := range words(raw) {
		if i == 0 {
			b.WriteString(toLower(w))
			continue
		}
		b.WriteString(CapitalizeFirst(w))
	}
	return b.String()
}

// ToPascal title-cases every word: "type_name" becomes "TypeName".
func ToPascal(raw string) string {
	var b strings.Builder
	for _, w := range words(raw) {
		b.WriteString(CapitalizeFirst(w))
	}
	return b.String()
}

// ToSnake lower-cases raw and nothing else.
func ToSnake(raw string) string {
	return toLower(raw)
}

// ToSnakeDelimited puts an underscore at every lower-to-upper boundary
// before lower-casing: "typeName" becomes "type_name".
func ToSnakeDelimited(raw string) string {
	return toLower(lowerUpper.ReplaceAllString(raw, "${1}_${2}"))
}

// CapitalizeFirst upper-cases the first rune and lower-cases the rest.
func CapitalizeFirst(s string) string {
	head, rest := splitFirst(s)
	return toUpper(head) + toLower(rest)
}

// CapitalizeOnly upper-cases the first rune and leaves the rest untouched.
func CapitalizeOnly(s string) string {
	head, rest := splitFirst(s)
	return toUpper(head) + rest
}

// IsLowerStart reports whether s starts with a lower-case letter.
func IsLowerStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

func words(raw string) []string {
	parts := separators.Split(raw, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitFirst(s string) (string, string) {
	if s == "" {
		return "", ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size], s[size:]
}

// Casers carry state, so each call gets its own.
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }

func toLower(s string) string { return cases.Lower(language.Und).String(s) }
