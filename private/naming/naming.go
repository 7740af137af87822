// Package naming provides the naming conventions used to convert
// attribute names between application form and storage form.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PivotPrefix is the prefix reserved for the linking columns of
// many-to-many relations. Names with this prefix are never converted
// to application form.
const PivotPrefix = "pivot_"

// Instances of the different naming conventions
var (
	SnakeCase SnakeCaseConvention
	CamelCase CamelCaseConvention
	LowerCase LowerCaseConvention
	SameCase  SameCaseConvention
)

var lower = cases.Lower(language.Und)

// IsPivot reports whether name is reserved for many-to-many
// relation bookkeeping.
func IsPivot(name string) bool {
	return strings.HasPrefix(name, PivotPrefix)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// SnakeCaseConvention converts names into "snake_case", which is the
// storage form. So the name "firstName" would be converted to "first_name".
type SnakeCaseConvention struct{}

// Convert converts name into snake_case.
func (sc SnakeCaseConvention) Convert(name string) string {
	if !needsSnake(name) {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	prevSep := true
	for i, r := range name {
		if isSeparator(r) {
			if !prevSep {
				sb.WriteByte('_')
			}
			prevSep = true
			continue
		}
		if i > 0 && unicode.IsUpper(r) && !prevSep {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
		prevSep = false
	}
	return lower.String(strings.TrimSuffix(sb.String(), "_"))
}

// needsSnake reports whether name carries any upper case or separator
// other than a plain underscore. Names without such a signal are
// already in storage form.
func needsSnake(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) || (r != '_' && isSeparator(r)) {
			return true
		}
	}
	return false
}

// Join joins together the names with underscores.
func (sc SnakeCaseConvention) Join(names []string) string {
	return strings.Join(names, "_")
}

// CamelCaseConvention converts names into "camelCase", which is the
// application form. So the name "first_name" would be converted to "firstName".
type CamelCaseConvention struct{}

// Convert converts name into camelCase.
func (cc CamelCaseConvention) Convert(name string) string {
	if !strings.ContainsFunc(name, isSeparator) {
		return lowerFirst(name)
	}
	var sb strings.Builder
	sb.Grow(len(name))
	for _, segment := range strings.FieldsFunc(name, isSeparator) {
		if sb.Len() == 0 {
			sb.WriteString(lowerFirst(segment))
		} else {
			sb.WriteString(upperFirst(segment))
		}
	}
	return sb.String()
}

// Join joins the names, capitalizing all but the first.
func (cc CamelCaseConvention) Join(names []string) string {
	return cc.Convert(strings.Join(names, "_"))
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// LowerCaseConvention converts names to lower case.
type LowerCaseConvention struct{}

// Convert converts the name to lower case.
func (lc LowerCaseConvention) Convert(name string) string {
	return lower.String(name)
}

// Join joins together the names with no separating characters between them.
func (lc LowerCaseConvention) Join(names []string) string {
	return strings.Join(names, "")
}

// SameCaseConvention does not alter names.
type SameCaseConvention struct{}

// Convert returns name unchanged.
func (sc SameCaseConvention) Convert(name string) string {
	return name
}

// Join joins together the names with no separating characters between them.
func (sc SameCaseConvention) Join(names []string) string {
	return strings.Join(names, "")
}
