package camelrow

import (
	"github.com/jjeffery/camelrow/private/naming"
)

// The NamingConvention interface provides the methods used to
// convert an attribute name from one casing convention to another.
type NamingConvention interface {
	// Convert converts an attribute name according to the naming convention.
	Convert(name string) string

	// Join joins two or more converted names to form a single name.
	Join(names []string) string
}

// Pre-defined naming conventions. Storage form is snake_case and
// application form is camelCase.
var (
	SnakeCase NamingConvention = naming.SnakeCase // eg "firstName" -> "first_name"
	CamelCase NamingConvention = naming.CamelCase // eg "first_name" -> "firstName"
	SameCase  NamingConvention = naming.SameCase  // eg "firstName" -> "firstName"
	LowerCase NamingConvention = naming.LowerCase // eg "firstName" -> "firstname"
)

// PivotPrefix is the prefix of attribute names used to carry the
// linking columns of many-to-many relations. These names are never
// converted to application form.
const PivotPrefix = naming.PivotPrefix

// SnakeKey converts a single attribute name to storage form.
func SnakeKey(key string) string {
	return naming.SnakeCase.Convert(key)
}

// CamelKey converts a single attribute name to application form.
// Pivot attribute names are returned unchanged.
func CamelKey(key string) string {
	if naming.IsPivot(key) {
		return key
	}
	return naming.CamelCase.Convert(key)
}

// ToCamelCase returns a new mapping with every key converted to
// application form. Pivot attribute names are left untouched.
// Values are unchanged.
func ToCamelCase(attrs *Attributes) *Attributes {
	return attrs.MapKeys(CamelKey)
}

// ToSnakeCase returns a new mapping with every key converted to
// storage form. Values are unchanged.
func ToSnakeCase(attrs *Attributes) *Attributes {
	return attrs.MapKeys(SnakeKey)
}

func snakeKeys(keys []string) []string {
	if keys == nil {
		return nil
	}
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = SnakeKey(key)
	}
	return out
}
