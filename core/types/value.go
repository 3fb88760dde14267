package types

import "strings"

// Heredoc marks a string attribute that the text renderer must emit
// verbatim inside a heredoc block instead of a quoted string. The JSON
// renderer serializes it as a plain string.
type Heredoc string

// WrapPolicy prepares a policy-document value for configuration output:
// occurrences of "${" are escaped to "$${" so the text encoding does not
// treat them as template interpolation, and the result is wrapped as a
// Heredoc. Already-wrapped values pass through untouched, so the
// transformation is safe under repeat invocation.
func WrapPolicy(v interface{}) interface{} {
	switch doc := v.(type) {
	case Heredoc:
		return doc
	case string:
		if doc == "" {
			return v
		}
		return Heredoc(EscapeInterpolation(doc))
	default:
		return v
	}
}

// EscapeInterpolation escapes template-interpolation markers in a literal
// string. Not idempotent on its own; callers guard with the Heredoc type.
func EscapeInterpolation(s string) string {
	return strings.ReplaceAll(s, "${", "$${")
}

// IsEmptyValue reports whether a value counts as empty under the default
// field-inclusion policy: nil, empty string, empty list or empty map.
// Zero numbers and false are NOT empty; they carry information.
func IsEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case Heredoc:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	}
	return false
}
