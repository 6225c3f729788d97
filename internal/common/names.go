package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// RootClass is the parent sentinel meaning "no parent".
const RootClass = "root"

// IsRoot reports whether a parent name denotes the absence of a parent.
func IsRoot(parent string) bool {
	return parent == "" || strings.EqualFold(parent, RootClass)
}

// InitialCap returns s with its first rune upper-cased.
func InitialCap(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst returns s with its first rune lower-cased.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}

	return string(unicode.ToLower(r)) + s[size:]
}

// SetterField maps a logical setter name ("setPduType") to the field it
// assigns ("pduType"). Names without the set prefix are returned as-is.
func SetterField(setter string) string {
	rest, ok := strings.CutPrefix(setter, "set")
	if !ok || rest == "" {
		return setter
	}

	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return setter
	}

	return LowerFirst(rest)
}

// SetterName is the inverse of SetterField.
func SetterName(field string) string {
	return "set" + InitialCap(field)
}
