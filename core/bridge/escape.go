package bridge

import "strings"

// Escape-string wire format: a JSON string carries an encoded FEEL
// value iff it starts with the two characters @" and ends with ". The
// minimum match is three characters, so the two-character prefix alone
// never doubles as its own closing quote.
const (
	escapePrefix = `@"`
	escapeSuffix = `"`
)

// IsEscape reports whether s matches the escape-string format.
func IsEscape(s string) bool {
	return len(s) >= 3 && strings.HasPrefix(s, escapePrefix) && strings.HasSuffix(s, escapeSuffix)
}

// Payload returns the opaque payload between the escape delimiters.
// Callers must check IsEscape first.
func Payload(s string) string {
	return s[len(escapePrefix) : len(s)-len(escapeSuffix)]
}

// Wrap encloses a literal payload in the escape delimiters.
func Wrap(payload string) string {
	return escapePrefix + payload + escapeSuffix
}
