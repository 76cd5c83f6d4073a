package pulse

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// codeAlphabet is the symbol set for pulse codes: uppercase letters plus digits.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RenderedCodeLength is the visible length of a code including separators (XX-XX-XX).
const RenderedCodeLength = 8

var codePattern = regexp.MustCompile(`^[A-Z0-9]{2}-[A-Z0-9]{2}-[A-Z0-9]{2}$`)

// GenerateCode produces a new pulse code in XX-XX-XX form.
//
// Codes are short-lived room identifiers, not secrets, so a plain uniform
// random source is enough. ~36^6 combinations; uniqueness among live pulses
// is enforced by the store's constraint, not here.
func GenerateCode() string {
	group := func() string {
		var b [2]byte
		for i := range b {
			b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		return string(b[:])
	}
	return group() + "-" + group() + "-" + group()
}

// NormalizeCode rewrites user-typed input into canonical code form: strip
// everything outside [A-Za-z0-9], uppercase, re-insert separators after the
// second and fourth symbols, truncate to the rendered length.
//
// Safe to run on every keystroke; normalizing an already-normalized string
// returns it unchanged.
func NormalizeCode(s string) string {
	var cleaned strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cleaned.WriteRune(r)
		}
	}
	raw := cleaned.String()

	var out strings.Builder
	for i, r := range raw {
		if i == 2 || i == 4 {
			out.WriteByte('-')
		}
		out.WriteRune(r)
	}
	formatted := out.String()
	if len(formatted) > RenderedCodeLength {
		formatted = formatted[:RenderedCodeLength]
	}
	return formatted
}

// ParseCode normalizes s and validates it against the canonical XX-XX-XX
// format, returning ErrInvalidCode for anything that does not fill it.
func ParseCode(s string) (string, error) {
	code := NormalizeCode(s)
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}
