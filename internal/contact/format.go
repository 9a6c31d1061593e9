package contact

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const countryPrefix = "+48 "

// FormatPhone normalizes a phone number as it is typed. The result is always
// rebuilt from the digits of raw, so separators never go stale:
//
//	FormatPhone("601514423")   == "+48 601 514 423"
//	FormatPhone("48601514423") == "+48 601 514 423"
//	FormatPhone("abc")         == ""
func FormatPhone(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	out := digits
	switch {
	case strings.HasPrefix(digits, "48"):
		out = "+48 " + digits[2:]
	case len(digits) == 9:
		out = countryPrefix + digits
	}

	if strings.HasPrefix(out, countryPrefix) && len(out) > len(countryPrefix) {
		number := out[len(countryPrefix):]
		if len(number) >= 9 {
			number = number[:3] + " " + number[3:6] + " " + number[6:9] + number[9:]
		}
		out = countryPrefix + number
	}
	return out
}

// CapitalizeName upper-cases the first non-whitespace character of raw and
// leaves the rest as typed.
func CapitalizeName(raw string) string {
	for i, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		_, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size == 1 {
			// an invalid byte has no upper case
			return raw
		}
		return raw[:i] + strings.ToUpper(raw[i:i+size]) + raw[i+size:]
	}
	return raw
}
