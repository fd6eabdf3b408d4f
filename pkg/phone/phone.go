// Package phone turns user-typed phone numbers into the key used to match a
// customer's bookings across visits.
package phone

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// Normalizer converts raw phone input into a canonical identity key.
type Normalizer struct {
	region string
}

func NewNormalizer(defaultRegion string) *Normalizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = "EG"
	}
	return &Normalizer{region: region}
}

// Key returns the E.164 form of raw when it parses as a valid number for the
// default region, otherwise the digits of raw (with a leading '+' kept).
// Two inputs denote the same customer iff their keys are equal.
func (n *Normalizer) Key(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(toASCIIDigits(raw), n.region)
	if err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}

	return digitsOnly(raw)
}

// Display formats raw for outgoing SMS: E.164 when valid, raw otherwise.
func (n *Normalizer) Display(raw string) string {
	if key := n.Key(raw); strings.HasPrefix(key, "+") {
		return key
	}
	return strings.TrimSpace(raw)
}

// toASCIIDigits maps Arabic-Indic and Eastern Arabic-Indic digits to ASCII.
func toASCIIDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}

func digitsOnly(s string) string {
	s = toASCIIDigits(s)
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
