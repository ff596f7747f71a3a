package dataset

import (
	"strings"
	"unicode"
)

// UnknownCity is substituted when no city can be derived from an address.
const UnknownCity = "UNKNOWN"

// DeriveCity extracts a city name from a free-text residential address.
//
// It is a pure, stateless transform applied once per record during load.
// The heuristic expects Brazilian-style addresses of the form
// "Rua Exemplo, 123, Porto Alegre - RS" and takes the last comma-separated
// segment, cut before a trailing " - UF" state suffix, with digits and
// postal codes stripped.
func DeriveCity(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return UnknownCity
	}

	segment := address
	if idx := strings.LastIndex(address, ","); idx >= 0 {
		segment = address[idx+1:]
	}

	if idx := strings.LastIndex(segment, " - "); idx >= 0 {
		segment = segment[:idx]
	}

	var b strings.Builder
	for _, r := range segment {
		if unicode.IsDigit(r) || r == '-' || r == '/' {
			continue
		}
		b.WriteRune(r)
	}

	city := strings.Join(strings.Fields(b.String()), " ")
	if city == "" {
		return UnknownCity
	}
	return city
}
