package sanitizer

import (
	"strings"
	"unicode"
)

// NormalizePlate uppercases a vehicle registration number and strips all
// whitespace, so "mh03 bh 5467" becomes "MH03BH5467". The result is what
// gets validated and stored.
func NormalizePlate(plate string) string {
	var result strings.Builder
	for _, r := range plate {
		if unicode.IsSpace(r) {
			continue
		}
		result.WriteRune(unicode.ToUpper(r))
	}
	return result.String()
}
