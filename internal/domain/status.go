package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// statusMarkerRe matches the operating-status label, with or without the accent.
	statusMarkerRe = regexp.MustCompile(`(?i)SITUACI[ÓO]N`)

	// operatingRe matches the active token; negatedOperatingRe its "NO OPERANDO" form.
	operatingRe        = regexp.MustCompile(`(?i)\bOPERANDO\b`)
	negatedOperatingRe = regexp.MustCompile(`(?i)\bNO\s+OPERANDO\b`)
)

// IsOperating reports whether the report declares the station as operating.
// The first SITUACIÓN line decides; a report without one is not operating.
func IsOperating(text string) bool {
	for _, line := range strings.Split(norm.NFC.String(text), "\n") {
		if !statusMarkerRe.MatchString(line) {
			continue
		}
		return operatingRe.MatchString(line) && !negatedOperatingRe.MatchString(line)
	}
	return false
}
