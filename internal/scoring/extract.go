package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gifloop/internal/services"
)

// ExtractBetween returns the text after the first occurrence of marker up to
// the next delim, or to the end of output when delim does not follow. ok is
// false when marker is absent.
func ExtractBetween(output, marker, delim string) (string, bool) {
	if marker == "" {
		return "", false
	}
	idx := strings.Index(output, marker)
	if idx < 0 {
		return "", false
	}
	rest := output[idx+len(marker):]
	if delim != "" {
		if end := strings.Index(rest, delim); end >= 0 {
			rest = rest[:end]
		}
	}
	return rest, true
}

// ExtractScore reads the metric's summary value from ffmpeg output.
func ExtractScore(output string, m Metric) (float64, error) {
	if !m.Valid() {
		return 0, services.Wrap(services.ErrValidation, "scoring", "extract score", fmt.Sprintf("invalid metric %d", int(m)), nil)
	}
	token, ok := ExtractBetween(output, m.Marker(), " ")
	if !ok {
		return 0, services.Wrap(
			services.ErrParse,
			"scoring",
			"extract score",
			fmt.Sprintf("marker %q not found in %s output", m.Marker(), m),
			nil,
		)
	}
	// the summary is usually the last line, so the token can run into a newline
	if end := strings.IndexFunc(token, unicode.IsSpace); end >= 0 {
		token = token[:end]
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) {
		return 0, services.Wrap(
			services.ErrParse,
			"scoring",
			"extract score",
			fmt.Sprintf("value %q after %q is not a number", token, m.Marker()),
			err,
		)
	}
	return value, nil
}
