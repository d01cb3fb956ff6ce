package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a non-zero exit or launch failure of ffmpeg/ffprobe.
	ErrExternalTool = errors.New("external tool error")
	// ErrParse marks engine output that lacks the expected marker or number.
	ErrParse = errors.New("parse error")
	// ErrCacheIO marks a result cache that cannot be opened, read, or written.
	ErrCacheIO = errors.New("cache i/o error")
	// ErrConfiguration marks settings that cannot produce a meaningful run,
	// such as windowing parameters that yield no candidate pairs.
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	// ErrNotAnalyzed marks a render that needs frames or scores an earlier
	// analysis never produced.
	ErrNotAnalyzed = errors.New("analysis incomplete")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification for err, used for exit hints and
// structured log fields. Unclassified errors report "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrCacheIO):
		return "cache_io"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotAnalyzed):
		return "not_analyzed"
	default:
		return "unknown"
	}
}

// Hint returns a one-line suggestion for the user that matches the error kind.
func Hint(err error) string {
	switch Kind(err) {
	case "external_tool":
		return "run 'gifloop check' and rerun with -v to see ffmpeg output"
	case "parse":
		return "ffmpeg output format changed; rerun with -vv to inspect it"
	case "cache_io":
		return "check the cache path permissions or remove the cache file"
	case "configuration":
		return "adjust --skip-frames/--max-frames or the analysis frame rate"
	case "not_analyzed":
		return "run 'gifloop analyze' with the same settings before rendering"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
