package scoring

import (
	"fmt"
	"strings"

	"gifloop/internal/services"
)

// Metric is a similarity measure computed by an ffmpeg filter. Higher values
// always mean more similar frames.
type Metric int

const (
	// MetricPSNR is peak signal-to-noise ratio in dB. Identical frames score +Inf.
	MetricPSNR Metric = iota + 1
	// MetricSSIM is the structural similarity index in [0, 1].
	MetricSSIM
)

// DefaultMetric is used when no metric is configured.
const DefaultMetric = MetricPSNR

// Metrics lists every supported metric in display order.
func Metrics() []Metric {
	return []Metric{MetricPSNR, MetricSSIM}
}

// ParseMetric resolves a metric by name, case-insensitively. An empty name
// selects DefaultMetric.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultMetric, nil
	case "psnr":
		return MetricPSNR, nil
	case "ssim":
		return MetricSSIM, nil
	}
	return 0, services.Wrap(
		services.ErrValidation,
		"scoring",
		"parse metric",
		fmt.Sprintf("unknown metric %q (want psnr or ssim)", name),
		nil,
	)
}

func (m Metric) String() string {
	switch m {
	case MetricPSNR:
		return "psnr"
	case MetricSSIM:
		return "ssim"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	return m == MetricPSNR || m == MetricSSIM
}

// Filter is the ffmpeg -lavfi filter that computes the metric.
func (m Metric) Filter() string {
	return m.String()
}

// Marker is the label in the filter's summary line that precedes the overall
// value.
func (m Metric) Marker() string {
	switch m {
	case MetricPSNR:
		return "average:"
	case MetricSSIM:
		return "All:"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid metric %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
