package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// writeMetricsSummary prints counters and histogram totals in a compact,
// human readable form, one series per line.
func writeMetricsSummary(w io.Writer, families []*dto.MetricFamily) {
	printSystemMessage(w, "metrics")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			series := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", series, m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s count=%d sum=%.6fs\n", series, h.GetSampleCount(), h.GetSampleSum())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", series, m.GetGauge().GetValue())
			}
		}
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	slices.Sort(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
