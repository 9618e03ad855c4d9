package driver

import (
	"encoding/json"

	"incfix/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// Timings sums the per-file reports of a batch.
func Timings(results []FileResult) observ.Report {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.Timing)
	}
	return observ.Merge(reports...)
}

// TimingsJSON renders the batch timings for machine consumption.
func TimingsJSON(op Op, results []FileResult) ([]byte, error) {
	report := Timings(results)
	return json.Marshal(timingPayload{
		Kind:    op.String(),
		Files:   len(results),
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

// Summary counts outcomes of a batch.
type Summary struct {
	Changed int
	NoOps   int
	Planned int
	Failed  int
}

// Summarize counts results by outcome.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed():
			s.Changed++
		case r.NoOp():
			s.NoOps++
		default:
			// dry run: planned edits that were not written
			s.Planned++
		}
	}
	return s
}

// OK reports whether every file succeeded or was a no-op.
func (s Summary) OK() bool { return s.Failed == 0 }
