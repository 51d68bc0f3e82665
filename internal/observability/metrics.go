package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const (
	metricRulesAnalyzed     = "bnfkit.rules.analyzed"
	metricRecursionDetected = "bnfkit.recursion.detected"
	metricAnalysisDuration  = "bnfkit.analysis.duration"
)

// durationBucketBoundaries covers 1ms to 10s: grammars analyze in
// milliseconds, generated-grammar corpora in seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// AnalysisMetrics holds OTel instruments for grammar analysis runs.
type AnalysisMetrics struct {
	rulesAnalyzed     metric.Int64Counter
	recursionDetected metric.Int64Counter
	duration          metric.Float64Histogram
}

// AnalysisStats holds the statistics of a single analysis run.
type AnalysisStats struct {
	Rules      int64
	Recursions int64
	Duration   time.Duration
}

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	rules, err := mt.Int64Counter(metricRulesAnalyzed,
		metric.WithDescription("Total grammar rules analyzed"),
		metric.WithUnit("{rule}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRulesAnalyzed, err)
	}

	recursions, err := mt.Int64Counter(metricRecursionDetected,
		metric.WithDescription("Rule re-entries cut by the recursion guard"),
		metric.WithUnit("{recursion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecursionDetected, err)
	}

	dur, err := mt.Float64Histogram(metricAnalysisDuration,
		metric.WithDescription("Analysis run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricAnalysisDuration, err)
	}

	return &AnalysisMetrics{
		rulesAnalyzed:     rules,
		recursionDetected: recursions,
		duration:          dur,
	}, nil
}

// RecordRun records the statistics of a completed run.
// Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordRun(ctx context.Context, stats AnalysisStats) {
	if am == nil {
		return
	}
	am.rulesAnalyzed.Add(ctx, stats.Rules)
	am.recursionDetected.Add(ctx, stats.Recursions)
	am.duration.Record(ctx, stats.Duration.Seconds())
}
