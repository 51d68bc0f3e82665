package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/pthm/bnfkit/internal/observability"
)

func setupAnalysisMeter(t *testing.T) (*observability.AnalysisMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	am, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return am, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}
	return nil
}

func TestAnalysisMetrics_RecordRun(t *testing.T) {
	t.Parallel()

	am, reader := setupAnalysisMeter(t)
	ctx := context.Background()

	am.RecordRun(ctx, observability.AnalysisStats{Rules: 12, Recursions: 2, Duration: 3 * time.Millisecond})
	am.RecordRun(ctx, observability.AnalysisStats{Rules: 4, Duration: time.Millisecond})

	rm := collectMetrics(t, reader)

	rules := findMetric(rm, "bnfkit.rules.analyzed")
	require.NotNil(t, rules, "rules counter should exist")
	sum, ok := rules.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum data type")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(16), sum.DataPoints[0].Value)

	recursions := findMetric(rm, "bnfkit.recursion.detected")
	require.NotNil(t, recursions, "recursion counter should exist")
	rsum, ok := recursions.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), rsum.DataPoints[0].Value)

	dur := findMetric(rm, "bnfkit.analysis.duration")
	require.NotNil(t, dur, "duration histogram should exist")
	hist, ok := dur.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram data type")
	require.NotEmpty(t, hist.DataPoints)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestAnalysisMetrics_RecordRun_NilReceiver(t *testing.T) {
	t.Parallel()

	var am *observability.AnalysisMetrics

	// Should not panic.
	am.RecordRun(context.Background(), observability.AnalysisStats{Rules: 1})
}
