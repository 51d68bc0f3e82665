package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pthm/bnfkit/internal/observability"
	"github.com/pthm/bnfkit/pkg/grammar"
)

func TestAnalyze_Result(t *testing.T) {
	g := statementGrammar(t)

	res, err := Analyze(context.Background(), g, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Rules, 3)
	assert.Equal(t, "root", res.Rules[0].Rule.Name, "declaration order")

	stmt, ok := res.Rule("stmt")
	require.True(t, ok)
	assert.Equal(t, Required, stmt.Content[RuleMember("expr")])
	assert.Equal(t, []string{"expr", "IDENT"}, visible(stmt.Methods))

	_, ok = res.Rule("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"expr", "stmt", "root"}, ruleNames(res.References.Order()))
	assert.Equal(t, DefaultMaxFirstDepth, res.Config.MaxFirstDepth)
}

func TestAnalyze_MatchesRun(t *testing.T) {
	g := expressionGrammar(t)

	res, err := Analyze(context.Background(), g, DefaultConfig())
	require.NoError(t, err)

	r := NewRun(g, DefaultConfig())
	for _, rr := range res.Rules {
		assert.True(t, rr.Content.Equal(r.Content(rr.Rule)), rr.Rule.Name)
		assert.Equal(t, r.Methods(rr.Rule), rr.Methods, rr.Rule.Name)
	}
}

func TestAnalyze_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	_, err := Analyze(context.Background(), statementGrammar(t), DefaultConfig(), WithTracerProvider(tp))
	require.NoError(t, err)

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{
		"bnfkit.extends",
		"bnfkit.references",
		"bnfkit.collapse",
		"bnfkit.content",
		"bnfkit.methods",
		"bnfkit.analyze",
	}, names)

	spans := exporter.GetSpans()
	root := spans[len(spans)-1]
	assert.Equal(t, "bnfkit.analyze", root.Name, "the run span ends last")
	for _, s := range spans[:len(spans)-1] {
		assert.Equal(t, root.SpanContext.SpanID(), s.Parent.SpanID(), "%s is a child of the run", s.Name)
	}
}

func TestAnalyze_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	g := newGrammar(t, nil,
		&grammar.Rule{Name: "args", Expr: grammar.Seq(grammar.Lit("("), grammar.Ref("items"), grammar.Lit(")"))},
		&grammar.Rule{Name: "items", Modifiers: grammar.Private, Expr: grammar.Seq(grammar.Ref("ITEM"), grammar.Opt(grammar.Ref("items")))},
	)
	res, err := Analyze(context.Background(), g, DefaultConfig(), WithMetrics(metrics))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Recursions)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) > 0 {
				values[m.Name] = sum.DataPoints[0].Value
			}
		}
	}
	assert.Equal(t, int64(2), values["bnfkit.rules.analyzed"])
	assert.Equal(t, int64(1), values["bnfkit.recursion.detected"])
}

func TestAnalyze_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := newGrammar(t, nil,
		&grammar.Rule{Name: "list", Expr: grammar.Seq(grammar.Ref("ITEM"), grammar.Opt(grammar.Ref("list")))},
	)
	_, err := Analyze(context.Background(), g, DefaultConfig(), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "reference cycle")
	assert.Contains(t, out, "list → list")
	assert.Contains(t, out, "analysis finished")
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	res, err := Analyze(ctx, statementGrammar(t), DefaultConfig(), WithTracerProvider(tp))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "no phase starts")
	assert.Equal(t, "bnfkit.analyze", spans[0].Name)
}
