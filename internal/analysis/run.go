// Package analysis computes the semantic content of a grammar: which child
// entities every rule can produce and how often, and the accessors a parser
// generator derives from that.
//
// The pipeline runs leaves first:
//
//	ExtendsGraph     transitive-reflexive subtype closure
//	FirstNext        FIRST/NEXT reachability, shared by the phases below
//	ReferenceGraph   rule references, dependency order and cycles
//	CollapseSets     members a supertype's node may be replaced by
//	Content          per-rule member -> cardinality maps
//	Methods          per-rule accessor descriptors
//
// A Run owns every cache of one analysis. It is not safe for concurrent
// use and must not be reused for another grammar.
package analysis

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/bnfkit/internal/observability"
	"github.com/pthm/bnfkit/pkg/grammar"
)

const tracerName = "github.com/pthm/bnfkit/internal/analysis"

// Run is one analysis of one grammar.
type Run struct {
	g   *grammar.Grammar
	cfg Config

	ext      *ExtendsGraph
	fn       *FirstNext
	refs     *ReferenceGraph
	collapse CollapseSets

	raw        map[fragmentKey]ContentMap
	published  map[*grammar.Rule]ContentMap
	methods    map[*grammar.Rule][]MethodInfo
	recursions int
}

// NewRun builds the graphs and collapse sets of g. Content and methods are
// computed on demand.
func NewRun(g *grammar.Grammar, cfg Config) *Run {
	cfg = cfg.withDefaults()
	r := &Run{
		g:         g,
		cfg:       cfg,
		raw:       make(map[fragmentKey]ContentMap),
		published: make(map[*grammar.Rule]ContentMap),
	}
	r.ext = BuildExtendsGraph(g)
	r.fn = NewFirstNext(g, cfg.MaxFirstDepth)
	r.refs = BuildReferenceGraph(g, r.fn)
	r.collapse = BuildCollapseSets(g, r.ext, r.fn)
	return r
}

// Grammar returns the analyzed grammar.
func (r *Run) Grammar() *grammar.Grammar { return r.g }

// Config returns the options in effect, defaults applied.
func (r *Run) Config() Config { return r.cfg }

// Extends returns the extends graph.
func (r *Run) Extends() *ExtendsGraph { return r.ext }

// References returns the reference graph.
func (r *Run) References() *ReferenceGraph { return r.refs }

// Collapse returns the collapse sets.
func (r *Run) Collapse() CollapseSets { return r.collapse }

// FirstNext returns the reachability analyzer.
func (r *Run) FirstNext() *FirstNext { return r.fn }

// Recursions returns how many times content analysis re-entered a rule in
// progress so far.
func (r *Run) Recursions() int { return r.recursions }

// Methods returns the accessors of rule. Suppressed accessors are included
// with an empty name.
func (r *Run) Methods(rule *grammar.Rule) []MethodInfo {
	if r.methods == nil {
		r.methods = r.resolveMethods()
	}
	return r.methods[rule]
}

// RuleResult is the analysis outcome for one rule.
type RuleResult struct {
	Rule    *grammar.Rule
	Content ContentMap
	Methods []MethodInfo
}

// Result is the outcome of Analyze.
type Result struct {
	Grammar    *grammar.Grammar
	Config     Config
	Extends    *ExtendsGraph
	References *ReferenceGraph
	Collapse   CollapseSets
	// Rules holds one entry per rule in declaration order.
	Rules      []RuleResult
	Recursions int

	byName map[string]int
}

// Rule returns the result for the named rule.
func (res *Result) Rule(name string) (RuleResult, bool) {
	i, ok := res.byName[name]
	if !ok {
		return RuleResult{}, false
	}
	return res.Rules[i], true
}

type options struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.AnalysisMetrics
}

// Option configures Analyze.
type Option func(*options)

// WithLogger sets the logger phase summaries are written to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider sets the provider phase spans are created from. The
// global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp.Tracer(tracerName) }
}

// WithMetrics records run statistics to m.
func WithMetrics(m *observability.AnalysisMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// Analyze runs every phase over g and collects the results.
//
// The analysis itself never blocks; ctx carries the trace and is checked
// between phases so a caller can abandon a stale run.
func Analyze(ctx context.Context, g *grammar.Grammar, cfg Config, opts ...Option) (*Result, error) {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "bnfkit.analyze",
		trace.WithAttributes(attribute.Int("bnfkit.rules", len(g.Rules()))))
	defer span.End()

	cfg = cfg.withDefaults()
	r := &Run{
		g:         g,
		cfg:       cfg,
		raw:       make(map[fragmentKey]ContentMap),
		published: make(map[*grammar.Rule]ContentMap),
	}

	phase := func(name string, fn func()) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, ps := o.tracer.Start(ctx, "bnfkit."+name)
		fn()
		ps.End()
		return nil
	}

	steps := []struct {
		name string
		fn   func()
	}{
		{"extends", func() {
			r.ext = BuildExtendsGraph(g)
			o.logger.DebugContext(ctx, "extends graph built", "supertypes", len(r.ext.Supers()))
		}},
		{"references", func() {
			r.fn = NewFirstNext(g, cfg.MaxFirstDepth)
			r.refs = BuildReferenceGraph(g, r.fn)
			for _, c := range r.refs.Cycles() {
				o.logger.DebugContext(ctx, "reference cycle", "cycle", FormatCycle(c))
			}
		}},
		{"collapse", func() {
			r.collapse = BuildCollapseSets(g, r.ext, r.fn)
			o.logger.DebugContext(ctx, "collapse sets built", "rules", len(r.collapse))
		}},
		{"content", func() {
			for _, rule := range r.refs.Order() {
				r.Content(rule)
			}
			o.logger.DebugContext(ctx, "content computed", "recursions", r.recursions)
		}},
		{"methods", func() {
			r.methods = r.resolveMethods()
		}},
	}
	for _, s := range steps {
		if err := phase(s.name, s.fn); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	res := &Result{
		Grammar:    g,
		Config:     cfg,
		Extends:    r.ext,
		References: r.refs,
		Collapse:   r.collapse,
		Rules:      make([]RuleResult, 0, len(g.Rules())),
		Recursions: r.recursions,
		byName:     make(map[string]int, len(g.Rules())),
	}
	for i, rule := range g.Rules() {
		res.Rules = append(res.Rules, RuleResult{
			Rule:    rule,
			Content: r.Content(rule),
			Methods: r.Methods(rule),
		})
		res.byName[rule.Name] = i
	}

	elapsed := time.Since(start)
	o.metrics.RecordRun(ctx, observability.AnalysisStats{
		Rules:      int64(len(g.Rules())),
		Recursions: int64(r.recursions),
		Duration:   elapsed,
	})
	span.SetAttributes(attribute.Int("bnfkit.recursions", r.recursions))
	o.logger.DebugContext(ctx, "analysis finished",
		"rules", len(g.Rules()),
		"cycles", len(r.refs.Cycles()),
		"duration", elapsed)
	return res, nil
}
