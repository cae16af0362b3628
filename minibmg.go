package minibmg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/aretw0/minibmg/pkg/eval"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/jsongraph"
	"github.com/aretw0/minibmg/pkg/number"
	"github.com/aretw0/minibmg/pkg/rewrite"
)

// Recorder receives operation counts, e.g. to export them as metrics.
type Recorder interface {
	ObserveEval(nodes int, elapsed time.Duration)
	ObserveDedup(merged int)
	ObserveDedag(temporaries int)
}

// Engine is the high-level entry point for the minibmg library.
// It decodes, evaluates and rewrites graphs, logging and recording each
// operation. An Engine holds no per-graph state and is safe for
// concurrent use.
type Engine struct {
	logger   *slog.Logger
	recorder Recorder
	seed     uint64
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRecorder reports operation counts to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithSeed sets the seed used by Eval when a request carries none
// (default: 1).
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New initializes an Engine. The name only labels log lines.
func New(name string, opts ...Option) *Engine {
	eng := &Engine{seed: 1, Name: name}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("graph", eng.Name)
	}
	if eng.recorder == nil {
		eng.recorder = nopRecorder{}
	}
	return eng
}

type nopRecorder struct{}

func (nopRecorder) ObserveEval(int, time.Duration) {}
func (nopRecorder) ObserveDedup(int)               {}
func (nopRecorder) ObserveDedag(int)               {}

// Decode parses a graph document.
func (e *Engine) Decode(data []byte, f jsongraph.Format) (*graph.Graph, error) {
	g, err := jsongraph.Unmarshal(data, f)
	if err != nil {
		e.logger.Debug("decode failed", "format", f, "error", err)
		return nil, err
	}
	e.logger.Debug("decoded graph", "format", f, "nodes", g.Len(),
		"queries", len(g.Queries()), "observations", len(g.Observations()))
	return g, nil
}

// Encode writes g as a document.
func (e *Engine) Encode(g *graph.Graph, f jsongraph.Format) ([]byte, error) {
	return jsongraph.Marshal(g, f)
}

// EvalRequest parameterizes Eval.
type EvalRequest struct {
	// Seed for the sampler; nil uses the engine default.
	Seed *uint64
	// Variables supplies VARIABLE nodes by name.
	Variables map[string]float64
	// LogProb enables log probability accumulation.
	LogProb bool
}

// EvalResult is the outcome of Eval.
type EvalResult struct {
	LogProb float64
	Queries []float64
	// Seed is the seed actually used, for reproducing the run.
	Seed uint64
}

// Variables returns the distinct variable names g reads, sorted.
func Variables(g *graph.Graph) []string {
	seen := map[string]bool{}
	var names []string
	for _, n := range g.All() {
		if n.Op() == graph.OpVariable && !seen[n.Name()] {
			seen[n.Name()] = true
			names = append(names, n.Name())
		}
	}
	slices.Sort(names)
	return names
}

// Eval evaluates g once with plain doubles. Every variable g reads must be
// supplied; unobserved samples are drawn from a generator seeded by the
// request.
func (e *Engine) Eval(ctx context.Context, g *graph.Graph, req EvalRequest) (*EvalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, name := range Variables(g) {
		if _, ok := req.Variables[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
	}
	seed := e.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	read := func(name string, _ int) number.Real {
		return number.Real(req.Variables[name])
	}
	opts := []eval.Option{eval.WithQueries()}
	if req.LogProb {
		opts = append(opts, eval.WithLogProb())
	}

	start := time.Now()
	res := eval.EvalGraph(g, rng, read, make(map[*graph.Node]number.Real, g.Len()), opts...)
	elapsed := time.Since(start)
	e.recorder.ObserveEval(g.Len(), elapsed)

	out := &EvalResult{LogProb: float64(res.LogProb), Queries: make([]float64, len(res.Queries)), Seed: seed}
	for i, q := range res.Queries {
		out.Queries[i] = float64(q)
	}
	e.logger.Debug("evaluated graph", "nodes", g.Len(), "seed", seed,
		"log_prob", out.LogProb, "elapsed", elapsed)
	return out, nil
}

// Dedup returns the canonical form of g and the number of merged nodes.
func (e *Engine) Dedup(g *graph.Graph) (*graph.Graph, int) {
	out, mapping := rewrite.Dedup(g)
	merged := rewrite.Merged(mapping)
	e.recorder.ObserveDedup(merged)
	e.logger.Debug("deduplicated graph", "nodes_before", g.Len(), "nodes_after", out.Len(), "merged", merged)
	return out, merged
}

// Dedag linearizes the queries of g into depth-bounded temporaries. The
// graph is deduplicated first so equal subexpressions share a temporary.
func (e *Engine) Dedag(g *graph.Graph, maxDepth int) (rewrite.Dedagged[[]*graph.Node], error) {
	canonical, _ := rewrite.Dedup(g)
	d, err := rewrite.Dedag(canonical.Queries(), maxDepth)
	if err != nil {
		return d, err
	}
	e.recorder.ObserveDedag(len(d.Prelude))
	e.logger.Debug("dedagged graph", "max_depth", maxDepth, "temporaries", len(d.Prelude))
	return d, nil
}
