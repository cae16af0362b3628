/*
Package minibmg is a small intermediate representation for probabilistic
models: an immutable DAG of scalar expressions and distributions that can be
evaluated, traced into new graphs, and rewritten.

# Concept

A model is built with a graph.Factory. Sample nodes draw from distribution
nodes, observations clamp samples to data, and queries name the values the
caller wants back. Building the factory drops every node no query or
observation needs.

The same evaluation code runs over plain doubles (number.Real) and over
symbolic traces (number.Traced), so tracing a computation yields a new graph.
Two rewrites reshape graphs without changing their meaning: rewrite.Dedup
merges structurally equal subexpressions, and rewrite.Dedag splits deep
expressions into a prelude of bounded-depth temporaries.

# Usage

	f := graph.NewFactory()
	plus := f.Add(f.Constant(1.2), f.Constant(3.4))
	s := f.Sample(f.Beta(plus, f.Constant(5.6)))
	_ = f.Observe(s, 0.3)
	_, _ = f.Query(s)
	g, _ := f.Build()

	eng := minibmg.New("beta")
	res, err := eng.Eval(ctx, g, minibmg.EvalRequest{LogProb: true})

Graphs travel as JSON or YAML documents (package jsongraph) and can be kept
in a ports.GraphStore: in memory, on disk or in Redis. The minibmg command
wraps all of this in a CLI and an HTTP server.
*/
package minibmg
