/*
Package graph defines the vocabulary of a probabilistic model DAG: scalar
expression nodes (constants, variables, arithmetic, special functions,
conditionals and samples) and distribution nodes (Normal, HalfNormal, Beta,
Bernoulli, Exponential).

Nodes are immutable and shared by reference, so one subexpression may have
many parents. Structural equality is never used for identity: two nodes
built from the same operator and inputs stay distinct until a rewrite
(see package rewrite) unifies them.

# Building

	f := graph.NewFactory()
	a := f.Add(f.Constant(1.2), f.Constant(3.4))
	s := f.Sample(f.Beta(a, f.Constant(5.6)))
	_ = f.Observe(s, 0.3)
	_, _ = f.Query(s)
	g, err := f.Build()

Build performs dead-code elimination: only nodes reachable from the queries
and observations survive, in their construction order.
*/
package graph
