// Package eval evaluates model graphs over any number.Number domain.
//
// EvaluateScalar and EvaluateDistribution hold the per-operator dispatch.
// They never decide where input values come from: a Policy supplies
// variables, samples and already-evaluated inputs. Two policies are
// provided. StepEvaluator reads inputs from caller-owned maps and is driven
// node by node by EvalGraph. Recursive descends into inputs directly and
// suits small sample-free expression trees.
package eval
