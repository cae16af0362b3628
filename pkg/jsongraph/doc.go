// Package jsongraph converts graphs to and from the serialized document
// format:
//
//	{
//	  "comment": "created by minibmg",
//	  "nodes": [
//	    {"sequence": 0, "operator": "CONSTANT", "value": 1.5},
//	    {"sequence": 1, "operator": "DISTRIBUTION_HALF_NORMAL", "in_nodes": [0]},
//	    {"sequence": 2, "operator": "SAMPLE", "in_nodes": [1]}
//	  ],
//	  "observations": [{"node": 2, "value": 0.3}],
//	  "queries": [2]
//	}
//
// Sequence numbers only need to be distinct, and in_nodes may only refer to
// earlier entries. Documents may be written in JSON or YAML. Marshal always
// assigns dense sequence numbers in graph order.
package jsongraph
