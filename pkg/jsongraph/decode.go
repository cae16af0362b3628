package jsongraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/minibmg/pkg/graph"
)

// Unmarshal decodes a document in the given format. It stops at the first
// problem, returning a *ParseError and no graph.
func Unmarshal(data []byte, f Format) (*graph.Graph, error) {
	var tree any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, &ParseError{Field: "$", Reason: "invalid yaml: " + err.Error()}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, &ParseError{Field: "$", Reason: "invalid json: " + err.Error()}
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, &ParseError{Field: "$", Reason: "invalid json: trailing data after document"}
		}
	}
	return Parse(tree)
}

// Parse builds a graph from an already decoded document tree, as produced
// by encoding/json (with UseNumber) or yaml.v3.
func Parse(tree any) (*graph.Graph, error) {
	root, ok := asObject(tree)
	if !ok {
		return nil, parseErr("$", "document must be an object")
	}
	rawNodes, ok := root["nodes"]
	if !ok {
		return nil, parseErr("nodes", "missing")
	}
	entries, ok := rawNodes.([]any)
	if !ok {
		return nil, parseErr("nodes", "must be a sequence")
	}

	byID := make(map[int]*graph.Node, len(entries))
	for i, raw := range entries {
		id, n, err := parseNode(fmt.Sprintf("nodes[%d]", i), raw, byID)
		if err != nil {
			return nil, err
		}
		byID[id] = n
	}

	queries, err := parseQueries(root["queries"], byID)
	if err != nil {
		return nil, err
	}
	observations, err := parseObservations(root["observations"], byID)
	if err != nil {
		return nil, err
	}
	g, err := graph.Create(queries, observations)
	if err != nil {
		return nil, &ParseError{Field: "observations", Reason: err.Error()}
	}
	return g, nil
}

func parseNode(path string, raw any, byID map[int]*graph.Node) (int, *graph.Node, error) {
	entry, ok := asObject(raw)
	if !ok {
		return 0, nil, parseErr(path, "node must be an object")
	}
	id, ok := asInt(entry["sequence"])
	if !ok {
		return 0, nil, &ParseError{Field: path + ".sequence", Reason: "missing or not an integer", Value: entry["sequence"]}
	}
	if _, dup := byID[id]; dup {
		return 0, nil, parseErr(path+".sequence", "duplicate node id %d", id)
	}
	name, ok := entry["operator"].(string)
	if !ok {
		return 0, nil, &ParseError{Field: path + ".operator", Reason: "missing or not a string", Value: entry["operator"]}
	}
	op, ok := graph.ParseOperator(name)
	if !ok {
		return 0, nil, parseErr(path+".operator", "unknown operator %q", name)
	}

	switch op {
	case graph.OpConstant:
		v, ok := asFloat(entry["value"])
		if !ok {
			return 0, nil, &ParseError{Field: path + ".value", Reason: "bad value for constant", Value: entry["value"]}
		}
		return id, graph.Constant(v), nil
	case graph.OpVariable:
		varName, ok := entry["name"].(string)
		if !ok {
			return 0, nil, &ParseError{Field: path + ".name", Reason: "bad name for variable", Value: entry["name"]}
		}
		rawIdent, field := entry["identifier"], ".identifier"
		if rawIdent == nil {
			rawIdent, field = entry["variable_index"], ".variable_index"
		}
		ident, ok := asInt(rawIdent)
		if !ok {
			return 0, nil, &ParseError{Field: path + field, Reason: "bad identifier for variable", Value: rawIdent}
		}
		return id, graph.Variable(varName, ident), nil
	}

	rawIn, ok := entry["in_nodes"].([]any)
	if !ok {
		return 0, nil, parseErr(path+".in_nodes", "missing for operator %s", op)
	}
	if len(rawIn) != op.Arity() {
		return 0, nil, parseErr(path+".in_nodes", "%s takes %d inputs, got %d", op, op.Arity(), len(rawIn))
	}
	inputs := make([]*graph.Node, len(rawIn))
	for j, r := range rawIn {
		ref, ok := asInt(r)
		if !ok {
			return 0, nil, &ParseError{Field: fmt.Sprintf("%s.in_nodes[%d]", path, j), Reason: "not an integer", Value: r}
		}
		in, ok := byID[ref]
		if !ok {
			return 0, nil, parseErr(fmt.Sprintf("%s.in_nodes[%d]", path, j), "unknown or forward reference %d", ref)
		}
		inputs[j] = in
	}
	n, err := graph.New(op, inputs...)
	if err != nil {
		var gerr *graph.Error
		reason := err.Error()
		if errors.As(err, &gerr) {
			reason = gerr.Msg
		}
		return 0, nil, parseErr(path+".in_nodes", "%s", reason)
	}
	return id, n, nil
}

func parseQueries(raw any, byID map[int]*graph.Node) ([]*graph.Node, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, parseErr("queries", "must be a sequence")
	}
	queries := make([]*graph.Node, 0, len(list))
	for i, r := range list {
		field := fmt.Sprintf("queries[%d]", i)
		ref, ok := asInt(r)
		if !ok {
			return nil, &ParseError{Field: field, Reason: "bad query value", Value: r}
		}
		n, ok := byID[ref]
		if !ok {
			return nil, parseErr(field, "unknown node %d", ref)
		}
		queries = append(queries, n)
	}
	return queries, nil
}

func parseObservations(raw any, byID map[int]*graph.Node) ([]graph.Observation, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, parseErr("observations", "must be a sequence")
	}
	observations := make([]graph.Observation, 0, len(list))
	for i, r := range list {
		field := fmt.Sprintf("observations[%d]", i)
		entry, ok := asObject(r)
		if !ok {
			return nil, parseErr(field, "observation must be an object")
		}
		ref, ok := asInt(entry["node"])
		if !ok {
			return nil, &ParseError{Field: field + ".node", Reason: "bad observation node", Value: entry["node"]}
		}
		n, ok := byID[ref]
		if !ok {
			return nil, parseErr(field+".node", "unknown node %d", ref)
		}
		if n.Op() != graph.OpSample {
			return nil, parseErr(field+".node", "node %d is %s, want SAMPLE", ref, n.Op())
		}
		v, ok := asFloat(entry["value"])
		if !ok {
			return nil, &ParseError{Field: field + ".value", Reason: "bad value for observation", Value: entry["value"]}
		}
		observations = append(observations, graph.Observation{Node: n, Value: v})
	}
	return observations, nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	}
	return nil, false
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
