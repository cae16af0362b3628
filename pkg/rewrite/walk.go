package rewrite

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/aretw0/minibmg/pkg/graph"
)

// Rewritable is implemented by types that hold nodes in unexported state
// and know how to rebuild themselves, such as number.Traced.
type Rewritable interface {
	// Roots returns the nodes the value refers to.
	Roots() []*graph.Node
	// ReplaceNodes returns a copy of the value, of the same dynamic type,
	// with every node swapped by replace.
	ReplaceNodes(replace func(*graph.Node) *graph.Node) any
}

var (
	nodeType       = reflect.TypeFor[*graph.Node]()
	graphType      = reflect.TypeFor[*graph.Graph]()
	rewritableType = reflect.TypeFor[Rewritable]()
)

var containsCache sync.Map // reflect.Type -> bool

// CanContainNodes reports whether values of type t may refer to nodes.
// Interface types always may, since their dynamic value is unknown.
func CanContainNodes(t reflect.Type) bool {
	if v, ok := containsCache.Load(t); ok {
		return v.(bool)
	}
	res := canContain(t, map[reflect.Type]bool{})
	containsCache.Store(t, res)
	return res
}

func canContain(t reflect.Type, visiting map[reflect.Type]bool) bool {
	if t == nodeType || t == graphType || t.Implements(rewritableType) {
		return true
	}
	if visiting[t] {
		return false
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return canContain(t.Elem(), visiting)
	case reflect.Map:
		return canContain(t.Key(), visiting) || canContain(t.Elem(), visiting)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() && canContain(f.Type, visiting) {
				return true
			}
		}
	}
	return false
}

// IsRewritable reports whether values of type T may refer to nodes.
func IsRewritable[T any]() bool {
	return CanContainNodes(reflect.TypeFor[T]())
}

// ref identifies a pointer or map by address and type. Two values of
// different types may share an address, as a struct and its first field do.
type ref struct {
	addr uintptr
	typ  reflect.Type
}

func refOf(v reflect.Value) ref { return ref{addr: v.Pointer(), typ: v.Type()} }

type visitor struct {
	node  func(*graph.Node)
	graph func(*graph.Graph)
	// active holds the pointers and maps on the current path, so a value
	// that refers back to itself is walked once.
	active map[ref]bool
}

func (w *visitor) enter(v reflect.Value) bool {
	r := refOf(v)
	if w.active[r] {
		return false
	}
	if w.active == nil {
		w.active = make(map[ref]bool)
	}
	w.active[r] = true
	return true
}

func (w *visitor) leave(v reflect.Value) { delete(w.active, refOf(v)) }

func (w *visitor) walk(v reflect.Value) {
	if !v.IsValid() || !CanContainNodes(v.Type()) {
		return
	}
	switch {
	case v.Type() == nodeType:
		if !v.IsNil() {
			w.node(v.Interface().(*graph.Node))
		}
		return
	case v.Type() == graphType:
		if !v.IsNil() {
			g := v.Interface().(*graph.Graph)
			if w.graph != nil {
				w.graph(g)
			}
			for _, n := range g.Roots() {
				w.node(n)
			}
		}
		return
	case v.Type().Implements(rewritableType) && v.CanInterface():
		if nilable(v) && v.IsNil() {
			return
		}
		for _, n := range v.Interface().(Rewritable).Roots() {
			w.node(n)
		}
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() && w.enter(v) {
			w.walk(v.Elem())
			w.leave(v)
		}
	case reflect.Interface:
		if !v.IsNil() {
			w.walk(v.Elem())
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			w.walk(v.Index(i))
		}
	case reflect.Map:
		if v.IsNil() || !w.enter(v) {
			return
		}
		for _, k := range sortedKeys(v) {
			w.walk(k)
			w.walk(v.MapIndex(k))
		}
		w.leave(v)
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				w.walk(v.Field(i))
			}
		}
	}
}

func nilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// sortedKeys orders map keys by their printed form so walks are
// deterministic.
func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	slices.SortStableFunc(keys, func(a, b reflect.Value) int {
		sa, sb := fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface())
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	return keys
}

// Roots returns every node value refers to, in walk order. A node appears
// once per reference. A pointer or map that refers back to itself is not
// followed a second time.
func Roots(value any) []*graph.Node {
	var roots []*graph.Node
	(&visitor{node: func(n *graph.Node) { roots = append(roots, n) }}).walk(reflect.ValueOf(value))
	return roots
}

func containsGraph(value any) bool {
	found := false
	(&visitor{
		node:  func(*graph.Node) {},
		graph: func(*graph.Graph) { found = true },
	}).walk(reflect.ValueOf(value))
	return found
}

// Replace returns a copy of value in which every node n is replaced by
// replace(n). The copy mirrors value's shape exactly; parts that cannot hold
// nodes are shared with the original. Pointers and maps reached more than
// once, including through a cycle, are copied once and the copy is shared
// the same way. Graphs are rebuilt over the replaced queries and
// observations.
//
// Replace panics with an ErrInvalidArgument error when two map keys holding
// nodes become equal after replacement.
func Replace[T any](value T, replace func(*graph.Node) *graph.Node) T {
	var result T
	v := reflect.ValueOf(&value).Elem()
	r := replacer{fn: replace, copies: make(map[ref]reflect.Value)}
	reflect.ValueOf(&result).Elem().Set(r.value(v))
	return result
}

type replacer struct {
	fn     func(*graph.Node) *graph.Node
	copies map[ref]reflect.Value
}

func (r *replacer) value(v reflect.Value) reflect.Value {
	replace := r.fn
	t := v.Type()
	if !CanContainNodes(t) {
		return v
	}
	switch {
	case t == nodeType:
		if v.IsNil() {
			return v
		}
		return reflect.ValueOf(replace(v.Interface().(*graph.Node)))
	case t == graphType:
		if v.IsNil() {
			return v
		}
		return reflect.ValueOf(replaceGraph(v.Interface().(*graph.Graph), replace))
	case t.Implements(rewritableType) && v.CanInterface():
		if nilable(v) && v.IsNil() {
			return v
		}
		out := reflect.ValueOf(v.Interface().(Rewritable).ReplaceNodes(replace))
		if !out.IsValid() || !out.Type().AssignableTo(t) {
			panic(graph.Internal("rewrite.replace", "%s.ReplaceNodes returned %v", t, out.Type()))
		}
		return out
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		if out, ok := r.copies[refOf(v)]; ok {
			return out
		}
		out := reflect.New(t.Elem())
		r.copies[refOf(v)] = out
		out.Elem().Set(r.value(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(t).Elem()
		out.Set(r.value(v.Elem()))
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(r.value(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(t).Elem()
		for i := range v.Len() {
			out.Index(i).Set(r.value(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		if out, ok := r.copies[refOf(v)]; ok {
			return out
		}
		out := reflect.MakeMapWithSize(t, v.Len())
		r.copies[refOf(v)] = out
		for _, k := range sortedKeys(v) {
			key := r.value(k)
			if out.MapIndex(key).IsValid() {
				panic(&graph.Error{
					Kind: graph.ErrInvalidArgument,
					Op:   "rewrite.replace",
					Msg:  fmt.Sprintf("map keys collide at %v after replacement", key.Interface()),
				})
			}
			out.SetMapIndex(key, r.value(v.MapIndex(k)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(t).Elem()
		out.Set(v)
		for i := range v.NumField() {
			f := t.Field(i)
			if f.IsExported() && CanContainNodes(f.Type) {
				out.Field(i).Set(r.value(v.Field(i)))
			}
		}
		return out
	}
	return v
}

func replaceGraph(g *graph.Graph, replace func(*graph.Node) *graph.Node) *graph.Graph {
	queries := g.Queries()
	for i, q := range queries {
		queries[i] = replace(q)
	}
	observations := g.Observations()
	for i, o := range observations {
		observations[i].Node = replace(o.Node)
	}
	out, err := graph.Create(queries, observations)
	if err != nil {
		panic(err)
	}
	return out
}
