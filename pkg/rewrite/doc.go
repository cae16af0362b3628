// Package rewrite transforms values that hold graph nodes.
//
// Roots and Replace walk any Go value by reflection: node pointers, graphs,
// pointers, slices, arrays, maps, interfaces, exported struct fields and
// types implementing Rewritable. Everything that cannot hold a node passes
// through untouched. Dedup and Dedag are built on top of the walker, so a
// query list, a pair, or a whole *graph.Graph can be rewritten as easily as
// a single node.
package rewrite
