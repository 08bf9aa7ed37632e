// Package render emits Graphviz DOT for a program and rasterizes DOT to SVG.
//
// Two layouts are available. [StyleFlowchart] lays the graph out top to
// bottom with a shape per node kind. [StyleSwimlane] lays it out left to
// right and groups laned nodes into cluster subgraphs, one per lane.
//
// Condensed nodes (kind scc) are drawn dashed with their member ids in the
// label. Edge labels come from the link outcome and label.
//
// [SVG] uses the WebAssembly build of Graphviz bundled with go-graphviz, so
// no system Graphviz installation is needed.
package render
