/*
Copyright © 2026 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package topology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// ShortestPath returns the cheapest walk from one vertex to another
// along the edges of the graph, weighted by edge length, together with
// its length. An unreachable destination returns a nil path and an
// infinite length.
func (g *Graph) ShortestPath(from, to *Vertex) ([]*Vertex, float64, error) {
	if !g.hasVertex(from) || !g.hasVertex(to) {
		return nil, math.Inf(1), fmt.Errorf("topology: routing between vertices not in graph: %w", ErrInvalidInput)
	}
	heuristic := func(x, y graph.Node) float64 {
		px := g.vertices[x.ID()].Point
		py := g.vertices[y.ID()].Point
		return math.Hypot(px.X-py.X, px.Y-py.Y)
	}
	shortest, _ := path.AStar(simple.Node(from.index), simple.Node(to.index), g.weightedGraph(), heuristic)
	nodes, weight := shortest.To(int64(to.index))
	return g.nodeVertices(nodes), weight, nil
}

// A Router answers repeated shortest-path queries from a fixed origin.
// It snapshots the graph when created and goes stale when the graph is
// modified afterwards.
type Router struct {
	g        *Graph
	shortest path.Shortest
}

// RouteFrom computes the shortest paths from origin to everywhere it
// can reach.
func (g *Graph) RouteFrom(origin *Vertex) (*Router, error) {
	if !g.hasVertex(origin) {
		return nil, fmt.Errorf("topology: routing from vertex not in graph: %w", ErrInvalidInput)
	}
	return &Router{
		g:        g,
		shortest: path.DijkstraFrom(simple.Node(origin.index), g.weightedGraph()),
	}, nil
}

// To returns the path from the router's origin to v and its length, or
// a nil path and an infinite length if v cannot be reached.
func (r *Router) To(v *Vertex) ([]*Vertex, float64) {
	if !r.g.hasVertex(v) {
		return nil, math.Inf(1)
	}
	nodes, weight := r.shortest.To(int64(v.index))
	return r.g.nodeVertices(nodes), weight
}

// weightedGraph copies the vertices and edges into a gonum graph with
// vertex table indices as node IDs and edge lengths as weights.
func (g *Graph) weightedGraph() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, v := range g.vertices {
		wg.AddNode(simple.Node(v.index))
	}
	for _, e := range g.edges {
		a, b := e.Vertices()
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(a.index),
			T: simple.Node(b.index),
			W: e.Length(),
		})
	}
	return wg
}

func (g *Graph) nodeVertices(nodes []graph.Node) []*Vertex {
	if len(nodes) == 0 {
		return nil
	}
	vs := make([]*Vertex, len(nodes))
	for i, n := range nodes {
		vs[i] = g.vertices[n.ID()]
	}
	return vs
}
