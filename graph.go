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

// Package topology builds and edits planar polygonal coverages as a
// halfedge graph (a doubly connected edge list). Vertices are shared by
// position, edges are shared between adjacent polygons, and faces keep
// their boundaries walkable in both directions, which makes adjacency
// questions ("which polygons border this one?") cheap to answer and
// keeps coverages free of slivers and double-counted borders.
//
// Polygons that only touch are stitched together edge-for-edge by
// AddGeometry and its relatives. Polygons that overlap must go through
// the Merge functions, which clip overlapping regions apart so that face
// coverage stays disjoint, and can label the results by origin for
// boolean set operations.
package topology

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Version gives the version number of this library.
const Version = "0.1.0"

// Graph is a halfedge representation of a set of planar polygons.
// The zero value is not usable; use NewGraph.
//
// Graphs are not safe for concurrent mutation. Entities returned by
// graph methods remain owned by the graph: they are valid until removed,
// and their link fields should be treated as read-only outside this
// package.
type Graph struct {
	vertices  []*Vertex
	halfedges []*Halfedge
	edges     []*Edge
	faces     []*Face

	// vertexAt deduplicates vertices by exact position.
	vertexAt map[geom.Point]*Vertex

	// index holds shell faces for broad-phase overlap queries. The tree
	// has no delete operation, so removals mark it dirty and it is
	// rebuilt on the next search.
	index      *rtree.Rtree
	indexDirty bool
}

// NewGraph returns an empty topology graph.
func NewGraph() *Graph {
	return &Graph{
		vertexAt: make(map[geom.Point]*Vertex),
		index:    rtree.NewTree(25, 50),
	}
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumHalfedges returns the number of halfedges in the graph.
func (g *Graph) NumHalfedges() int { return len(g.halfedges) }

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int { return len(g.edges) }

// NumFaces returns the number of faces in the graph, counting hole faces.
func (g *Graph) NumFaces() int { return len(g.faces) }

// Vertices returns the graph's vertex table. The returned slice is owned
// by the graph and must not be modified.
func (g *Graph) Vertices() []*Vertex { return g.vertices }

// Halfedges returns the graph's halfedge table. The returned slice is
// owned by the graph and must not be modified.
func (g *Graph) Halfedges() []*Halfedge { return g.halfedges }

// Edges returns the graph's edge table. The returned slice is owned by
// the graph and must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// Faces returns the graph's face table, including hole faces. The
// returned slice is owned by the graph and must not be modified.
func (g *Graph) Faces() []*Face { return g.faces }

// Shells returns the faces that are not holes.
func (g *Graph) Shells() []*Face {
	var out []*Face
	for _, f := range g.faces {
		if f.Parent == nil {
			out = append(out, f)
		}
	}
	return out
}

// AddVertex returns the vertex at p, adding a new isolated vertex if none
// exists. Repeated calls with the same position return the same vertex.
func (g *Graph) AddVertex(p geom.Point) *Vertex {
	if v, ok := g.vertexAt[p]; ok {
		return v
	}
	v := &Vertex{Point: p, index: len(g.vertices)}
	g.vertices = append(g.vertices, v)
	g.vertexAt[p] = v
	return v
}

// VertexAt returns the vertex at exactly p, if one exists.
func (g *Graph) VertexAt(p geom.Point) (*Vertex, bool) {
	v, ok := g.vertexAt[p]
	return v, ok
}

// RemoveVertex removes v from the graph. A connected vertex is only
// removed when force is true: forcing first removes every face incident
// to v and then every remaining edge incident to v.
func (g *Graph) RemoveVertex(v *Vertex, force bool) error {
	if !g.hasVertex(v) {
		return fmt.Errorf("topology: removing vertex: %w", ErrInvalidInput)
	}
	if v.Leaving != nil {
		if !force {
			return fmt.Errorf("topology: removing vertex %v: %w", v.Point, ErrNotIsolated)
		}
		for _, f := range v.Faces() {
			if err := g.RemoveFace(f, false); err != nil {
				return err
			}
		}
		// Anything still attached is unfaced on both sides now.
		for v.Leaving != nil {
			g.deleteEdge(v.Leaving.Edge)
		}
	}
	g.removeVertexAt(v.index)
	return nil
}

func (g *Graph) hasVertex(v *Vertex) bool {
	return v != nil && v.index >= 0 && v.index < len(g.vertices) && g.vertices[v.index] == v
}

func (g *Graph) hasFace(f *Face) bool {
	return f != nil && f.index >= 0 && f.index < len(g.faces) && g.faces[f.index] == f
}

// newEdge creates the halfedge pair from a to b. The pair is linked as a
// two-halfedge cycle of its own until it is spliced into the fans at a
// and b.
func (g *Graph) newEdge(a, b *Vertex) *Halfedge {
	h := &Halfedge{Destination: b}
	o := &Halfedge{Destination: a}
	h.Opposite, o.Opposite = o, h
	h.Next, h.Previous = o, o
	o.Next, o.Previous = h, h
	e := &Edge{Halfedge: h}
	h.Edge, o.Edge = e, e
	h.index = len(g.halfedges)
	g.halfedges = append(g.halfedges, h)
	o.index = len(g.halfedges)
	g.halfedges = append(g.halfedges, o)
	e.index = len(g.edges)
	g.edges = append(g.edges, e)
	return h
}

// findHalfedge returns the halfedge from a to b if the edge exists. The
// fan rotation is capped by the graph size so a corrupt fan errors out in
// VerifyTopology instead of spinning here.
func (g *Graph) findHalfedge(a, b *Vertex) *Halfedge {
	if a.Leaving == nil {
		return nil
	}
	h := a.Leaving
	for i := 0; i <= len(g.halfedges); i++ {
		if h.Destination == b {
			return h
		}
		h = h.Opposite.Next
		if h == a.Leaving {
			return nil
		}
	}
	return nil
}

// findOpening rotates through the halfedges pointing at a vertex,
// starting from `from`, and returns the first one that bounds no face and
// is not excluded. It returns ErrNonManifold when the rotation wraps
// without finding an opening, and ErrCorrupt when the rotation does not
// wrap within the graph size.
func (g *Graph) findOpening(from *Halfedge, exclude ...*Halfedge) (*Halfedge, error) {
	h := from
	limit := len(g.halfedges) + 1
	for i := 0; i < limit; i++ {
		if h.Face == nil && !containsHalfedge(exclude, h) {
			return h, nil
		}
		h = h.Next.Opposite
		if h == from {
			return nil, ErrNonManifold
		}
	}
	return nil, ErrCorrupt
}

func containsHalfedge(hs []*Halfedge, h *Halfedge) bool {
	for _, h2 := range hs {
		if h2 == h {
			return true
		}
	}
	return false
}

// faceEntry adapts a Face for the spatial index: rtree.Insert demands the
// full geom.Geom interface although the tree itself only calls Bounds. The
// embedded polygon supplies the unused methods; Bounds stays the face's own.
type faceEntry struct {
	geom.Polygon
	face *Face
}

func (e faceEntry) Bounds() *geom.Bounds { return e.face.Bounds() }

// registerFace adds f to the face table and the spatial index.
func (g *Graph) registerFace(f *Face) {
	f.index = len(g.faces)
	g.faces = append(g.faces, f)
	g.index.Insert(faceEntry{f.Polygon(), f})
}

// FaceAt returns the shell face whose interior contains p, or nil if p
// falls outside every face or inside a hole. Points exactly on a shared
// edge resolve to the candidate with the lowest face table index.
func (g *Graph) FaceAt(p geom.Point) *Face {
	for _, f := range g.searchFaces(geom.NewBoundsPoint(p)) {
		if p.Within(f.Polygon()) != geom.Outside {
			return f
		}
	}
	return nil
}

// searchFaces returns the registered shell faces whose bounds overlap b,
// in face table order.
func (g *Graph) searchFaces(b *geom.Bounds) []*Face {
	if g.indexDirty {
		g.index = rtree.NewTree(25, 50)
		for _, f := range g.faces {
			if f.Parent == nil {
				g.index.Insert(faceEntry{f.Polygon(), f})
			}
		}
		g.indexDirty = false
	}
	var out []*Face
	for _, s := range g.index.SearchIntersect(b) {
		f := s.(faceEntry).face
		if f.index < 0 || f.Parent != nil {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func (g *Graph) removeVertexAt(i int) {
	v := g.vertices[i]
	last := len(g.vertices) - 1
	g.vertices[i] = g.vertices[last]
	g.vertices[i].index = i
	g.vertices = g.vertices[:last]
	delete(g.vertexAt, v.Point)
	v.index = -1
}

func (g *Graph) removeHalfedgeAt(i int) {
	h := g.halfedges[i]
	last := len(g.halfedges) - 1
	g.halfedges[i] = g.halfedges[last]
	g.halfedges[i].index = i
	g.halfedges = g.halfedges[:last]
	h.index = -1
}

func (g *Graph) removeEdgeAt(i int) {
	e := g.edges[i]
	last := len(g.edges) - 1
	g.edges[i] = g.edges[last]
	g.edges[i].index = i
	g.edges = g.edges[:last]
	e.index = -1
}

func (g *Graph) removeFaceAt(i int) {
	f := g.faces[i]
	last := len(g.faces) - 1
	g.faces[i] = g.faces[last]
	g.faces[i].index = i
	g.faces = g.faces[:last]
	f.index = -1
	g.indexDirty = true
}
