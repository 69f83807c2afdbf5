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

// VerifyTopology checks the structural invariants of the graph and
// returns an ErrCorrupt error naming the first entity that breaks one,
// or nil if everything holds: halfedge pairs mate, next and previous
// links agree, cycles close and share one face, fans close around their
// vertices, the entity tables and the position lookup agree, and the
// face tree of parents and holes is mutual.
func (g *Graph) VerifyTopology() error {
	if len(g.vertexAt) != len(g.vertices) {
		return corruptf("position lookup has %d entries for %d vertices", len(g.vertexAt), len(g.vertices))
	}
	for i, v := range g.vertices {
		if v.index != i {
			return corruptf("vertex %v has index %d in table slot %d", v.Point, v.index, i)
		}
		if g.vertexAt[v.Point] != v {
			return corruptf("vertex %v is not its position's lookup entry", v.Point)
		}
		if v.Leaving != nil {
			if !g.hasHalfedge(v.Leaving) {
				return corruptf("vertex %v leaves through a halfedge not in the graph", v.Point)
			}
			if v.Leaving.Origin() != v {
				return corruptf("vertex %v leaves through a halfedge of %v", v.Point, v.Leaving.Origin().Point)
			}
		}
	}

	for i, h := range g.halfedges {
		if h.index != i {
			return corruptf("halfedge %d has index %d", i, h.index)
		}
		if h.Opposite == nil || h.Opposite == h || h.Opposite.Opposite != h {
			return corruptf("halfedge %d is not mated with its opposite", i)
		}
		if h.Next == nil || h.Next.Previous != h {
			return corruptf("halfedge %d disagrees with its next about order", i)
		}
		if h.Previous == nil || h.Previous.Next != h {
			return corruptf("halfedge %d disagrees with its previous about order", i)
		}
		if h.Next.Face != h.Face {
			return corruptf("halfedge %d changes face along its cycle", i)
		}
		if h.Next.Origin() != h.Destination {
			return corruptf("halfedge %d ends at %v but its next leaves from %v",
				i, h.Destination.Point, h.Next.Origin().Point)
		}
		if !g.hasVertex(h.Destination) {
			return corruptf("halfedge %d ends at a vertex not in the graph", i)
		}
		if h.Edge == nil || !g.hasEdge(h.Edge) {
			return corruptf("halfedge %d belongs to an edge not in the graph", i)
		}
		if h.Edge.Halfedge != h && h.Edge.Halfedge != h.Opposite {
			return corruptf("halfedge %d belongs to an edge that does not own it", i)
		}
		if h.Face != nil && !g.hasFace(h.Face) {
			return corruptf("halfedge %d bounds a face not in the graph", i)
		}
		if !g.fanReaches(h) {
			return corruptf("halfedge %d is not in the fan of its origin %v", i, h.Origin().Point)
		}
	}

	for i, e := range g.edges {
		if e.index != i {
			return corruptf("edge %d has index %d", i, e.index)
		}
		if e.Halfedge == nil || !g.hasHalfedge(e.Halfedge) {
			return corruptf("edge %d owns a halfedge not in the graph", i)
		}
		if e.Halfedge.Edge != e || e.Halfedge.Opposite.Edge != e {
			return corruptf("edge %d is not referenced by both its halfedges", i)
		}
	}

	stamps := make(map[*Face]int)
	for _, h := range g.halfedges {
		if h.Face != nil {
			stamps[h.Face]++
		}
	}
	for i, f := range g.faces {
		if f.index != i {
			return corruptf("face %d has index %d", i, f.index)
		}
		if f.Halfedge == nil || !g.hasHalfedge(f.Halfedge) {
			return corruptf("face %d starts at a halfedge not in the graph", i)
		}
		n, ok := g.cycleLen(f)
		if !ok {
			return corruptf("face %d boundary does not close", i)
		}
		if n < 3 {
			return corruptf("face %d has only %d edges", i, n)
		}
		if stamps[f] != n {
			return corruptf("face %d boundary has %d halfedges but %d claim it", i, n, stamps[f])
		}
		if f.Parent != nil {
			if !g.hasFace(f.Parent) {
				return corruptf("face %d is a hole of a face not in the graph", i)
			}
			if f.Parent.Parent != nil {
				return corruptf("face %d is a hole of a hole", i)
			}
			if !containsFace(f.Parent.Holes, f) {
				return corruptf("face %d is not among its parent's holes", i)
			}
		}
		for _, hole := range f.Holes {
			if !g.hasFace(hole) {
				return corruptf("face %d has a hole not in the graph", i)
			}
			if hole.Parent != f {
				return corruptf("face %d has a hole that belongs to another face", i)
			}
		}
	}
	return nil
}

func (g *Graph) hasHalfedge(h *Halfedge) bool {
	return h != nil && h.index >= 0 && h.index < len(g.halfedges) && g.halfedges[h.index] == h
}

func (g *Graph) hasEdge(e *Edge) bool {
	return e != nil && e.index >= 0 && e.index < len(g.edges) && g.edges[e.index] == e
}

// fanReaches reports whether h comes up when rotating through the
// outgoing halfedges of its origin.
func (g *Graph) fanReaches(h *Halfedge) bool {
	v := h.Origin()
	if v.Leaving == nil {
		return false
	}
	o := v.Leaving
	for i := 0; i <= len(g.halfedges); i++ {
		if o == h {
			return true
		}
		o = o.Opposite.Next
		if o == v.Leaving {
			return false
		}
	}
	return false
}

// cycleLen walks the boundary of f, checking that every halfedge on it
// carries f, and returns the cycle length. ok is false if the cycle does
// not come back around within the graph size.
func (g *Graph) cycleLen(f *Face) (n int, ok bool) {
	h := f.Halfedge
	for i := 0; i <= len(g.halfedges); i++ {
		if h.Face != f {
			return n, false
		}
		n++
		h = h.Next
		if h == f.Halfedge {
			return n, true
		}
	}
	return n, false
}

func containsFace(fs []*Face, f *Face) bool {
	for _, f2 := range fs {
		if f2 == f {
			return true
		}
	}
	return false
}
