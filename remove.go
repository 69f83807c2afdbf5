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

import "fmt"

// RemoveFace deletes f from the graph. Edges of f that are shared with a
// neighboring face stay behind as part of that face; edges left unfaced
// on both sides are deleted. When clean is true, vertices of f that end
// up with no edges are deleted too, otherwise they remain as isolated
// vertices. Holes of f are not removed: they lose their parent and become
// independent faces (use RemoveFaceTree to take them down together).
func (g *Graph) RemoveFace(f *Face, clean bool) error {
	if !g.hasFace(f) {
		return fmt.Errorf("topology: removing face not in graph: %w", ErrInvalidInput)
	}
	for _, hole := range f.Holes {
		hole.Parent = nil
	}
	f.Holes = nil
	if f.Parent != nil {
		f.Parent.removeHole(f)
		f.Parent = nil
	}

	cycle := f.Halfedges()
	for _, h := range cycle {
		h.Face = nil
	}
	g.removeFaceAt(f.index)

	vs := make([]*Vertex, len(cycle))
	for i, h := range cycle {
		vs[i] = h.Destination
	}
	for _, h := range cycle {
		if h.Opposite.Face == nil {
			g.deleteEdge(h.Edge)
		}
	}
	if clean {
		for _, v := range vs {
			if g.hasVertex(v) && v.Leaving == nil {
				g.removeVertexAt(v.index)
			}
		}
	}
	return nil
}

// RemoveFaceTree deletes f together with its holes.
func (g *Graph) RemoveFaceTree(f *Face, clean bool) error {
	if !g.hasFace(f) {
		return fmt.Errorf("topology: removing face not in graph: %w", ErrInvalidInput)
	}
	for len(f.Holes) > 0 {
		if err := g.RemoveFace(f.Holes[0], clean); err != nil {
			return err
		}
	}
	return g.RemoveFace(f, clean)
}

// deleteEdge unlinks e from the fans at both endpoints and deletes it
// with its two halfedges. Both sides must be unfaced.
func (g *Graph) deleteEdge(e *Edge) {
	h := e.Halfedge
	o := h.Opposite
	v := h.Destination
	u := o.Destination

	if h.Next == o { // e is the only edge at v
		v.Leaving = nil
	} else {
		hn, op := h.Next, o.Previous
		op.Next = hn
		hn.Previous = op
		if v.Leaving == o {
			v.Leaving = hn
		}
	}
	if o.Next == h { // e is the only edge at u
		u.Leaving = nil
	} else {
		on, hp := o.Next, h.Previous
		hp.Next = on
		on.Previous = hp
		if u.Leaving == h {
			u.Leaving = on
		}
	}
	g.removeHalfedgeAt(h.index)
	g.removeHalfedgeAt(o.index)
	g.removeEdgeAt(e.index)
}
