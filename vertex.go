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

import "github.com/ctessum/geom"

// A Vertex is a node of the topology graph, uniquely identified within a
// graph by its position: adding the same position twice yields the same
// vertex. The position must not be changed while the vertex is in a
// graph, because it is the deduplication key.
type Vertex struct {
	// Point is the vertex position.
	Point geom.Point

	// Leaving is one of the halfedges pointing away from this vertex, or
	// nil if the vertex is isolated.
	Leaving *Halfedge

	// Tag records merge provenance.
	Tag Tag

	index int
}

// Halfedges returns the halfedges leaving v, in rotational order starting
// from Leaving. It returns nil for an isolated vertex.
func (v *Vertex) Halfedges() []*Halfedge {
	if v.Leaving == nil {
		return nil
	}
	var out []*Halfedge
	h := v.Leaving
	for {
		out = append(out, h)
		h = h.Opposite.Next
		if h == v.Leaving {
			return out
		}
	}
}

// Faces returns the distinct faces incident to v.
func (v *Vertex) Faces() []*Face {
	var out []*Face
	for _, h := range v.Halfedges() {
		if h.Face == nil {
			continue
		}
		seen := false
		for _, f := range out {
			if f == h.Face {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, h.Face)
		}
	}
	return out
}

// Degree returns the number of edges incident to v.
func (v *Vertex) Degree() int { return len(v.Halfedges()) }

// OnBoundary reports whether v is isolated or touches an unfaced sector.
// Only boundary vertices can accept new edges without breaking the
// manifold property.
func (v *Vertex) OnBoundary() bool {
	if v.Leaving == nil {
		return true
	}
	for _, h := range v.Halfedges() {
		if h.Face == nil {
			return true
		}
	}
	return false
}
