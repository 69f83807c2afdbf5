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

// A Halfedge is one direction of an edge. The two halfedges of an edge
// are mated through Opposite. Halfedges bounding the same face form a
// cycle through Next; halfedges with a nil Face bound the unfaced
// exterior and keep cycles of their own, so the boundary of the graph is
// always walkable.
type Halfedge struct {
	// Destination is the vertex this halfedge points to.
	Destination *Vertex

	// Opposite is the mate pointing in the reverse direction.
	Opposite *Halfedge

	// Next and Previous link the cycle this halfedge belongs to.
	Next, Previous *Halfedge

	// Face is the face bounded by this halfedge, or nil on an unfaced
	// side.
	Face *Face

	// Edge is the undirected edge this halfedge is half of.
	Edge *Edge

	index int
}

// Origin returns the vertex this halfedge leaves from.
func (h *Halfedge) Origin() *Vertex { return h.Opposite.Destination }

// IsBoundary reports whether h has no face on its side.
func (h *Halfedge) IsBoundary() bool { return h.Face == nil }

// Points returns the origin and destination positions of h.
func (h *Halfedge) Points() (from, to geom.Point) {
	return h.Origin().Point, h.Destination.Point
}
