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

import "math"

// An Edge is an undirected connection between two vertices, realized as a
// mated pair of halfedges. An edge borders at most two faces, one per
// halfedge, which is what keeps the graph manifold.
type Edge struct {
	// Halfedge is one of the two mated halfedges.
	Halfedge *Halfedge

	index int
}

// Vertices returns the two endpoints of e.
func (e *Edge) Vertices() (*Vertex, *Vertex) {
	return e.Halfedge.Origin(), e.Halfedge.Destination
}

// Faces returns the faces on either side of e; one or both may be nil.
func (e *Edge) Faces() (*Face, *Face) {
	return e.Halfedge.Face, e.Halfedge.Opposite.Face
}

// OnBoundary reports whether e lacks a face on at least one side.
func (e *Edge) OnBoundary() bool {
	f1, f2 := e.Faces()
	return f1 == nil || f2 == nil
}

// Length returns the Euclidean length of e.
func (e *Edge) Length() float64 {
	from, to := e.Halfedge.Points()
	return math.Hypot(to.X-from.X, to.Y-from.Y)
}
