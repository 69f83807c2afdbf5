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

// A Face is a region bounded by a single counterclockwise cycle of
// halfedges. A face with a non-nil Parent marks a hole carved out of its
// parent's polygon; the hole region is bounded by the hole face's own
// cycle rather than being woven into the parent's cycle.
type Face struct {
	// Halfedge is an entry point into the boundary cycle.
	Halfedge *Halfedge

	// Parent is the face this face is a hole of, or nil for a shell.
	Parent *Face

	// Holes lists the hole faces carved out of this face.
	Holes []*Face

	// Tag records merge provenance.
	Tag Tag

	index int
}

// IsHole reports whether f is a hole of another face.
func (f *Face) IsHole() bool { return f.Parent != nil }

// Halfedges returns the boundary cycle of f in order, starting from
// f.Halfedge.
func (f *Face) Halfedges() []*Halfedge {
	var out []*Halfedge
	h := f.Halfedge
	for {
		out = append(out, h)
		h = h.Next
		if h == f.Halfedge {
			return out
		}
	}
}

// Vertices returns the boundary vertices of f in cycle order.
func (f *Face) Vertices() []*Vertex {
	hs := f.Halfedges()
	out := make([]*Vertex, len(hs))
	for i, h := range hs {
		out[i] = h.Destination
	}
	return out
}

// Ring returns the boundary of f as an open counterclockwise ring,
// starting at the origin of f.Halfedge.
func (f *Face) Ring() geom.Path {
	hs := f.Halfedges()
	ring := make(geom.Path, len(hs))
	for i, h := range hs {
		ring[i] = h.Origin().Point
	}
	return ring
}

// Polygon returns the polygon covered by f: its boundary ring followed by
// the rings of its holes. Hole rings are reversed to clockwise so signed
// area consumers treat them as holes.
func (f *Face) Polygon() geom.Polygon {
	p := geom.Polygon{f.Ring()}
	for _, hole := range f.Holes {
		r := hole.Ring()
		reversePath(r)
		p = append(p, r)
	}
	return p
}

// Bounds returns the bounding box of f's outer ring. This is the method
// that places faces in the graph's spatial index.
func (f *Face) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, h := range f.Halfedges() {
		b.Extend(geom.NewBoundsPoint(h.Destination.Point))
	}
	return b
}

// Area returns the area covered by f: its ring area minus the area of its
// holes.
func (f *Face) Area() float64 {
	a := ringArea(f.Ring())
	for _, hole := range f.Holes {
		a -= ringArea(hole.Ring())
	}
	return a
}

// Perimeter returns the length of f's boundary ring.
func (f *Face) Perimeter() float64 {
	var l float64
	for _, h := range f.Halfedges() {
		l += h.Edge.Length()
	}
	return l
}

func (f *Face) removeHole(hole *Face) {
	for i, h := range f.Holes {
		if h == hole {
			f.Holes = append(f.Holes[:i], f.Holes[i+1:]...)
			return
		}
	}
}

// ringArea returns the signed area of an open ring: positive for
// counterclockwise winding.
func ringArea(r geom.Path) float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// reversePath reverses r in place.
func reversePath(r geom.Path) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
