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

	"github.com/ctessum/geom"
)

// AddFace builds a face from an outer ring and optional hole rings,
// creating or reusing the vertices at the ring coordinates. Rings may
// be in either orientation and may carry a closing repeat. If any ring
// fails, faces and vertices created by the call are taken back out
// before the error is returned.
func (g *Graph) AddFace(shell geom.Path, holes ...geom.Path) (*Face, error) {
	before := len(g.vertices)
	f, err := g.addRing(shell)
	if err != nil {
		g.rollbackVertices(before)
		return nil, err
	}
	for _, hole := range holes {
		hf, err := g.addRing(hole)
		if err != nil {
			for len(f.Holes) > 0 {
				g.RemoveFace(f.Holes[0], false)
			}
			g.RemoveFace(f, false)
			g.rollbackVertices(before)
			return nil, err
		}
		hf.Parent = f
		f.Holes = append(f.Holes, hf)
	}
	return f, nil
}

// addRing normalizes r and creates a face from its corners.
func (g *Graph) addRing(r geom.Path) (*Face, error) {
	ring, err := normalizeRing(r)
	if err != nil {
		return nil, err
	}
	vs := make([]*Vertex, len(ring))
	for i, p := range ring {
		vs[i] = g.AddVertex(p)
	}
	return g.CreateFace(vs)
}

// rollbackVertices removes the vertices appended after the table had n
// entries, keeping any that picked up edges in the meantime.
func (g *Graph) rollbackVertices(n int) {
	for i := len(g.vertices) - 1; i >= n; i-- {
		if g.vertices[i].Leaving == nil {
			g.removeVertexAt(i)
		}
	}
}

// normalizeRing prepares an external ring for CreateFace: consecutive
// duplicate points and the closing repeat are dropped, and clockwise
// rings are reversed, leaving an open counterclockwise ring of at least
// three distinct corners.
func normalizeRing(r geom.Path) (geom.Path, error) {
	ring := make(geom.Path, 0, len(r))
	for _, p := range r {
		if len(ring) == 0 || ring[len(ring)-1] != p {
			ring = append(ring, p)
		}
	}
	for len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("topology: ring has %d distinct points: %w", len(ring), ErrInvalidInput)
	}
	a := ringArea(ring)
	if math.Abs(a) < areaEps {
		return nil, fmt.Errorf("topology: ring encloses no area: %w", ErrInvalidInput)
	}
	if a < 0 {
		reversePath(ring)
	}
	return ring, nil
}

// AddPoint adds the vertex at p, or returns the one already there.
func (g *Graph) AddPoint(p geom.Point) *Vertex {
	return g.AddVertex(p)
}

// AddMultiPoint adds a vertex for every point of mp.
func (g *Graph) AddMultiPoint(mp geom.MultiPoint) []*Vertex {
	vs := make([]*Vertex, len(mp))
	for i, p := range mp {
		vs[i] = g.AddVertex(p)
	}
	return vs
}

// AddLinearRing adds the face enclosed by r.
func (g *Graph) AddLinearRing(r geom.Path) (*Face, error) {
	return g.AddFace(r)
}

// AddPolygon adds the face enclosed by the first ring of p, with the
// remaining rings as its holes.
func (g *Graph) AddPolygon(p geom.Polygon) (*Face, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("topology: adding empty polygon: %w", ErrInvalidInput)
	}
	return g.AddFace(p[0], p[1:]...)
}

// AddMultiPolygon adds a face for every polygon of mp. On failure the
// faces added so far stay in the graph and are returned with the error.
func (g *Graph) AddMultiPolygon(mp geom.MultiPolygon) ([]*Face, error) {
	fs := make([]*Face, 0, len(mp))
	for _, p := range mp {
		f, err := g.AddPolygon(p)
		if err != nil {
			return fs, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// AddGeometry adds gm to the graph without checking for overlap with
// existing faces. Points become vertices and polygons become faces;
// collections are added member by member. Geometry kinds with no
// topological meaning here (lines, bounds) are rejected.
func (g *Graph) AddGeometry(gm geom.Geom) error {
	switch t := gm.(type) {
	case geom.Point:
		g.AddVertex(t)
	case geom.MultiPoint:
		g.AddMultiPoint(t)
	case geom.Polygon:
		_, err := g.AddPolygon(t)
		return err
	case geom.MultiPolygon:
		_, err := g.AddMultiPolygon(t)
		return err
	case geom.GeometryCollection:
		for _, member := range t {
			if err := g.AddGeometry(member); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("topology: adding geometry of type %T: %w", gm, ErrInvalidInput)
	}
	return nil
}

// Geometry returns the coverage of the graph: the polygon of every
// top-level face, as a MultiPolygon when there is more than one. A graph
// with no faces returns nil.
func (g *Graph) Geometry() geom.Geom {
	shells := g.Shells()
	switch len(shells) {
	case 0:
		return nil
	case 1:
		return shells[0].Polygon()
	}
	mp := make(geom.MultiPolygon, len(shells))
	for i, f := range shells {
		mp[i] = f.Polygon()
	}
	return mp
}
