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
	"math"

	"github.com/ctessum/geom"
	polyclip "github.com/ctessum/polyclip-go"
)

// areaEps is the area below which a ring or an overlap is treated as
// empty. Polygons that merely touch along edges or at vertices produce
// intersections smaller than this.
const areaEps = 1e-9

// clip runs the boolean operation of a against b and regroups the rings
// the clipper returns into separate polygons, one per outer ring, with
// the holes attached to the outer ring that contains them.
func clip(op polyclip.Op, a, b geom.Polygon) []geom.Polygon {
	return assemblePolygons(toClip(a).Construct(op, toClip(b)))
}

// toClip converts p for the clipper, dropping closing repeats and
// degenerate rings.
func toClip(p geom.Polygon) polyclip.Polygon {
	o := make(polyclip.Polygon, 0, len(p))
	for _, r := range p {
		if len(r) > 1 && r[0] == r[len(r)-1] {
			r = r[:len(r)-1]
		}
		if len(r) < 3 {
			continue
		}
		c := make(polyclip.Contour, len(r))
		for j, pt := range r {
			c[j] = polyclip.Point(pt)
		}
		o = append(o, c)
	}
	return o
}

// assemblePolygons sorts the rings of a clipper result into polygons.
// A ring nested inside an even number of other rings is an outer ring;
// the rest are holes, each belonging to the smallest ring that contains
// it. Outer rings come back counterclockwise, holes clockwise.
func assemblePolygons(pc polyclip.Polygon) []geom.Polygon {
	type ring struct {
		path  geom.Path
		area  float64
		depth int
	}
	var rings []*ring
	for _, c := range pc {
		path := make(geom.Path, len(c))
		for i, pt := range c {
			path[i] = geom.Point(pt)
		}
		if math.Abs(ringArea(path)) < areaEps {
			continue
		}
		rings = append(rings, &ring{path: path, area: math.Abs(ringArea(path))})
	}
	for i, r := range rings {
		for j, r2 := range rings {
			if i != j && ringContains(r2.path, r.path) {
				r.depth++
			}
		}
	}

	var out []geom.Polygon
	var shells []*ring
	for _, r := range rings {
		if r.depth%2 != 0 {
			continue
		}
		if ringArea(r.path) < 0 {
			reversePath(r.path)
		}
		shells = append(shells, r)
		out = append(out, geom.Polygon{r.path})
	}
	for _, r := range rings {
		if r.depth%2 == 0 {
			continue
		}
		best := -1
		for i, s := range shells {
			if ringContains(s.path, r.path) && (best < 0 || s.area < shells[best].area) {
				best = i
			}
		}
		if best < 0 {
			continue
		}
		if ringArea(r.path) > 0 {
			reversePath(r.path)
		}
		out[best] = append(out[best], r.path)
	}
	return out
}

// ringContains reports whether inner lies inside outer. Vertices on the
// edge of outer are skipped; a ring whose vertices all lie on the edge
// is not considered contained.
func ringContains(outer, inner geom.Path) bool {
	pg := geom.Polygon{outer}
	for _, pt := range inner {
		switch pt.Within(pg) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

// polygonArea returns the net area of p, counting clockwise rings as
// holes.
func polygonArea(p geom.Polygon) float64 {
	var a float64
	for _, r := range p {
		a += ringArea(r)
	}
	return a
}
