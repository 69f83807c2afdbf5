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

	"github.com/ctessum/geom"
	polyclip "github.com/ctessum/polyclip-go"
)

// maxMergePasses bounds the merge work queue. Every requeued piece lost
// the area it shared with an existing face, so merges settle long before
// this; the cap turns a floating-point pathology into an error instead
// of a spin.
const maxMergePasses = 10000

type mergeItem struct {
	poly geom.Polygon
	tag  Tag
}

// MergeFace integrates p into the graph so that the faces continue to
// partition the union of old and new coverage, and stamps tag on
// everything the polygon contributes to.
//
// A polygon that overlaps nothing is added directly. Otherwise the first
// face with interior overlap is removed and replaced by the clip
// partition of the pair: the pieces both covered (tagged with both
// operands' tags) and the pieces only the old face covered (keeping its
// tag) are added back, while the pieces only p covers go on a work queue,
// since they may still overlap faces elsewhere. Faces that merely touch
// p along edges or corners are not overlaps and keep their geometry.
//
// If adding a piece fails the error is returned with the merge
// unfinished; the faces present at that point are still consistent and
// non-overlapping, but they cover less than the full union.
func (g *Graph) MergeFace(p geom.Polygon, tag Tag) error {
	if len(toClip(p)) == 0 {
		return fmt.Errorf("topology: merging polygon that encloses no area: %w", ErrInvalidInput)
	}
	queue := []mergeItem{{poly: p, tag: tag}}
	for passes := 0; len(queue) > 0; passes++ {
		if passes > maxMergePasses {
			return corruptf("merging polygon did not settle after %d passes", maxMergePasses)
		}
		item := queue[0]
		queue = queue[1:]

		target, internal := g.firstOverlap(item.poly)
		if target == nil {
			if err := g.addMergedPolygon(item.poly, item.tag); err != nil {
				return err
			}
			continue
		}
		oldTag := target.Tag
		oldPoly := target.Polygon()
		externalOld := clip(polyclip.DIFFERENCE, oldPoly, item.poly)
		externalNew := clip(polyclip.DIFFERENCE, item.poly, oldPoly)
		if err := g.RemoveFaceTree(target, true); err != nil {
			return err
		}
		for _, piece := range internal {
			if err := g.addMergedPolygon(piece, oldTag.Union(item.tag)); err != nil {
				return err
			}
		}
		for _, piece := range externalOld {
			if err := g.addMergedPolygon(piece, oldTag); err != nil {
				return err
			}
		}
		for _, piece := range externalNew {
			queue = append(queue, mergeItem{poly: piece, tag: item.tag})
		}
	}
	return nil
}

// firstOverlap returns the first face whose interior overlaps p, along
// with the overlap pieces, or nil when p is clear of (or only touching)
// the existing faces. Faces are tried in table order so repeated merges
// partition the same way.
func (g *Graph) firstOverlap(p geom.Polygon) (*Face, []geom.Polygon) {
	for _, f := range g.searchFaces(p.Bounds()) {
		pieces := clip(polyclip.INTERSECTION, f.Polygon(), p)
		var area float64
		for _, piece := range pieces {
			area += polygonArea(piece)
		}
		if area > areaEps {
			return f, pieces
		}
	}
	return nil, nil
}

// addMergedPolygon adds one partition piece as a face and stamps it.
func (g *Graph) addMergedPolygon(p geom.Polygon, tag Tag) error {
	f, err := g.AddPolygon(p)
	if err != nil {
		return err
	}
	f.stamp(tag)
	return nil
}

// stamp ORs tag into the face, its holes, and the vertices on their
// rings.
func (f *Face) stamp(tag Tag) {
	faces := append([]*Face{f}, f.Holes...)
	for _, fc := range faces {
		fc.Tag = fc.Tag.Union(tag)
		for _, h := range fc.Halfedges() {
			h.Destination.Tag = h.Destination.Tag.Union(tag)
		}
	}
}

// MergeLinearRing merges the face enclosed by r.
func (g *Graph) MergeLinearRing(r geom.Path, tag Tag) error {
	return g.MergeFace(geom.Polygon{r}, tag)
}

// MergePolygon merges p into the graph without creating overlapping
// faces.
func (g *Graph) MergePolygon(p geom.Polygon, tag Tag) error {
	return g.MergeFace(p, tag)
}

// MergeMultiPolygon merges every polygon of mp.
func (g *Graph) MergeMultiPolygon(mp geom.MultiPolygon, tag Tag) error {
	for _, p := range mp {
		if err := g.MergeFace(p, tag); err != nil {
			return err
		}
	}
	return nil
}

// MergeGeometry merges gm into the graph. Points become tagged vertices,
// polygons go through MergeFace, and collections are merged member by
// member.
func (g *Graph) MergeGeometry(gm geom.Geom, tag Tag) error {
	switch t := gm.(type) {
	case geom.Point:
		v := g.AddVertex(t)
		v.Tag = v.Tag.Union(tag)
	case geom.MultiPoint:
		for _, vx := range g.AddMultiPoint(t) {
			vx.Tag = vx.Tag.Union(tag)
		}
	case geom.Polygon:
		return g.MergeFace(t, tag)
	case geom.MultiPolygon:
		return g.MergeMultiPolygon(t, tag)
	case geom.GeometryCollection:
		for _, member := range t {
			if err := g.MergeGeometry(member, tag); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("topology: merging geometry of type %T: %w", gm, ErrInvalidInput)
	}
	return nil
}

// MergeGraph merges the coverage of o into g, retagging so the result
// classifies by operand: faces covered only by g end up with TagA, faces
// covered only by o with TagB, and overlap with both. o itself is not
// modified.
func (g *Graph) MergeGraph(o *Graph) error {
	if o == g {
		return fmt.Errorf("topology: merging graph with itself: %w", ErrInvalidInput)
	}
	g.Retag(TagA)
	for _, shell := range o.Shells() {
		if err := g.MergeFace(shell.Polygon(), TagB); err != nil {
			return err
		}
	}
	for _, v := range o.Vertices() {
		if v.Leaving == nil {
			nv := g.AddVertex(v.Point)
			nv.Tag = nv.Tag.Union(TagB)
		}
	}
	return nil
}

// Retag replaces the tag on every vertex and face of the graph.
func (g *Graph) Retag(tag Tag) {
	for _, v := range g.vertices {
		v.Tag = tag
	}
	for _, f := range g.faces {
		f.Tag = tag
	}
}

// FacesWithTag returns the faces carrying tag, in table order. Passing
// TagNone returns the untagged faces.
func (g *Graph) FacesWithTag(tag Tag) []*Face {
	var fs []*Face
	for _, f := range g.faces {
		if tag == TagNone {
			if f.Tag == TagNone {
				fs = append(fs, f)
			}
		} else if f.Tag.Has(tag) {
			fs = append(fs, f)
		}
	}
	return fs
}
