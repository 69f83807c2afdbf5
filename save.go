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
	"encoding/gob"
	"fmt"
	"io"

	"github.com/ctessum/geom"
)

// The gob snapshot stores entity references as table indices, with -1
// for nil, because the linked entities point at each other in cycles.

type savedGraph struct {
	Vertices  []savedVertex
	Halfedges []savedHalfedge
	Edges     []savedEdge
	Faces     []savedFace
}

type savedVertex struct {
	Point   geom.Point
	Leaving int
	Tag     Tag
}

type savedHalfedge struct {
	Destination, Opposite, Next, Previous, Face, Edge int
}

type savedEdge struct {
	Halfedge int
}

type savedFace struct {
	Halfedge, Parent int
	Holes            []int
	Tag              Tag
}

// Save writes the graph to w as a gob stream (format description at
// https://golang.org/pkg/encoding/gob/).
func (g *Graph) Save(w io.Writer) error {
	s := savedGraph{
		Vertices:  make([]savedVertex, len(g.vertices)),
		Halfedges: make([]savedHalfedge, len(g.halfedges)),
		Edges:     make([]savedEdge, len(g.edges)),
		Faces:     make([]savedFace, len(g.faces)),
	}
	for i, v := range g.vertices {
		s.Vertices[i] = savedVertex{Point: v.Point, Leaving: halfedgeIndex(v.Leaving), Tag: v.Tag}
	}
	for i, h := range g.halfedges {
		s.Halfedges[i] = savedHalfedge{
			Destination: h.Destination.index,
			Opposite:    halfedgeIndex(h.Opposite),
			Next:        halfedgeIndex(h.Next),
			Previous:    halfedgeIndex(h.Previous),
			Face:        faceIndex(h.Face),
			Edge:        h.Edge.index,
		}
	}
	for i, e := range g.edges {
		s.Edges[i] = savedEdge{Halfedge: e.Halfedge.index}
	}
	for i, f := range g.faces {
		sf := savedFace{Halfedge: f.Halfedge.index, Parent: faceIndex(f.Parent), Tag: f.Tag}
		for _, hole := range f.Holes {
			sf.Holes = append(sf.Holes, hole.index)
		}
		s.Faces[i] = sf
	}
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("topology: saving graph: %w", err)
	}
	return nil
}

// Load reads a graph previously written by Save and checks it with
// VerifyTopology before returning it.
func Load(r io.Reader) (*Graph, error) {
	var s savedGraph
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("topology: loading graph: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}

	g := NewGraph()
	g.vertices = make([]*Vertex, len(s.Vertices))
	for i := range s.Vertices {
		g.vertices[i] = &Vertex{index: i}
	}
	g.halfedges = make([]*Halfedge, len(s.Halfedges))
	for i := range s.Halfedges {
		g.halfedges[i] = &Halfedge{index: i}
	}
	g.edges = make([]*Edge, len(s.Edges))
	for i := range s.Edges {
		g.edges[i] = &Edge{index: i}
	}
	g.faces = make([]*Face, len(s.Faces))
	for i := range s.Faces {
		g.faces[i] = &Face{index: i}
	}

	for i, sv := range s.Vertices {
		v := g.vertices[i]
		v.Point, v.Tag = sv.Point, sv.Tag
		if sv.Leaving >= 0 {
			v.Leaving = g.halfedges[sv.Leaving]
		}
		g.vertexAt[v.Point] = v
	}
	for i, sh := range s.Halfedges {
		h := g.halfedges[i]
		h.Destination = g.vertices[sh.Destination]
		h.Opposite = g.halfedges[sh.Opposite]
		h.Next = g.halfedges[sh.Next]
		h.Previous = g.halfedges[sh.Previous]
		if sh.Face >= 0 {
			h.Face = g.faces[sh.Face]
		}
		h.Edge = g.edges[sh.Edge]
	}
	for i, se := range s.Edges {
		g.edges[i].Halfedge = g.halfedges[se.Halfedge]
	}
	for i, sf := range s.Faces {
		f := g.faces[i]
		f.Halfedge = g.halfedges[sf.Halfedge]
		f.Tag = sf.Tag
		if sf.Parent >= 0 {
			f.Parent = g.faces[sf.Parent]
		}
		for _, hi := range sf.Holes {
			f.Holes = append(f.Holes, g.faces[hi])
		}
		g.index.Insert(faceEntry{f.Polygon(), f})
	}

	if err := g.VerifyTopology(); err != nil {
		return nil, fmt.Errorf("topology: loading graph: %w", err)
	}
	return g, nil
}

// check bounds-checks every reference in the snapshot so the wiring
// pass cannot index outside the tables.
func (s *savedGraph) check() error {
	nv, nh, ne, nf := len(s.Vertices), len(s.Halfedges), len(s.Edges), len(s.Faces)
	ref := func(i, n int, required bool, what string) error {
		if i == -1 && !required {
			return nil
		}
		if i < 0 || i >= n {
			return corruptf("loading graph: %s reference %d out of range", what, i)
		}
		return nil
	}
	for _, sv := range s.Vertices {
		if err := ref(sv.Leaving, nh, false, "halfedge"); err != nil {
			return err
		}
	}
	for _, sh := range s.Halfedges {
		if err := ref(sh.Destination, nv, true, "vertex"); err != nil {
			return err
		}
		for _, hi := range []int{sh.Opposite, sh.Next, sh.Previous} {
			if err := ref(hi, nh, true, "halfedge"); err != nil {
				return err
			}
		}
		if err := ref(sh.Face, nf, false, "face"); err != nil {
			return err
		}
		if err := ref(sh.Edge, ne, true, "edge"); err != nil {
			return err
		}
	}
	for _, se := range s.Edges {
		if err := ref(se.Halfedge, nh, true, "halfedge"); err != nil {
			return err
		}
	}
	for _, sf := range s.Faces {
		if err := ref(sf.Halfedge, nh, true, "halfedge"); err != nil {
			return err
		}
		if err := ref(sf.Parent, nf, false, "face"); err != nil {
			return err
		}
		for _, hi := range sf.Holes {
			if err := ref(hi, nf, true, "face"); err != nil {
				return err
			}
		}
	}
	return nil
}

func halfedgeIndex(h *Halfedge) int {
	if h == nil {
		return -1
	}
	return h.index
}

func faceIndex(f *Face) int {
	if f == nil {
		return -1
	}
	return f.index
}
