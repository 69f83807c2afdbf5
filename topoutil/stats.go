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

package topoutil

import (
	"fmt"
	"io"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"

	"github.com/spatialmodel/topology"
)

// A Distribution summarizes one quantity sampled across the graph.
type Distribution struct {
	Count         int
	Min, Max, Sum float64
	Mean, StdDev  float64
}

func summarize(xs []float64) Distribution {
	if len(xs) == 0 {
		return Distribution{}
	}
	var s stats.Stats
	for _, x := range xs {
		s.Update(x)
	}
	d := Distribution{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
		Sum:   floats.Sum(xs),
		Mean:  s.Mean(),
	}
	if len(xs) > 1 {
		d.StdDev = s.SampleStandardDeviation()
	}
	return d
}

// Stats summarizes the composition and geometry of a graph.
type Stats struct {
	Vertices  int
	Edges     int
	Halfedges int
	Shells    int
	Holes     int

	// TagCounts is the number of shell faces carrying each exact tag.
	TagCounts map[topology.Tag]int

	// Area, Perimeter, and EdgeLength describe the shell face areas
	// (hole area subtracted), the shell face perimeters, and the
	// individual edge lengths.
	Area       Distribution
	Perimeter  Distribution
	EdgeLength Distribution
}

// Summarize computes summary statistics for g.
func Summarize(g *topology.Graph) *Stats {
	s := &Stats{
		Vertices:  g.NumVertices(),
		Edges:     g.NumEdges(),
		Halfedges: g.NumHalfedges(),
		TagCounts: make(map[topology.Tag]int),
	}

	shells := g.Shells()
	s.Shells = len(shells)
	s.Holes = g.NumFaces() - s.Shells
	areas := make([]float64, len(shells))
	perims := make([]float64, len(shells))
	for i, f := range shells {
		areas[i] = f.Area()
		perims[i] = f.Perimeter()
		s.TagCounts[f.Tag]++
	}
	s.Area = summarize(areas)
	s.Perimeter = summarize(perims)

	lengths := make([]float64, g.NumEdges())
	for i, e := range g.Edges() {
		lengths[i] = e.Length()
	}
	s.EdgeLength = summarize(lengths)

	return s
}

// WriteTable writes s to w as a plain-text report.
func (s *Stats) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "vertices:  %d\n", s.Vertices)
	fmt.Fprintf(w, "edges:     %d\n", s.Edges)
	fmt.Fprintf(w, "halfedges: %d\n", s.Halfedges)
	fmt.Fprintf(w, "faces:     %d shells, %d holes\n", s.Shells, s.Holes)
	for _, tag := range []topology.Tag{topology.TagNone, topology.TagA, topology.TagB, topology.TagBoth} {
		if n := s.TagCounts[tag]; n > 0 {
			fmt.Fprintf(w, "  tag %s: %d\n", tag, n)
		}
	}
	for _, d := range []struct {
		name string
		d    Distribution
	}{
		{"area", s.Area},
		{"perimeter", s.Perimeter},
		{"edge length", s.EdgeLength},
	} {
		if d.d.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "%s: sum %g, min %g, max %g, mean %g, stddev %g\n",
			d.name, d.d.Sum, d.d.Min, d.d.Max, d.d.Mean, d.d.StdDev)
	}
}
