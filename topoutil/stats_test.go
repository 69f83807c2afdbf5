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
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/kr/pretty"
	"github.com/spatialmodel/topology"
)

func TestSummarize(t *testing.T) {
	g := topology.NewGraph()
	if _, err := g.AddPolygon(geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}}); err != nil {
		t.Fatal(err)
	}
	s := Summarize(g)
	want := &Stats{
		Vertices:   4,
		Edges:      4,
		Halfedges:  8,
		Shells:     1,
		Holes:      0,
		TagCounts:  map[topology.Tag]int{topology.TagNone: 1},
		Area:       Distribution{Count: 1, Min: 4, Max: 4, Sum: 4, Mean: 4},
		Perimeter:  Distribution{Count: 1, Min: 8, Max: 8, Sum: 8, Mean: 8},
		EdgeLength: Distribution{Count: 4, Min: 2, Max: 2, Sum: 8, Mean: 2},
	}
	diff := pretty.Diff(s, want)
	if len(diff) != 0 {
		t.Fatal(diff)
	}
}

func TestSummarizeOverlay(t *testing.T) {
	s := Summarize(overlayGraph(t))
	wantTags := map[topology.Tag]int{
		topology.TagA:    1,
		topology.TagB:    1,
		topology.TagBoth: 1,
	}
	if !reflect.DeepEqual(s.TagCounts, wantTags) {
		t.Errorf("tag counts: %v != %v", s.TagCounts, wantTags)
	}
	if s.Shells != 3 {
		t.Errorf("shells = %d, want 3", s.Shells)
	}
	if s.Holes != 0 {
		t.Errorf("holes = %d, want 0", s.Holes)
	}
	if s.Area.Sum != 7 {
		t.Errorf("area sum = %g, want 7", s.Area.Sum)
	}
	if s.Area.Min != 1 || s.Area.Max != 3 {
		t.Errorf("area min, max = %g, %g, want 1, 3", s.Area.Min, s.Area.Max)
	}
}

func TestWriteTable(t *testing.T) {
	s := Summarize(overlayGraph(t))
	var b bytes.Buffer
	s.WriteTable(&b)
	out := b.String()
	for _, want := range []string{
		"vertices:  10",
		"faces:     3 shells, 0 holes",
		"tag A: 1",
		"tag B: 1",
		"tag AB: 1",
		"area: sum 7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
