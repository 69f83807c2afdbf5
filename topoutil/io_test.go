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
	"os"
	"testing"

	"github.com/ctessum/geom"
)

func TestLoadGeometryFeatureCollection(t *testing.T) {
	writeTempFile(t, "tmp_fc.geojson", `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"name": "a"}, "geometry":
			{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}},
		{"type": "Feature", "properties": {"name": "b"}, "geometry":
			{"type": "Polygon", "coordinates": [[[2, 0], [3, 0], [3, 1], [2, 1], [2, 0]]]}}]}`)
	defer os.Remove("tmp_fc.geojson")

	gs, err := LoadGeometry("tmp_fc.geojson", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 2 {
		t.Fatalf("want 2 geometries, got %d", len(gs))
	}
	for i, g := range gs {
		if _, ok := g.(geom.Polygon); !ok {
			t.Errorf("geometry %d: got %T, want geom.Polygon", i, g)
		}
	}
}

func TestLoadGeometryFeature(t *testing.T) {
	writeTempFile(t, "tmp_f.geojson", `{"type": "Feature", "properties": {},
		"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}}`)
	defer os.Remove("tmp_f.geojson")

	gs, err := LoadGeometry("tmp_f.geojson", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 {
		t.Fatalf("want 1 geometry, got %d", len(gs))
	}
}

func TestLoadGeometryUnsupported(t *testing.T) {
	if _, err := LoadGeometry("layers.txt", "", nil); err == nil {
		t.Error("expected an error for an unsupported file type")
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g := overlayGraph(t)
	if err := WriteGraph(g, "tmp_graph.gob"); err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_graph.gob")

	g2, err := ReadGraph("tmp_graph.gob")
	if err != nil {
		t.Fatal(err)
	}
	if g2.NumVertices() != g.NumVertices() || g2.NumEdges() != g.NumEdges() ||
		g2.NumFaces() != g.NumFaces() {
		t.Errorf("got %d vertices, %d edges, %d faces; want %d, %d, %d",
			g2.NumVertices(), g2.NumEdges(), g2.NumFaces(),
			g.NumVertices(), g.NumEdges(), g.NumFaces())
	}
	if err := g2.VerifyTopology(); err != nil {
		t.Error(err)
	}

	// A saved graph can also be used as an input layer.
	gs, err := LoadGeometry("tmp_graph.gob", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 {
		t.Errorf("want 1 geometry, got %d", len(gs))
	}
}
