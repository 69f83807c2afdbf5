package topology

import (
	"bytes"
	"testing"

	"github.com/ctessum/geom"
)

func TestSaveLoad(t *testing.T) {
	g := NewGraph()
	if err := g.MergePolygon(geom.Polygon{square(0, 0, 4)}, TagA); err != nil {
		t.Fatal(err)
	}
	if err := g.MergePolygon(geom.Polygon{square(2, 0, 4)}, TagB); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddFace(square(10, 0, 8), square(12, 2, 4)); err != nil {
		t.Fatal(err)
	}
	g.AddVertex(geom.Point{X: 100, Y: 100})
	checkVerify(t, g)

	buf := bytes.NewBuffer([]byte{})
	if err := g.Save(buf); err != nil {
		t.Fatal(err)
	}
	g2, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}
	checkVerify(t, g2)

	checkCounts(t, g2, g.NumVertices(), g.NumEdges(), g.NumHalfedges(), g.NumFaces())
	if want, have := coverage(g), coverage(g2); want != have {
		t.Errorf("coverage: want %g but have %g", want, have)
	}
	if want, have := len(g.Shells()), len(g2.Shells()); want != have {
		t.Errorf("shells: want %d but have %d", want, have)
	}
	for _, tag := range []Tag{TagA, TagB, TagBoth} {
		if want, have := len(g.FacesWithTag(tag)), len(g2.FacesWithTag(tag)); want != have {
			t.Errorf("faces with %v: want %d but have %d", tag, want, have)
		}
	}
	if _, ok := g2.VertexAt(geom.Point{X: 100, Y: 100}); !ok {
		t.Error("isolated vertex did not survive the round trip")
	}

	// The loaded graph must be fully workable, not just readable.
	if err := g2.MergePolygon(geom.Polygon{square(3, 3, 4)}, TagB); err != nil {
		t.Fatal(err)
	}
	checkVerify(t, g2)
}

func TestLoadGarbage(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("not a graph"))); err == nil {
		t.Error("loading garbage should fail")
	}
}
