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
	"errors"
	"math"
	"testing"

	"github.com/ctessum/geom"
)

const testTolerance = 1e-9

// square returns the corners of an axis-aligned square in clockwise
// order, the way shapefile rings usually arrive.
func square(x, y, size float64) geom.Path {
	return geom.Path{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
	}
}

func checkCounts(t *testing.T, g *Graph, nv, ne, nh, nf int) {
	t.Helper()
	if g.NumVertices() != nv {
		t.Errorf("vertices: want %d but have %d", nv, g.NumVertices())
	}
	if g.NumEdges() != ne {
		t.Errorf("edges: want %d but have %d", ne, g.NumEdges())
	}
	if g.NumHalfedges() != nh {
		t.Errorf("halfedges: want %d but have %d", nh, g.NumHalfedges())
	}
	if g.NumFaces() != nf {
		t.Errorf("faces: want %d but have %d", nf, g.NumFaces())
	}
}

func checkVerify(t *testing.T, g *Graph) {
	t.Helper()
	if err := g.VerifyTopology(); err != nil {
		t.Fatal(err)
	}
}

func pointSet(p geom.Path) map[geom.Point]bool {
	s := make(map[geom.Point]bool)
	for _, pt := range p {
		s[pt] = true
	}
	return s
}

func TestSquare(t *testing.T) {
	g := NewGraph()
	shell := square(0, 0, 4)
	f, err := g.AddFace(shell)
	if err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 4, 4, 8, 1)
	checkVerify(t, g)

	if a := f.Area(); math.Abs(a-16) > testTolerance {
		t.Errorf("area: want 16 but have %g", a)
	}
	if p := f.Perimeter(); math.Abs(p-16) > testTolerance {
		t.Errorf("perimeter: want 16 but have %g", p)
	}
	b := f.Bounds()
	if b.Min.X != 0 || b.Min.Y != 0 || b.Max.X != 4 || b.Max.Y != 4 {
		t.Errorf("bounds: want [(0 0) (4 4)] but have %v", b)
	}

	out, ok := g.Geometry().(geom.Polygon)
	if !ok {
		t.Fatalf("geometry: want a Polygon but have %T", g.Geometry())
	}
	if len(out) != 1 {
		t.Fatalf("geometry rings: want 1 but have %d", len(out))
	}
	want := pointSet(shell)
	have := pointSet(out[0])
	if len(have) != len(want) {
		t.Fatalf("ring corners: want %d but have %d", len(want), len(have))
	}
	for pt := range want {
		if !have[pt] {
			t.Errorf("ring is missing corner %v", pt)
		}
	}
	if a := ringArea(out[0]); a <= 0 {
		t.Errorf("output ring should be counterclockwise but has area %g", a)
	}
}

func TestAddVertexDedup(t *testing.T) {
	g := NewGraph()
	p := geom.Point{X: 1, Y: 2}
	v1 := g.AddVertex(p)
	v2 := g.AddVertex(p)
	if v1 != v2 {
		t.Error("adding the same position twice should return the same vertex")
	}
	checkCounts(t, g, 1, 0, 0, 0)
	if v1.Tag != TagNone {
		t.Errorf("fresh vertex tag: want %v but have %v", TagNone, v1.Tag)
	}
	if v, ok := g.VertexAt(p); !ok || v != v1 {
		t.Error("VertexAt should find the vertex that AddVertex created")
	}
	if _, ok := g.VertexAt(geom.Point{X: 9, Y: 9}); ok {
		t.Error("VertexAt should not find a vertex that was never added")
	}
	checkVerify(t, g)
}

func TestAdjacentFaces(t *testing.T) {
	g := NewGraph()
	f1, err := g.AddFace(square(0, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	f2, err := g.AddFace(square(4, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 6, 7, 14, 2)
	checkVerify(t, g)

	shared := 0
	for _, e := range g.Edges() {
		a, b := e.Faces()
		if a != nil && b != nil {
			shared++
			if !(a == f1 && b == f2 || a == f2 && b == f1) {
				t.Error("shared edge should border both faces")
			}
			if e.OnBoundary() {
				t.Error("shared edge should not be on the boundary")
			}
		}
	}
	if shared != 1 {
		t.Errorf("shared edges: want 1 but have %d", shared)
	}

	corner, _ := g.VertexAt(geom.Point{X: 4, Y: 4})
	if n := len(corner.Faces()); n != 2 {
		t.Errorf("faces at shared corner: want 2 but have %d", n)
	}
	if corner.Degree() != 3 {
		t.Errorf("degree at shared corner: want 3 but have %d", corner.Degree())
	}
	if !corner.OnBoundary() {
		t.Error("shared corner should be on the boundary")
	}
}

func TestCreateFaceErrors(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(geom.Point{X: 0, Y: 0})
	b := g.AddVertex(geom.Point{X: 4, Y: 0})
	c := g.AddVertex(geom.Point{X: 0, Y: 4})

	if _, err := g.CreateFace([]*Vertex{a, b}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("two vertices: want ErrInvalidInput but have %v", err)
	}
	if _, err := g.CreateFace([]*Vertex{a, b, a}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("repeated vertex: want ErrInvalidInput but have %v", err)
	}
	if _, err := g.CreateFace([]*Vertex{a, c, b}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("clockwise ring: want ErrInvalidInput but have %v", err)
	}
	if _, err := g.CreateFace([]*Vertex{a, b, &Vertex{index: -1}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign vertex: want ErrInvalidInput but have %v", err)
	}

	if _, err := g.CreateFace([]*Vertex{a, b, c}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateFace([]*Vertex{a, b, c}); !errors.Is(err, ErrNonManifold) {
		t.Errorf("refacing a faced edge: want ErrNonManifold but have %v", err)
	}
	checkVerify(t, g)
}

func TestCreateFaceInteriorVertex(t *testing.T) {
	g := NewGraph()
	// A 2x2 block of unit squares encloses the vertex at (1,1).
	for _, sq := range []geom.Path{square(0, 0, 1), square(1, 0, 1), square(0, 1, 1), square(1, 1, 1)} {
		if _, err := g.AddFace(sq); err != nil {
			t.Fatal(err)
		}
	}
	checkVerify(t, g)
	center, ok := g.VertexAt(geom.Point{X: 1, Y: 1})
	if !ok {
		t.Fatal("center vertex missing")
	}
	if center.OnBoundary() {
		t.Error("center of a full block should be interior")
	}
	p := g.AddVertex(geom.Point{X: 5, Y: 5})
	q := g.AddVertex(geom.Point{X: 6, Y: 5})
	if _, err := g.CreateFace([]*Vertex{center, q, p}); !errors.Is(err, ErrNonManifold) {
		t.Errorf("new edge at interior vertex: want ErrNonManifold but have %v", err)
	}
}

func TestRemoveFaceRestores(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	f2, err := g.AddFace(square(4, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveFace(f2, true); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 4, 4, 8, 1)
	checkVerify(t, g)

	// The boundary must be healthy enough to accept the face again.
	if _, err := g.AddFace(square(4, 0, 4)); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 6, 7, 14, 2)
	checkVerify(t, g)
}

func TestRemoveFaceKeepVertices(t *testing.T) {
	g := NewGraph()
	f, err := g.AddFace(square(0, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveFace(f, false); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 4, 0, 0, 0)
	checkVerify(t, g)
	if err := g.RemoveFace(f, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("removing a face twice: want ErrInvalidInput but have %v", err)
	}
}

func TestRemoveVertex(t *testing.T) {
	g := NewGraph()
	v := g.AddVertex(geom.Point{X: 9, Y: 9})
	if err := g.RemoveVertex(v, false); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 0, 0, 0, 0)
	if err := g.RemoveVertex(v, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("removing a vertex twice: want ErrInvalidInput but have %v", err)
	}

	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddFace(square(4, 0, 4)); err != nil {
		t.Fatal(err)
	}
	corner, _ := g.VertexAt(geom.Point{X: 4, Y: 4})
	if err := g.RemoveVertex(corner, false); !errors.Is(err, ErrNotIsolated) {
		t.Errorf("removing a connected vertex: want ErrNotIsolated but have %v", err)
	}

	// Forcing takes out both faces that meet at the corner, leaving the
	// other corners behind as isolated vertices.
	if err := g.RemoveVertex(corner, true); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 5, 0, 0, 0)
	checkVerify(t, g)
}

func TestFanCompletion(t *testing.T) {
	g := NewGraph()
	v := g.AddVertex(geom.Point{X: 0, Y: 0})
	a := g.AddVertex(geom.Point{X: 2, Y: 0})
	b := g.AddVertex(geom.Point{X: 1, Y: 2})
	c := g.AddVertex(geom.Point{X: -1, Y: 2})
	d := g.AddVertex(geom.Point{X: -2, Y: 0})
	e := g.AddVertex(geom.Point{X: -1, Y: -2})
	f := g.AddVertex(geom.Point{X: 1, Y: -2})

	// Three wings that share only the center vertex, then a face that
	// reuses two of their edges which are separated in the center's fan.
	for _, ring := range [][]*Vertex{
		{v, a, b},
		{v, c, d},
		{v, e, f},
		{v, d, f, a},
	} {
		if _, err := g.CreateFace(ring); err != nil {
			t.Fatal(err)
		}
	}
	checkVerify(t, g)
	checkCounts(t, g, 7, 11, 22, 4)
	if v.Degree() != 6 {
		t.Errorf("center degree: want 6 but have %d", v.Degree())
	}
	if n := len(v.Faces()); n != 4 {
		t.Errorf("center faces: want 4 but have %d", n)
	}
	if !v.OnBoundary() {
		t.Error("center should still be on the boundary with two sectors open")
	}
}

func TestHoles(t *testing.T) {
	g := NewGraph()
	f, err := g.AddFace(square(0, 0, 8), square(2, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 8, 8, 16, 2)
	checkVerify(t, g)

	if len(f.Holes) != 1 {
		t.Fatalf("holes: want 1 but have %d", len(f.Holes))
	}
	hole := f.Holes[0]
	if hole.Parent != f {
		t.Error("hole should point back at its parent")
	}
	if !hole.IsHole() || f.IsHole() {
		t.Error("hole and shell roles are mixed up")
	}
	if n := len(g.Shells()); n != 1 {
		t.Errorf("shells: want 1 but have %d", n)
	}
	if a := f.Area(); math.Abs(a-48) > testTolerance {
		t.Errorf("area with hole: want 48 but have %g", a)
	}

	out, ok := g.Geometry().(geom.Polygon)
	if !ok {
		t.Fatalf("geometry: want a Polygon but have %T", g.Geometry())
	}
	if len(out) != 2 {
		t.Fatalf("geometry rings: want 2 but have %d", len(out))
	}
	if a := ringArea(out[1]); a >= 0 {
		t.Errorf("hole ring should be clockwise but has area %g", a)
	}

	if err := g.RemoveFaceTree(f, true); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 0, 0, 0, 0)
	checkVerify(t, g)
}

func TestFaceAt(t *testing.T) {
	g := NewGraph()
	f, err := g.AddFace(square(0, 0, 8), square(2, 2, 4))
	if err != nil {
		t.Fatal(err)
	}

	if have := g.FaceAt(geom.Point{X: 1, Y: 1}); have != f {
		t.Errorf("interior point: want the shell but have %v", have)
	}
	if have := g.FaceAt(geom.Point{X: 4, Y: 4}); have != nil {
		t.Error("point in hole: want nil")
	}
	if have := g.FaceAt(geom.Point{X: 9, Y: 4}); have != nil {
		t.Error("point outside: want nil")
	}
	if have := g.FaceAt(geom.Point{X: 0, Y: 4}); have != f {
		t.Errorf("point on boundary: want the shell but have %v", have)
	}
	if have := g.FaceAt(geom.Point{X: 2, Y: 4}); have != f {
		t.Errorf("point on hole boundary: want the shell but have %v", have)
	}
}

func TestRemoveFaceDetachesHoles(t *testing.T) {
	g := NewGraph()
	f, err := g.AddFace(square(0, 0, 8), square(2, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	hole := f.Holes[0]
	if err := g.RemoveFace(f, true); err != nil {
		t.Fatal(err)
	}
	if hole.Parent != nil {
		t.Error("hole should be detached when only its parent is removed")
	}
	if !g.hasFace(hole) {
		t.Error("detached hole should survive as a face of its own")
	}
	checkCounts(t, g, 4, 4, 8, 1)
	checkVerify(t, g)
}

func TestAddFaceRollback(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	// A degenerate hole fails after the shell went in; the whole call
	// must unwind.
	_, err := g.AddFace(square(10, 0, 4), geom.Path{{X: 11, Y: 1}, {X: 12, Y: 2}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("degenerate hole: want ErrInvalidInput but have %v", err)
	}
	checkCounts(t, g, 4, 4, 8, 1)
	checkVerify(t, g)

	if _, err := g.AddFace(geom.Path{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("collinear ring: want ErrInvalidInput but have %v", err)
	}
	checkCounts(t, g, 4, 4, 8, 1)
	checkVerify(t, g)
}

func TestAddGeometry(t *testing.T) {
	g := NewGraph()
	gc := geom.GeometryCollection{
		geom.Point{X: 9, Y: 9},
		geom.Polygon{square(0, 0, 4)},
		geom.MultiPoint{{X: 10, Y: 10}, {X: 11, Y: 11}},
	}
	if err := g.AddGeometry(gc); err != nil {
		t.Fatal(err)
	}
	checkCounts(t, g, 7, 4, 8, 1)
	checkVerify(t, g)

	if err := g.AddGeometry(geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("line string: want ErrInvalidInput but have %v", err)
	}
}
