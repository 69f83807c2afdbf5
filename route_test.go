package topology

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestShortestPath(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddFace(square(4, 0, 4)); err != nil {
		t.Fatal(err)
	}
	from, _ := g.VertexAt(geom.Point{X: 0, Y: 0})
	to, _ := g.VertexAt(geom.Point{X: 8, Y: 0})

	path, weight, err := g.ShortestPath(from, to)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(weight-8) > testTolerance {
		t.Errorf("path length: want 8 but have %g", weight)
	}
	if len(path) != 3 {
		t.Fatalf("path vertices: want 3 but have %d", len(path))
	}
	if path[0] != from || path[2] != to {
		t.Error("path should run from origin to destination")
	}
	if path[1].Point != (geom.Point{X: 4, Y: 0}) {
		t.Errorf("path should pass the shared corner, not %v", path[1].Point)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	island := g.AddVertex(geom.Point{X: 100, Y: 100})
	from, _ := g.VertexAt(geom.Point{X: 0, Y: 0})

	path, weight, err := g.ShortestPath(from, island)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(weight, 1) {
		t.Errorf("unreachable weight: want +Inf but have %g", weight)
	}
	if path != nil {
		t.Errorf("unreachable path: want nil but have %v", path)
	}

	if _, _, err := g.ShortestPath(from, &Vertex{index: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign vertex: want ErrInvalidInput but have %v", err)
	}
}

func TestRouter(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddFace(square(0, 0, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddFace(square(4, 0, 4)); err != nil {
		t.Fatal(err)
	}
	island := g.AddVertex(geom.Point{X: 100, Y: 100})
	from, _ := g.VertexAt(geom.Point{X: 0, Y: 0})
	r, err := g.RouteFrom(from)
	if err != nil {
		t.Fatal(err)
	}

	to, _ := g.VertexAt(geom.Point{X: 8, Y: 0})
	path, weight := r.To(to)
	if math.Abs(weight-8) > testTolerance {
		t.Errorf("routed length: want 8 but have %g", weight)
	}
	if len(path) != 3 || path[0] != from || path[2] != to {
		t.Errorf("routed path endpoints are wrong: %v", path)
	}

	if p, w := r.To(island); p != nil || !math.IsInf(w, 1) {
		t.Error("router should not reach the island vertex")
	}

	if _, err := g.RouteFrom(&Vertex{index: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign origin: want ErrInvalidInput but have %v", err)
	}
}
