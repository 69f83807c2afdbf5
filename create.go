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

import "fmt"

// CreateFace builds a face from vertices already in the graph, given in
// counterclockwise order without a closing repeat. Halfedges that already
// run between consecutive vertices are reused, which is how adjacent
// faces come to share edges; missing halfedge pairs are created and
// spliced into the rotational fan at each endpoint.
//
// Splicing needs a boundary opening at every junction: an existing edge
// may not already bound faces on both sides, a vertex gaining a new edge
// must be on the graph boundary, and when both junction halfedges exist
// but other edges block them from being consecutive, the blocking chain
// is relocated to another opening at that vertex. If any of these
// conditions fail the face is not created and an ErrNonManifold error is
// returned; the checks all run before the face is stamped, so faces and
// edges present before the call are unaffected (a failed relocation may
// reorder unfaced boundary links, which no invariant observes).
func (g *Graph) CreateFace(vs []*Vertex) (*Face, error) {
	n := len(vs)
	if n < 3 {
		return nil, fmt.Errorf("topology: creating face with %d vertices: %w", n, ErrInvalidInput)
	}
	for i, v := range vs {
		if !g.hasVertex(v) {
			return nil, fmt.Errorf("topology: creating face: vertex %d not in graph: %w", i, ErrInvalidInput)
		}
		for j := i + 1; j < n; j++ {
			if vs[j] == v {
				return nil, fmt.Errorf("topology: creating face: vertex %v repeats: %w", v.Point, ErrInvalidInput)
			}
		}
	}
	if a := vertexRingArea(vs); a <= 0 {
		return nil, fmt.Errorf("topology: creating face: ring is not counterclockwise: %w", ErrInvalidInput)
	}

	// Find the halfedges that already exist between consecutive vertices.
	hes := make([]*Halfedge, n)
	isNew := make([]bool, n)
	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]
		h := g.findHalfedge(a, b)
		if h != nil && h.Face != nil {
			return nil, fmt.Errorf("topology: creating face: edge %v-%v already bounds two faces: %w",
				a.Point, b.Point, ErrNonManifold)
		}
		hes[i] = h
		isNew[i] = h == nil
	}

	// A vertex gaining a new edge must have an unfaced sector to put it in.
	for i := 0; i < n; i++ {
		v := vs[(i+1)%n]
		if (isNew[i] || isNew[(i+1)%n]) && !v.OnBoundary() {
			return nil, fmt.Errorf("topology: creating face: vertex %v is interior: %w", v.Point, ErrNonManifold)
		}
	}

	// Where both junction halfedges exist but are not consecutive, move
	// the chain between them into another opening at the junction vertex
	// so the new boundary can close. Each junction has its own vertex
	// (vertices do not repeat), so relocations do not disturb each other.
	for i := 0; i < n; i++ {
		in, out := hes[i], hes[(i+1)%n]
		if in == nil || out == nil || in.Next == out {
			continue
		}
		patchStart, patchEnd := in.Next, out.Previous
		gap, err := g.findOpening(out.Opposite, in, patchEnd)
		if err != nil {
			return nil, fmt.Errorf("topology: creating face: relinking at vertex %v: %w", vs[(i+1)%n].Point, err)
		}
		gapNext := gap.Next
		gap.Next = patchStart
		patchStart.Previous = gap
		patchEnd.Next = gapNext
		gapNext.Previous = patchEnd
		in.Next = out
		out.Previous = in
	}

	for i := 0; i < n; i++ {
		if isNew[i] {
			hes[i] = g.newEdge(vs[i], vs[(i+1)%n])
		}
	}

	f := &Face{Halfedge: hes[0]}
	for i := 0; i < n; i++ {
		hes[i].Face = f
	}

	// Close the cycle at each junction. in enters the junction vertex,
	// out leaves it; their unfaced opposites take over whatever boundary
	// continuation the junction had.
	for i := 0; i < n; i++ {
		in, out := hes[i], hes[(i+1)%n]
		v := vs[(i+1)%n]
		switch {
		case isNew[i] && isNew[(i+1)%n]:
			if v.Leaving == nil {
				out.Opposite.Next = in.Opposite
				in.Opposite.Previous = out.Opposite
				v.Leaving = out
			} else {
				gap, err := g.findOpening(v.Leaving.Opposite)
				if err != nil {
					return nil, fmt.Errorf("topology: creating face: splicing at vertex %v: %w", v.Point, err)
				}
				gapNext := gap.Next
				gap.Next = in.Opposite
				in.Opposite.Previous = gap
				out.Opposite.Next = gapNext
				gapNext.Previous = out.Opposite
			}
			in.Next = out
			out.Previous = in
		case isNew[i]:
			prev := out.Previous // unfaced, enters v
			prev.Next = in.Opposite
			in.Opposite.Previous = prev
			in.Next = out
			out.Previous = in
		case isNew[(i+1)%n]:
			next := in.Next // unfaced, leaves v
			out.Opposite.Next = next
			next.Previous = out.Opposite
			in.Next = out
			out.Previous = in
		default:
			// Both existed: consecutive already, or relinked above.
		}
	}

	g.registerFace(f)
	return f, nil
}

// vertexRingArea returns the signed area of the ring through the vertex
// positions.
func vertexRingArea(vs []*Vertex) float64 {
	var sum float64
	for i, v := range vs {
		w := vs[(i+1)%len(vs)]
		sum += v.Point.X*w.Point.Y - w.Point.X*v.Point.Y
	}
	return sum / 2
}
