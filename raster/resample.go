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

// Package raster converts between topology graphs and regular grids:
// rasterizing face coverage onto a grid and resampling grids between
// resolutions.
package raster

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"

	"github.com/spatialmodel/topology"
)

// A Kernel selects the interpolation method used when resampling a grid.
type Kernel int

const (
	// Nearest takes the value of the closest source cell.
	Nearest Kernel = iota
	// Bilinear blends the 2×2 surrounding cells by linear distance.
	Bilinear
	// Bicubic blends a 4×4 neighborhood with Catmull-Rom weights.
	Bicubic
	// Lanczos blends a 6×6 neighborhood with a windowed sinc.
	Lanczos
)

// ParseKernel converts a kernel name, as given on a command line, into a
// Kernel. Names are matched case-insensitively.
func ParseKernel(name string) (Kernel, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	case "lanczos":
		return Lanczos, nil
	}
	return 0, fmt.Errorf("raster: unknown kernel %q: %w", name, topology.ErrInvalidInput)
}

func (k Kernel) String() string {
	switch k {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	case Lanczos:
		return "lanczos"
	}
	return fmt.Sprintf("Kernel(%d)", int(k))
}

// radius is the half-width of the kernel's support in cells. Nearest has
// no support window; it rounds instead.
func (k Kernel) radius() int {
	switch k {
	case Bilinear:
		return 1
	case Bicubic:
		return 2
	case Lanczos:
		return 3
	}
	return 0
}

// weight is the filter response at offset t, in cells, from the point
// being interpolated. All three windowed kernels interpolate: the weight
// is 1 at t=0 and 0 at every other integer offset.
func (k Kernel) weight(t float64) float64 {
	t = math.Abs(t)
	switch k {
	case Bilinear:
		if t < 1 {
			return 1 - t
		}
	case Bicubic:
		// Catmull-Rom (a = -0.5).
		switch {
		case t < 1:
			return ((1.5*t-2.5)*t)*t + 1
		case t < 2:
			return ((-0.5*t+2.5)*t-4)*t + 2
		}
	case Lanczos:
		if t < 3 {
			return sinc(t) * sinc(t/3)
		}
	}
	return 0
}

func sinc(t float64) float64 {
	if t == 0 {
		return 1
	}
	t *= math.Pi
	return math.Sin(t) / t
}

// Resample maps the two-dimensional array src, shaped [ny][nx] with rows
// from south to north, onto a new grid of ny rows by nx columns covering
// the same extent. Sample positions beyond the source edges clamp to the
// outermost cells. NaN cells carry through under Nearest; the other
// kernels drop NaN cells from the weighting, and a destination cell whose
// entire support is NaN stays NaN.
func Resample(src *sparse.DenseArray, nx, ny int, k Kernel) (*sparse.DenseArray, error) {
	if len(src.Shape) != 2 {
		return nil, fmt.Errorf("raster: resampling a %d-dimensional array: %w", len(src.Shape), topology.ErrInvalidInput)
	}
	if src.Shape[0] < 1 || src.Shape[1] < 1 {
		return nil, fmt.Errorf("raster: resampling an empty array: %w", topology.ErrInvalidInput)
	}
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("raster: resampling to %d×%d cells: %w", ny, nx, topology.ErrInvalidInput)
	}
	if k != Nearest && k.radius() == 0 {
		return nil, fmt.Errorf("raster: resampling with unknown kernel %d: %w", int(k), topology.ErrInvalidInput)
	}
	srcNy, srcNx := src.Shape[0], src.Shape[1]
	out := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		// Fractional source row under this row's cell centers.
		fy := (float64(j)+0.5)*float64(srcNy)/float64(ny) - 0.5
		for i := 0; i < nx; i++ {
			fx := (float64(i)+0.5)*float64(srcNx)/float64(nx) - 0.5
			out.Set(sample(src, fx, fy, k), j, i)
		}
	}
	return out, nil
}

// sample interpolates src at fractional row fy, fractional column fx.
func sample(src *sparse.DenseArray, fx, fy float64, k Kernel) float64 {
	ny, nx := src.Shape[0], src.Shape[1]
	if k == Nearest {
		return src.Get(clamp(int(math.Round(fy)), ny), clamp(int(math.Round(fx)), nx))
	}
	r := k.radius()
	j0 := int(math.Floor(fy)) - r + 1
	i0 := int(math.Floor(fx)) - r + 1
	var sum, weight float64
	for j := j0; j < j0+2*r; j++ {
		wy := k.weight(fy - float64(j))
		if wy == 0 {
			continue
		}
		for i := i0; i < i0+2*r; i++ {
			w := wy * k.weight(fx-float64(i))
			if w == 0 {
				continue
			}
			v := src.Get(clamp(j, ny), clamp(i, nx))
			if math.IsNaN(v) {
				continue
			}
			sum += w * v
			weight += w
		}
	}
	if weight == 0 {
		return math.NaN()
	}
	// Normalizing by the accumulated weight keeps the windowed kernels
	// exact on constant data even where NaN cells thinned the support.
	return sum / weight
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// Rasterize samples the faces of g on a regular grid of ny rows by nx
// columns covering b, row 0 along the southern edge. Each cell takes the
// tag bits of the face containing its center as a float64, or NaN where
// no face covers the center, so coverage and provenance can be read from
// the same array.
func Rasterize(g *topology.Graph, b *geom.Bounds, nx, ny int) (*sparse.DenseArray, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("raster: rasterizing to %d×%d cells: %w", ny, nx, topology.ErrInvalidInput)
	}
	if b == nil || b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return nil, fmt.Errorf("raster: rasterizing within empty bounds: %w", topology.ErrInvalidInput)
	}
	dx := (b.Max.X - b.Min.X) / float64(nx)
	dy := (b.Max.Y - b.Min.Y) / float64(ny)
	out := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		y := b.Min.Y + (float64(j)+0.5)*dy
		for i := 0; i < nx; i++ {
			x := b.Min.X + (float64(i)+0.5)*dx
			f := g.FaceAt(geom.Point{X: x, Y: y})
			if f == nil {
				out.Set(math.NaN(), j, i)
				continue
			}
			out.Set(float64(f.Tag), j, i)
		}
	}
	return out, nil
}
