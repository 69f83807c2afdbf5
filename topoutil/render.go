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
	"bufio"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/ctessum/geom/carto"

	"github.com/spatialmodel/topology"
	"github.com/spatialmodel/topology/raster"
)

// RenderPNG draws the tag coverage of g as a PNG heatmap. The graph is
// sampled onto an nx by ny grid spanning its bounds and the grid is then
// resampled with kernel k to the width by height pixel size of the output
// image. Grid cells outside every face come out transparent.
func RenderPNG(g *topology.Graph, fileName string, nx, ny, width, height int, k raster.Kernel) error {
	cover := g.Geometry()
	if cover == nil {
		return fmt.Errorf("topoutil: the graph has no faces to render")
	}
	grid, err := raster.Rasterize(g, cover.Bounds(), nx, ny)
	if err != nil {
		return err
	}
	if width != nx || height != ny {
		grid, err = raster.Resample(grid, width, height, k)
		if err != nil {
			return err
		}
	}

	// The color scale covers only the cells inside a face.
	covered := make([]float64, 0, len(grid.Elements))
	for _, v := range grid.Elements {
		if !math.IsNaN(v) {
			covered = append(covered, v)
		}
	}
	// Grid row 0 is the southernmost; image row 0 is the top.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(covered) > 0 {
		cmap := carto.NewColorMap(carto.Linear)
		cmap.AddArray(covered)
		cmap.Set()
		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				v := grid.Get(j, i)
				if math.IsNaN(v) {
					continue
				}
				img.Set(i, height-1-j, cmap.GetColor(v))
			}
		}
	}

	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("topoutil: creating %s: %v", fileName, err)
	}
	b := bufio.NewWriter(f)
	if err := png.Encode(b, img); err != nil {
		f.Close()
		return fmt.Errorf("topoutil: encoding %s: %v", fileName, err)
	}
	if err := b.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("topoutil: writing %s: %v", fileName, err)
	}
	return f.Close()
}
