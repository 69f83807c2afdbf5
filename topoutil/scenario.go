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
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"golang.org/x/sync/errgroup"

	"github.com/spatialmodel/topology"
)

// A Scenario describes a set of geometry layers that are to be combined
// into a single topology graph.
type Scenario struct {
	// Proj4 is the spatial reference of the output graph in Proj4 or WKT
	// format. Layers whose spatial reference differs from it are
	// reprojected before merging. If it is empty, layer coordinates are
	// used as they are.
	Proj4 string

	// Layers are the input layers, merged in the order given.
	Layers []Layer
}

// A Layer is one geometry input to a scenario: a shapefile, a GeoJSON
// document, or a previously saved graph.
type Layer struct {
	// Path is the location of the input file. It may be a local path or
	// an http(s) address, and may contain environment variables.
	Path string

	// Proj4 optionally overrides the spatial reference of the layer,
	// for files that do not carry their own (GeoJSON, saved graphs, or
	// shapefiles without a .prj sidecar).
	Proj4 string

	// Role assigns the layer to one side of a two-set overlay: "A", "B",
	// or empty for no role. When at least one layer has role B, the
	// merged graph classifies every face as covered by side A, side B,
	// or both. Roles are case-insensitive.
	Role string
}

// ReadScenario reads a TOML scenario description from the file at path.
func ReadScenario(path string) (*Scenario, error) {
	s := new(Scenario)
	if _, err := toml.DecodeFile(os.ExpandEnv(path), s); err != nil {
		return nil, fmt.Errorf("topoutil: reading scenario %s: %v", path, err)
	}
	if len(s.Layers) == 0 {
		return nil, fmt.Errorf("topoutil: scenario %s has no layers", path)
	}
	return s, nil
}

// roleTag converts the layer's Role field to a face tag.
func (l *Layer) roleTag() (topology.Tag, error) {
	switch strings.ToUpper(strings.TrimSpace(l.Role)) {
	case "":
		return topology.TagNone, nil
	case "A":
		return topology.TagA, nil
	case "B":
		return topology.TagB, nil
	}
	return topology.TagNone, fmt.Errorf("topoutil: layer %s: invalid role %q (want A, B, or empty)", l.Path, l.Role)
}

// SR returns the spatial reference of the scenario, or nil if none is
// configured.
func (s *Scenario) SR() (*proj.SR, error) {
	if s.Proj4 == "" {
		return nil, nil
	}
	sr, err := proj.Parse(os.ExpandEnv(s.Proj4))
	if err != nil {
		return nil, fmt.Errorf("topoutil: parsing scenario projection: %v", err)
	}
	return sr, nil
}

// Build loads every layer in the scenario and merges them into one
// graph. Layers are downloaded, read, and reprojected concurrently;
// merging then happens in layer order so results are reproducible.
//
// When no layer has role B the layers accumulate into a single graph,
// with faces tagged by their layer's role. When a B layer is present the
// A-side and B-side layers are merged into separate graphs first and the
// two are then overlaid, so faces covered by both sides carry both tags.
func (s *Scenario) Build() (*topology.Graph, error) {
	dst, err := s.SR()
	if err != nil {
		return nil, err
	}

	geoms := make([][]geom.Geom, len(s.Layers))
	var eg errgroup.Group
	for i := range s.Layers {
		i := i
		eg.Go(func() error {
			l := &s.Layers[i]
			path, err := maybeDownload(os.ExpandEnv(l.Path))
			if err != nil {
				return err
			}
			gs, err := LoadGeometry(path, os.ExpandEnv(l.Proj4), dst)
			if err != nil {
				return err
			}
			geoms[i] = gs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	tags := make([]topology.Tag, len(s.Layers))
	twoSided := false
	for i := range s.Layers {
		tags[i], err = s.Layers[i].roleTag()
		if err != nil {
			return nil, err
		}
		if tags[i] == topology.TagB {
			twoSided = true
		}
	}
	if !twoSided {
		g := topology.NewGraph()
		for i := range s.Layers {
			if err := mergeLayer(g, geoms[i], tags[i]); err != nil {
				return nil, fmt.Errorf("topoutil: merging layer %s: %v", s.Layers[i].Path, err)
			}
		}
		return g, nil
	}

	a, b := topology.NewGraph(), topology.NewGraph()
	for i := range s.Layers {
		side, sideTag := a, topology.TagA
		if tags[i] == topology.TagB {
			side, sideTag = b, topology.TagB
		}
		if err := mergeLayer(side, geoms[i], sideTag); err != nil {
			return nil, fmt.Errorf("topoutil: merging layer %s: %v", s.Layers[i].Path, err)
		}
	}
	if err := a.MergeGraph(b); err != nil {
		return nil, fmt.Errorf("topoutil: overlaying layers: %v", err)
	}
	return a, nil
}

func mergeLayer(g *topology.Graph, gs []geom.Geom, tag topology.Tag) error {
	for _, gm := range gs {
		if err := g.MergeGeometry(gm, tag); err != nil {
			return err
		}
	}
	return nil
}
