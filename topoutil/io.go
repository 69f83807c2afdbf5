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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"

	"github.com/spatialmodel/topology"
)

// LoadGeometry reads the geometries in the file at path. Shapefiles
// (.shp), GeoJSON documents (.geojson or .json), and saved graphs (.gob)
// are supported. If dst is non-nil the geometries are reprojected to it,
// using srcProj4 as the source spatial reference when non-empty and the
// reference carried by the file otherwise.
func LoadGeometry(path, srcProj4 string, dst *proj.SR) ([]geom.Geom, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return loadShapefile(path, srcProj4, dst)
	case ".geojson", ".json":
		return loadGeoJSON(path, srcProj4, dst)
	case ".gob":
		g, err := ReadGraph(path)
		if err != nil {
			return nil, err
		}
		cover := g.Geometry()
		if cover == nil {
			return nil, nil
		}
		gs := []geom.Geom{cover}
		return transformAll(gs, srcProj4, nil, dst)
	}
	return nil, fmt.Errorf("topoutil: %s: unsupported input type (want .shp, .geojson, .json, or .gob)", path)
}

func loadShapefile(path, srcProj4 string, dst *proj.SR) ([]geom.Geom, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("topoutil: opening shapefile %s: %v", path, err)
	}
	defer d.Close()

	var gs []geom.Geom
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		gs = append(gs, g)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("topoutil: reading shapefile %s: %v", path, err)
	}
	return transformAll(gs, srcProj4, d.SR, dst)
}

// geoJSONFeature and geoJSONFeatureCollection frame individual geometries
// in GeoJSON documents. Geometry bodies are delegated to the geom geojson
// codec.
type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type geoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

func loadGeoJSON(path, srcProj4 string, dst *proj.SR) ([]geom.Geom, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topoutil: reading %s: %v", path, err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("topoutil: parsing %s: %v", path, err)
	}

	var gs []geom.Geom
	switch head.Type {
	case "FeatureCollection":
		var fc geoJSONFeatureCollection
		if err := json.Unmarshal(b, &fc); err != nil {
			return nil, fmt.Errorf("topoutil: parsing %s: %v", path, err)
		}
		for i, f := range fc.Features {
			g, err := geojson.Decode(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("topoutil: %s feature %d: %v", path, i, err)
			}
			gs = append(gs, g)
		}
	case "Feature":
		var f geoJSONFeature
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("topoutil: parsing %s: %v", path, err)
		}
		g, err := geojson.Decode(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("topoutil: %s: %v", path, err)
		}
		gs = append(gs, g)
	default: // a bare geometry
		g, err := geojson.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("topoutil: %s: %v", path, err)
		}
		gs = append(gs, g)
	}
	return transformAll(gs, srcProj4, nil, dst)
}

// transformAll reprojects gs to dst. The source spatial reference is
// parsed from srcProj4 when non-empty; otherwise fileSR, if non-nil, is
// asked for the reference carried by the input file. A nil dst turns the
// whole thing into a no-op.
func transformAll(gs []geom.Geom, srcProj4 string, fileSR func() (*proj.SR, error), dst *proj.SR) ([]geom.Geom, error) {
	if dst == nil {
		return gs, nil
	}
	var src *proj.SR
	var err error
	switch {
	case srcProj4 != "":
		src, err = proj.Parse(srcProj4)
		if err != nil {
			return nil, fmt.Errorf("topoutil: parsing layer projection: %v", err)
		}
	case fileSR != nil:
		src, err = fileSR()
		if err != nil {
			return nil, fmt.Errorf("topoutil: reading layer projection: %v", err)
		}
	default:
		return nil, fmt.Errorf("topoutil: layer has no spatial reference; set Proj4 on the layer or drop the scenario projection")
	}
	trans, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("topoutil: creating coordinate transform: %v", err)
	}
	for i, g := range gs {
		gs[i], err = g.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("topoutil: reprojecting geometry %d: %v", i, err)
		}
	}
	return gs, nil
}

// ReadGraph reads a graph saved by WriteGraph from the file at path.
func ReadGraph(path string) (*topology.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topoutil: opening graph file: %v", err)
	}
	defer f.Close()
	g, err := topology.Load(f)
	if err != nil {
		return nil, fmt.Errorf("topoutil: reading graph %s: %v", path, err)
	}
	return g, nil
}

// WriteGraph saves g to the file at path.
func WriteGraph(g *topology.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("topoutil: creating graph file: %v", err)
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("topoutil: writing graph %s: %v", path, err)
	}
	return f.Close()
}

// writeGeoJSON writes one feature per shell face of g to fileName as a
// GeoJSON FeatureCollection. results supplies the property columns, one
// value per shell in table order.
func writeGeoJSON(g *topology.Graph, results map[string][]float64, fileName string) error {
	vars := make([]string, 0, len(results))
	for v := range results {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	shells := g.Shells()
	fc := geoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, len(shells)),
	}
	for i, f := range shells {
		raw, err := geojson.Encode(f.Polygon())
		if err != nil {
			return fmt.Errorf("topoutil: encoding face %d: %v", i, err)
		}
		props := make(map[string]interface{}, len(vars))
		for _, v := range vars {
			props[v] = results[v][i]
		}
		fc.Features[i] = geoJSONFeature{Type: "Feature", Geometry: raw, Properties: props}
	}
	b, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("topoutil: encoding %s: %v", fileName, err)
	}
	if err := os.WriteFile(fileName, b, 0644); err != nil {
		return fmt.Errorf("topoutil: writing %s: %v", fileName, err)
	}
	return nil
}
