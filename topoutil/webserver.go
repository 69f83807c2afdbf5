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
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/spatialmodel/topology"
)

// webMapProj is the spatial reference definition for web mapping.
const webMapProj = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"

// A MapServer serves map tiles and legends for the shell faces of a
// graph, colored by the values of output expressions.
type MapServer struct {
	Log logrus.FieldLogger

	shapes []geom.Geom          // shell polygons in the web mapping projection
	data   map[string][]float64 // column values in shell order
	names  []string             // sorted column names
}

// NewMapServer evaluates o's output expressions for g and prepares the
// results for serving. srText, when non-empty, gives the spatial
// reference of the graph's coordinates in Proj4 or WKT format; the face
// polygons are reprojected from it to the web mapping projection. With
// an empty srText the polygons are served unprojected.
func NewMapServer(g *topology.Graph, o *Outputter, srText string) (*MapServer, error) {
	results, err := o.Results(g)
	if err != nil {
		return nil, err
	}

	var trans proj.Transformer
	if srText != "" {
		webMapSR, err := proj.Parse(webMapProj)
		if err != nil {
			return nil, fmt.Errorf("topoutil: parsing web map projection: %v", err)
		}
		gridSR, err := proj.Parse(srText)
		if err != nil {
			return nil, fmt.Errorf("topoutil: parsing graph projection: %v", err)
		}
		trans, err = gridSR.NewTransform(webMapSR)
		if err != nil {
			return nil, fmt.Errorf("topoutil: creating web map transform: %v", err)
		}
	}

	shells := g.Shells()
	shapes := make([]geom.Geom, len(shells))
	for i, f := range shells {
		var gm geom.Geom = f.Polygon()
		if trans != nil {
			gm, err = gm.Transform(trans)
			if err != nil {
				return nil, fmt.Errorf("topoutil: reprojecting face %d: %v", i, err)
			}
		}
		shapes[i] = gm
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	return &MapServer{
		Log:    logrus.StandardLogger(),
		shapes: shapes,
		data:   results,
		names:  names,
	}, nil
}

// Variables returns the names of the columns the server can map.
func (s *MapServer) Variables() []string { return s.names }

// mapData assembles the carto map data for one column.
func (s *MapServer) mapData(name string) (*carto.MapData, error) {
	vals, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("topoutil: no map data for variable %s", name)
	}
	m := carto.NewMapData(len(vals), carto.LinCutoff)
	m.Cmap.AddArray(vals)
	m.Cmap.Set()
	m.Shapes = s.shapes
	m.Data = vals
	return m, nil
}

func parseTileRequest(base string, r *http.Request) (name string, zoom, x, y int, err error) {
	request := strings.Split(r.URL.Path[len(base):], "/")
	if len(request) != 4 {
		err = fmt.Errorf("expected %svariable/zoom/x/y but got %s", base, r.URL.Path)
		return
	}
	name = request[0]
	zoom, err = s2i(request[1])
	if err != nil {
		return
	}
	x, err = s2i(request[2])
	if err != nil {
		return
	}
	y, err = s2i(request[3])
	return
}

func s2i(s string) (int, error) {
	i64, err := strconv.ParseInt(s, 10, 64)
	return int(i64), err
}

func (s *MapServer) mapHandler(w http.ResponseWriter, r *http.Request) {
	name, zoom, x, y, err := parseTileRequest("/maptile/", r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := s.mapData(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := m.WriteGoogleMapTile(w, zoom, x, y); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// legendHandler creates a legend for the requested column and serves it.
func (s *MapServer) legendHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.URL.Path[len("/legend/"):], "/")
	vals, ok := s.data[name]
	if !ok {
		http.Error(w, fmt.Sprintf("no map data for variable %s", name), http.StatusNotFound)
		return
	}
	cmap := carto.NewColorMap(carto.LinCutoff)
	cmap.AddArray(vals)
	cmap.Set()
	const LegendWidth = 6.2 * vg.Inch
	const LegendHeight = LegendWidth * 0.1067
	cmap.LegendWidth = LegendWidth
	cmap.LegendHeight = LegendHeight
	cmap.LineWidth = 0.5
	cmap.FontSize = 8

	w.Header().Set("Content-Type", "image/png")
	c := vgimg.New(LegendWidth, LegendHeight)
	dc := draw.New(c)
	if err := cmap.Legend(&dc, name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>topology map</title></head>
<body>
<h1>topology map</h1>
<p>Tiles are served at /maptile/{variable}/{zoom}/{x}/{y}.</p>
{{range .}}
<h2>{{.}}</h2>
<img src="/legend/{{.}}" alt="legend for {{.}}">
{{end}}
</body>
</html>
`))

func (s *MapServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := indexTemplate.Execute(w, s.names); err != nil {
		s.Log.WithFields(logrus.Fields{"err": err}).Error("writing index page")
	}
}

// ListenAndServe serves the map at addr until the server fails.
func (s *MapServer) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/maptile/", s.mapHandler)
	mux.HandleFunc("/legend/", s.legendHandler)
	mux.HandleFunc("/", s.indexHandler)
	s.Log.WithFields(logrus.Fields{
		"addr": addr,
	}).Info("serving topology map")
	return http.ListenAndServe(addr, mux)
}
