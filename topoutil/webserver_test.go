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
	"bytes"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testMapServer(t *testing.T) *MapServer {
	t.Helper()
	g := overlayGraph(t)
	o, err := NewOutputter("", map[string]string{"SumArea": "Area"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewMapServer(g, o, "")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMapServerVariables(t *testing.T) {
	s := testMapServer(t)
	if want := []string{"SumArea"}; !reflect.DeepEqual(s.Variables(), want) {
		t.Errorf("%v != %v", s.Variables(), want)
	}
}

func TestMapTile(t *testing.T) {
	s := testMapServer(t)
	w := httptest.NewRecorder()
	s.mapHandler(w, httptest.NewRequest("GET", "/maptile/SumArea/0/0/0", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), pngMagic) {
		t.Error("response is not a PNG image")
	}
}

func TestMapTileBadRequest(t *testing.T) {
	s := testMapServer(t)
	w := httptest.NewRecorder()
	s.mapHandler(w, httptest.NewRequest("GET", "/maptile/SumArea/0/0", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestMapTileUnknownVariable(t *testing.T) {
	s := testMapServer(t)
	w := httptest.NewRecorder()
	s.mapHandler(w, httptest.NewRequest("GET", "/maptile/Missing/0/0/0", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestLegend(t *testing.T) {
	s := testMapServer(t)
	w := httptest.NewRecorder()
	s.legendHandler(w, httptest.NewRequest("GET", "/legend/SumArea", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), pngMagic) {
		t.Error("response is not a PNG image")
	}
}

func TestIndex(t *testing.T) {
	s := testMapServer(t)
	w := httptest.NewRecorder()
	s.indexHandler(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/legend/SumArea") {
		t.Error("index page does not link the legend")
	}
}
