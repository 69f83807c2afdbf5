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
	"os"
	"strings"
	"testing"
)

func TestCommands(t *testing.T) {
	writeTempFile(t, "tmp_a.geojson",
		`{"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [2, 2], [0, 2], [0, 0]]]}`)
	defer os.Remove("tmp_a.geojson")
	writeTempFile(t, "tmp_b.geojson",
		`{"type": "Polygon", "coordinates": [[[1, 1], [3, 1], [3, 3], [1, 3], [1, 1]]]}`)
	defer os.Remove("tmp_b.geojson")

	Cfg.Set("inputs", []string{"tmp_a.geojson", "tmp_b.geojson"})
	Cfg.Set("roles", map[string]string{"tmp_a.geojson": "A", "tmp_b.geojson": "B"})
	Cfg.Set("graph", "tmp_cmd.gob")
	Root.SetArgs([]string{"merge"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_cmd.gob")
	if _, err := os.Stat("tmp_cmd.gob"); err != nil {
		t.Fatal(err)
	}

	Root.SetArgs([]string{"verify"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	Root.SetOut(&buf)
	Root.SetArgs([]string{"stats"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "faces:     3 shells, 0 holes") {
		t.Errorf("unexpected stats output:\n%s", buf.String())
	}

	Cfg.Set("OutputFile", "tmp_cmd.geojson")
	Root.SetArgs([]string{"export"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_cmd.geojson")
	if _, err := os.Stat("tmp_cmd.geojson"); err != nil {
		t.Fatal(err)
	}

	Cfg.Set("nx", 8)
	Cfg.Set("ny", 8)
	Cfg.Set("width", 8)
	Cfg.Set("height", 8)
	Cfg.Set("png", "tmp_cmd.png")
	Root.SetArgs([]string{"raster"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_cmd.png")
	if _, err := os.Stat("tmp_cmd.png"); err != nil {
		t.Fatal(err)
	}
}

func TestMergeCommandNoInputs(t *testing.T) {
	Cfg.Set("scenario", "")
	Cfg.Set("inputs", []string{})
	if _, err := mergeScenario(); err == nil {
		t.Error("expected an error when no layers are configured")
	}
}
