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
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"

	"github.com/spatialmodel/topology"
)

// faceVars lists the built-in per-face variables that output expressions
// may reference.
var faceVars = []string{"Area", "Perimeter", "Sides", "Holes", "Tag", "TagA", "TagB"}

// faceValues returns the expression parameters for one face.
func faceValues(f *topology.Face) map[string]interface{} {
	indicator := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	return map[string]interface{}{
		"Area":      f.Area(),
		"Perimeter": f.Perimeter(),
		"Sides":     float64(len(f.Halfedges())),
		"Holes":     float64(len(f.Holes)),
		"Tag":       float64(f.Tag),
		"TagA":      indicator(f.Tag.Has(topology.TagA)),
		"TagB":      indicator(f.Tag.Has(topology.TagB)),
	}
}

// An Outputter holds the configuration for writing face attributes to a
// file. outputVariables maps the names of the columns that should be
// written to expressions defining how each column is calculated.
// Expressions can use the built-in face variables, other user-defined
// columns, and functions.
//
// modelVariables is generated automatically from the built-in variables
// the requested expressions end up depending on.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
}

// NewOutputter initializes an Outputter and adds a set of default output
// functions:
//
// 'exp(x)' applies the exponential function e^x.
//
// 'log(x)' takes the natural logarithm of x.
//
// 'sqrt(x)' takes the square root of x.
//
// 'abs(x)' takes the absolute value of x.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	scalarFunc := func(name string, f func(float64) float64) govaluate.ExpressionFunction {
		return func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("topoutil: got %d arguments for function '%s', but needs 1", len(arg), name)
			}
			v, ok := arg[0].(float64)
			if !ok {
				return nil, fmt.Errorf("topoutil: function '%s' needs a numeric argument", name)
			}
			return f(v), nil
		}
	}
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp":  scalarFunc("exp", math.Exp),
		"log":  scalarFunc("log", math.Log),
		"sqrt": scalarFunc("sqrt", math.Sqrt),
		"abs":  scalarFunc("abs", math.Abs),
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := Outputter{
		fileName:        fileName,
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: defaultOutputFuncs,
	}
	for key, val := range outputVariables {
		val = strings.Replace(val, "\r\n", " ", -1)
		val = strings.Replace(val, "\n", " ", -1)
		o.outputVariables[os.ExpandEnv(key)] = os.ExpandEnv(val)
	}
	if len(o.outputVariables) == 0 {
		return nil, fmt.Errorf("topoutil: there are no variables specified for output; fill in the OutputVariables configuration and try again")
	}

	// Column names wrapped in braces may contain characters, such as
	// spaces, that expressions cannot otherwise reference. Register the
	// brace-free form as an alias before resolving derivatives.
	for _, val := range o.outputVariables {
		regx, _ := regexp.Compile("\\{(.*?)\\}")
		for _, m := range regx.FindAllString(val, -1) {
			if strings.Count(m, "{") > 1 || strings.Count(m, "}") > 1 {
				return nil, fmt.Errorf("topoutil: unsupported use of braces in output expression %q", val)
			}
			o.outputVariables[m] = m[1 : len(m)-1]
		}
	}

	err := o.checkForDerivatives()

	for k1, v1 := range o.outputVariables {
		if strings.Contains(k1, "{") {
			for k2, v2 := range o.outputVariables {
				if k1 != k2 {
					o.outputVariables[k2] = strings.Replace(v2, v1, "{"+v1+"}", -1)
				}
			}
			delete(o.outputVariables, k1)
		}
	}

	return &o, err
}

// removeDuplicates returns s with only the first occurrence of each
// string kept.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

func checkPrefix(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return regexp.MatchString("[a-zA-Z0-9_]", string(s[0]))
}

func checkSuffix(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return regexp.MatchString("[a-zA-Z0-9_]", string(s[len(s)-1]))
}

// checkForDerivatives identifies the built-in variables required to
// calculate the requested output variables, rewriting any reference to a
// user-defined column into the expression that defines it.
func (o *Outputter) checkForDerivatives() error {
	o.modelVariables = make([]string, 0, len(o.outputVariables))
	for key, val := range o.outputVariables {
		o.outputVariables[key] = strings.Replace(val, "{", "", -1)
		o.outputVariables[key] = strings.Replace(o.outputVariables[key], "}", "", -1)
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(o.outputVariables[key], o.outputFunctions)
		if err != nil {
			return fmt.Errorf("topoutil: parsing output expression for %s: %v", key, err)
		}
		uniqueVars := removeDuplicates(expression.Vars())
		o.modelVariables = append(o.modelVariables, uniqueVars...)
		// A variable mentioned in this expression may itself be defined
		// by another expression. If so, substitute the definition in and
		// start over, because the definition can introduce new variables.
		for _, uniqueVar := range uniqueVars {
			if o.outputVariables[uniqueVar] != "" && o.outputVariables[uniqueVar] != uniqueVar {
				// Splitting on the variable name may also split matches
				// inside longer names, such as 'Tag' inside 'TagA'. Check
				// the characters on each side of the split before
				// substituting.
				splitVal := strings.Split(val, uniqueVar)
				for i := 0; i < len(splitVal)-1; i++ {
					isSuffix, err := checkSuffix(splitVal[i])
					if err != nil {
						return fmt.Errorf("topoutil: parsing output expression for %s: %v", key, err)
					}
					isPrefix, err := checkPrefix(splitVal[i+1])
					if err != nil {
						return fmt.Errorf("topoutil: parsing output expression for %s: %v", key, err)
					}
					splitVal[i] = splitVal[i] + uniqueVar
					if !isSuffix && !isPrefix {
						splitVal[i] = strings.Replace(splitVal[i], uniqueVar, "("+o.outputVariables[uniqueVar]+")", -1)
					}
				}
				o.outputVariables[key] = strings.Join(splitVal, "")
				return o.checkForDerivatives()
			}
		}
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	return nil
}

// checkModelVars verifies that every built-in variable the output
// expressions depend on actually exists.
func (o *Outputter) checkModelVars() error {
	ok := make(map[string]struct{}, len(faceVars))
	for _, v := range faceVars {
		ok[v] = struct{}{}
	}
	for _, v := range o.modelVariables {
		if _, found := ok[v]; !found {
			return fmt.Errorf("topoutil: undefined variable name '%s' (available: %s)", v, strings.Join(faceVars, ", "))
		}
	}
	return nil
}

// checkOutputNames checks that the output column names fit in shapefile
// attribute fields: at most 10 characters, starting with a letter, with
// no unsupported characters.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		long := len(key) > 10
		okChars, err := regexp.MatchString("^[A-Za-z]\\w*$", key)
		if err != nil {
			panic(err)
		}
		switch {
		case long && !okChars:
			return fmt.Errorf("topoutil: output variable name '%s' exceeds 10 characters and includes unsupported character(s)", key)
		case long:
			return fmt.Errorf("topoutil: output variable name '%s' exceeds 10 characters", key)
		case !okChars:
			return fmt.Errorf("topoutil: output variable name '%s' includes unsupported characters", key)
		}
	}
	return nil
}

// Results evaluates the output expressions for every shell face of g,
// returning one column per output variable in face table order.
func (o *Outputter) Results(g *topology.Graph) (map[string][]float64, error) {
	if err := o.checkModelVars(); err != nil {
		return nil, err
	}

	expressions := make(map[string]*govaluate.EvaluableExpression, len(o.outputVariables))
	for name, expr := range o.outputVariables {
		compiled, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("topoutil: parsing output expression for %s: %v", name, err)
		}
		expressions[name] = compiled
	}

	shells := g.Shells()
	results := make(map[string][]float64, len(expressions))
	for name := range expressions {
		results[name] = make([]float64, len(shells))
	}
	for i, f := range shells {
		params := faceValues(f)
		for name, expression := range expressions {
			v, err := expression.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("topoutil: evaluating %s for face %d: %v", name, i, err)
			}
			switch v := v.(type) {
			case float64:
				results[name][i] = v
			case bool:
				if v {
					results[name][i] = 1
				}
			default:
				return nil, fmt.Errorf("topoutil: expression for %s returned %T; want a number", name, v)
			}
		}
	}
	return results, nil
}

// Output evaluates the output expressions for g and writes the result to
// the Outputter's file. The format follows the file extension: .shp for
// a shapefile or .geojson/.json for GeoJSON. srText, when non-empty, is
// written alongside shapefile output as its .prj spatial reference.
func (o *Outputter) Output(g *topology.Graph, srText string) error {
	results, err := o.Results(g)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(o.fileName)) {
	case ".shp":
		if err := checkOutputNames(o.outputVariables); err != nil {
			return err
		}
		return o.writeShapefile(g, results, srText)
	case ".geojson", ".json":
		return writeGeoJSON(g, results, o.fileName)
	}
	return fmt.Errorf("topoutil: %s: unsupported output type (want .shp, .geojson, or .json)", o.fileName)
}

func (o *Outputter) writeShapefile(g *topology.Graph, results map[string][]float64, srText string) error {
	vars := make([]string, 0, len(results))
	for v := range results {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	fields := make([]goshp.Field, len(vars))
	for i, v := range vars {
		fields[i] = goshp.FloatField(v, 14, 8)
	}

	fileBase := strings.TrimSuffix(o.fileName, filepath.Ext(o.fileName))
	shape, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("topoutil: creating output shapefile: %v", err)
	}
	for i, f := range g.Shells() {
		outFields := make([]interface{}, len(vars))
		for j, v := range vars {
			outFields[j] = results[v][i]
		}
		if err := shape.EncodeFields(f.Polygon(), outFields...); err != nil {
			return fmt.Errorf("topoutil: writing output shapefile: %v", err)
		}
	}
	shape.Close()

	if srText == "" {
		return nil
	}
	f, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("topoutil: creating output prj file: %v", err)
	}
	fmt.Fprint(f, srText)
	return f.Close()
}
