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

// Package topoutil provides commands for the topology command-line tool.
package topoutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/topology"
	"github.com/spatialmodel/topology/raster"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands in this package.
// It can be replaced to redirect their output.
var Log logrus.FieldLogger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the topology tool.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to print debug-level log messages.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "scenario",
			usage: `
              scenario specifies the location of a TOML file listing the
              geometry layers to merge into a topology. If it is set, the
              inputs, roles, and proj variables are ignored.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
		{
			name: "inputs",
			usage: `
              inputs is a list of geometry files (.shp, .geojson, .json, or
              .gob) to merge into a topology. Files may be local or HTTP(S)
              addresses, and may contain environment variables.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
		{
			name: "roles",
			usage: `
              roles maps input file locations to overlay roles ("A" or "B").
              Files without a role take part in a one-sided merge.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
		{
			name: "proj",
			usage: `
              proj is the Proj4 specification of the spatial reference system
              the topology coordinates are in. When merging, input layers are
              transformed into it; when exporting, it is written alongside the
              output shapefile; when serving maps, it is the starting point
              for the web mercator transform.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags(), exportCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "graph",
			usage: `
              graph is the location of the topology graph file. The merge
              command creates it; the other commands read it.`,
			defaultVal: "topology.gob",
			flagsets: []*pflag.FlagSet{mergeCmd.Flags(), verifyCmd.Flags(), statsCmd.Flags(),
				exportCmd.Flags(), serveCmd.Flags(), rasterCmd.Flags()},
		},
		{
			name: "geojson",
			usage: `
              geojson optionally specifies a GeoJSON file to write the merged
              faces to in addition to the graph file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mergeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the shapefile or GeoJSON file that
              face attributes will be written to.`,
			shorthand:  "o",
			defaultVal: "output.shp",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which face variables should be output,
              and how they are calculated. Expressions may combine the
              built-in variables (for example Area, Perimeter, or TagA) using
              arithmetic and the exp, log, sqrt, and abs functions.`,
			defaultVal: map[string]string{"Tag": "Tag", "Area": "Area"},
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), serveCmd.Flags(), mergeCmd.Flags()},
		},
		{
			name: "addr",
			usage: `
              addr is the address to serve the map webserver at.`,
			defaultVal: "localhost:8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "nx",
			usage: `
              nx is the number of rasterization grid columns.`,
			defaultVal: 256,
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
		{
			name: "ny",
			usage: `
              ny is the number of rasterization grid rows.`,
			defaultVal: 256,
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width is the output image width in pixels. When it differs from
              nx, the raster is resampled.`,
			defaultVal: 1024,
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
		{
			name: "height",
			usage: `
              height is the output image height in pixels. When it differs
              from ny, the raster is resampled.`,
			defaultVal: 1024,
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
		{
			name: "kernel",
			usage: `
              kernel chooses the resampling kernel: nearest, bilinear,
              bicubic, or lanczos.`,
			defaultVal: "bilinear",
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
		{
			name: "png",
			usage: `
              png is the location to write the rendered image to.`,
			defaultVal: "topology.png",
			flagsets:   []*pflag.FlagSet{rasterCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("TOPOLOGY")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(mergeCmd)
	Root.AddCommand(verifyCmd)
	Root.AddCommand(statsCmd)
	Root.AddCommand(exportCmd)
	Root.AddCommand(serveCmd)
	Root.AddCommand(rasterCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("topology: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "topology",
	Short: "A polygon overlay toolkit.",
	Long: `topology merges polygon layers into a shared edge mesh where every
boundary is represented exactly once, and then answers questions about
the result: which faces came from which layer, what their shapes and
sizes are, and what they look like on a map.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TOPOLOGY_var' where 'var' is
the name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		if Cfg.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the topology tool.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("topology v%s\n", topology.Version)
	},
	DisableAutoGenTag: true,
}

// mergeCmd is a command that merges geometry layers into a topology graph.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge geometry layers into a topology graph.",
	Long: `merge reads the geometry layers given by the scenario or inputs
configuration variables, noded-merges them into a single topology graph
so that shared boundaries are represented exactly once, verifies the
result, and saves it to the location given by the graph variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mergeScenario()
		if err != nil {
			return err
		}
		g, err := s.Build()
		if err != nil {
			return err
		}
		if err := g.VerifyTopology(); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"vertices": g.NumVertices(),
			"edges":    g.NumEdges(),
			"faces":    g.NumFaces(),
		}).Info("merged topology")
		if err := WriteGraph(g, os.ExpandEnv(Cfg.GetString("graph"))); err != nil {
			return err
		}
		if gj := os.ExpandEnv(Cfg.GetString("geojson")); gj != "" {
			outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
			if err != nil {
				return err
			}
			o, err := NewOutputter(gj, outputVars, nil)
			if err != nil {
				return err
			}
			return o.Output(g, "")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// mergeScenario assembles the overlay scenario from the configuration,
// either from a scenario file or directly from the inputs, roles, and
// proj variables.
func mergeScenario() (*Scenario, error) {
	if path := Cfg.GetString("scenario"); path != "" {
		return ReadScenario(path)
	}
	inputs := expandStringSlice(Cfg.GetStringSlice("inputs"))
	if len(inputs) == 0 {
		return nil, fmt.Errorf("topology: there are no layers to merge; set either the scenario or the inputs configuration variable")
	}
	roles := GetStringMapString("roles", Cfg)
	s := &Scenario{Proj4: Cfg.GetString("proj")}
	for _, path := range inputs {
		s.Layers = append(s.Layers, Layer{Path: path, Role: roles[path]})
	}
	return s, nil
}

// verifyCmd is a command that checks the structural invariants of a
// saved topology graph.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a topology graph for consistency.",
	Long: `verify loads the topology graph given by the graph configuration
variable and checks its structural invariants, returning an error
describing the first inconsistency found, if there is one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ReadGraph(os.ExpandEnv(Cfg.GetString("graph")))
		if err != nil {
			return err
		}
		if err := g.VerifyTopology(); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"vertices": g.NumVertices(),
			"edges":    g.NumEdges(),
			"faces":    g.NumFaces(),
		}).Info("topology is consistent")
		return nil
	},
	DisableAutoGenTag: true,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a topology graph.",
	Long: `stats loads the topology graph given by the graph configuration
variable and prints summary statistics about its elements, tags, and
face geometry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ReadGraph(os.ExpandEnv(Cfg.GetString("graph")))
		if err != nil {
			return err
		}
		Summarize(g).WriteTable(cmd.OutOrStdout())
		return nil
	},
	DisableAutoGenTag: true,
}

// exportCmd is a command that writes face attributes to a shapefile or
// GeoJSON file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export topology faces to a shapefile or GeoJSON file.",
	Long: `export loads the topology graph given by the graph configuration
variable, evaluates the OutputVariables expressions for each face, and
writes the faces and their attributes to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ReadGraph(os.ExpandEnv(Cfg.GetString("graph")))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		o, err := NewOutputter(outputFile, outputVars, nil)
		if err != nil {
			return err
		}
		return o.Output(g, os.ExpandEnv(Cfg.GetString("proj")))
	},
	DisableAutoGenTag: true,
}

// serveCmd is a command that serves an interactive map of a topology
// graph.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve map tiles for a topology graph.",
	Long: `serve loads the topology graph given by the graph configuration
variable, evaluates the OutputVariables expressions for each face, and
starts a webserver that shows the results on an interactive map. If the
proj variable is set, the faces are transformed from that spatial
reference system to web mercator before being served.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ReadGraph(os.ExpandEnv(Cfg.GetString("graph")))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		o, err := NewOutputter("", outputVars, nil)
		if err != nil {
			return err
		}
		s, err := NewMapServer(g, o, os.ExpandEnv(Cfg.GetString("proj")))
		if err != nil {
			return err
		}
		s.Log = Log
		return s.ListenAndServe(Cfg.GetString("addr"))
	},
	DisableAutoGenTag: true,
}

// rasterCmd is a command that renders a topology graph to an image.
var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Render a topology graph to a PNG image.",
	Long: `raster loads the topology graph given by the graph configuration
variable, rasterizes its face tags onto an nx by ny grid covering the
graph, resamples the grid to the requested image size using the chosen
kernel, and writes the result as a PNG image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ReadGraph(os.ExpandEnv(Cfg.GetString("graph")))
		if err != nil {
			return err
		}
		k, err := raster.ParseKernel(Cfg.GetString("kernel"))
		if err != nil {
			return err
		}
		return RenderPNG(g, os.ExpandEnv(Cfg.GetString("png")),
			Cfg.GetInt("nx"), Cfg.GetInt("ny"),
			Cfg.GetInt("width"), Cfg.GetInt("height"), k)
	},
	DisableAutoGenTag: true,
}
