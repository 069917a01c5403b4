package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/encodeous/topomon/render"
	"github.com/encodeous/topomon/source"
	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type optimizeResult struct {
	Nodes     int          `yaml:"nodes"`
	Clusters  int          `yaml:"clusters"`
	Bandwidth float64      `yaml:"bandwidth"`
	Links     []state.Link `yaml:"links"`
	Redundant []state.Link `yaml:"redundant"`
	Plot      string       `yaml:"plot,omitempty"`
}

var optimizeCmd = &cobra.Command{
	Use:     "optimize",
	Aliases: []string{"opt"},
	Short:   "Computes the spanning forest of a link file once",
	Long: `Reads links from a YAML file (or the built-in sample network when --links is not given),
prints the links kept by the spanning forest and optionally plots them.`,
	Run: func(cmd *cobra.Command, args []string) {
		linksPath, _ := cmd.Flags().GetString("links")
		plotDir, _ := cmd.Flags().GetString("plot")
		dot, _ := cmd.Flags().GetBool("dot")

		var src source.LinkSource = source.Static(state.StaticLinks())
		if linksPath != "" {
			src = &source.File{Path: linksPath}
		}
		links, err := src.Fetch(cmd.Context())
		if err != nil {
			panic(err)
		}

		g, forest, err := topology.Optimize(links)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(1)
		}

		res := optimizeResult{
			Nodes:     forest.NumNodes(),
			Clusters:  forest.Components(),
			Bandwidth: forest.TotalBandwidth(),
			Links:     forest.Links(),
			Redundant: make([]state.Link, 0),
		}
		for _, e := range g.Edges() {
			if !forest.HasEdge(e.A, e.B) {
				res.Redundant = append(res.Redundant, e.Link())
			}
		}

		if plotDir != "" {
			r := &render.PlotRenderer{Seed: state.DefaultLayoutSeed, Dot: dot}
			res.Plot, err = r.Save(plotDir, time.Now(), g, forest)
			if err != nil {
				panic(err)
			}
		}

		out, err := yaml.Marshal(res)
		if err != nil {
			panic(err)
		}
		fmt.Print(string(out))
	},
	GroupID: "mon",
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringP("links", "l", "", "YAML file of links")
	optimizeCmd.Flags().StringP("plot", "p", "", "write the plot into this directory")
	optimizeCmd.Flags().Bool("dot", false, "also write a graphviz file next to the plot")
}
