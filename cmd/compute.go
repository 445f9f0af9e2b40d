/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/walldist/InputParameters"
	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/mesh"
	"github.com/notargets/walldist/utils"
	"github.com/notargets/walldist/walldist"
)

type ModelCompute struct {
	GridFile   string
	ICFile     string
	Profile    bool
	ProfileDir string
	Verbose    bool
}

// ComputeCmd represents the compute command
var ComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the wall distance of a grid",
	Long: `
Reads an SU2 grid and an input deck naming the boundary condition of every
marker, builds the finite element mesh and fills the wall distance of all
integration points. Prints a summary per entity category.

walldist compute -F grid.su2 -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mc := &ModelCompute{
			GridFile:   viper.GetString("gridFile"),
			ICFile:     viper.GetString("inputConditionsFile"),
			Profile:    viper.GetBool("profile"),
			ProfileDir: viper.GetString("profileDir"),
			Verbose:    viper.GetBool("verbose"),
		}
		ip, err := processComputeInput(mc)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		ip.Print()
		if mc.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(mc.ProfileDir)).Stop()
		}
		start := time.Now()
		fm, err := RunCompute(mc, ip)
		if err != nil {
			panic(err)
		}
		PrintDistanceSummary(SummarizeWallDistance(fm))
		fmt.Printf("Wall distance computed in %v\n", time.Since(start))
	},
}

const exampleDeck = `
########################################
Title: "Flat plate"
PolynomialOrder: 2
IntegrationPoints: 4
ParallelDegree: 0 # One worker per CPU
ViscousWallKinds: [isothermal, heat_flux]
BCs:
  plate: isothermal
  inlet: farfield
  outlet: outflow
  top: symmetry
Periodic: []
########################################
`

func processComputeInput(mc *ModelCompute) (ip *InputParameters.WallDistanceParameters, err error) {
	if len(mc.GridFile) == 0 {
		return nil, fmt.Errorf("must supply a grid file (-F, --gridFile) in SU2 (.su2) format")
	}
	if len(mc.ICFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleDeck)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
	}
	var data []byte
	if data, err = os.ReadFile(mc.ICFile); err != nil {
		return
	}
	ip = &InputParameters.WallDistanceParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", mc.ICFile, err)
	}
	if mc.Verbose {
		ip.Verbose = true
	}
	return
}

func init() {
	rootCmd.AddCommand(ComputeCmd)
	ComputeCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format")
	ComputeCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- PolynomialOrder\n\t- BCs (marker name: BC name)")
	ComputeCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
	ComputeCmd.Flags().String("profileDir", ".", "directory for the CPU profile")
	ComputeCmd.Flags().BoolP("verbose", "v", false, "log progress of the computation")
	if err := viper.BindPFlags(ComputeCmd.Flags()); err != nil {
		panic(err)
	}
}

// RunCompute reads the grid, builds the finite element mesh and computes its
// wall distance
func RunCompute(mc *ModelCompute, ip *InputParameters.WallDistanceParameters) (fm *fem.Mesh, err error) {
	var (
		grid *mesh.Mesh
		opts = walldist.Options{ParallelDegree: ip.ParallelDegree, Verbose: ip.Verbose}
		bo   = mesh.BuildOptions{
			Order:             ip.PolynomialOrder,
			IntegrationPoints: ip.IntegrationPoints,
			Periodic:          ip.Periodic,
		}
	)
	if grid, err = mesh.ReadMeshFile(mc.GridFile); err != nil {
		return
	}
	if ip.Verbose {
		grid.PrintStatistics()
	}
	if bo.BCs, err = ip.MarkerBCs(); err != nil {
		return
	}
	if fm, err = mesh.BuildFEMMesh(grid, bo); err != nil {
		return nil, err
	}
	if opts.IsViscousWall, err = ip.ViscousWallPredicate(); err != nil {
		return nil, err
	}
	if err = walldist.ComputeWallDistance(fm, opts); err != nil {
		return nil, err
	}
	if ip.Verbose {
		log.Printf("Memory after wall distance: %s", utils.GetMemUsage())
	}
	return
}

type DistanceSummary struct {
	Category       string
	NPoints        int
	Min, Max, Mean float64
}

func summarize(name string, d []float64) (ds DistanceSummary) {
	ds.Category, ds.NPoints = name, len(d)
	if len(d) != 0 {
		ds.Min, ds.Max = floats.Min(d), floats.Max(d)
		ds.Mean = floats.Sum(d) / float64(len(d))
	}
	return
}

// SummarizeWallDistance returns the distance range of every category,
// periodic markers excluded
func SummarizeWallDistance(fm *fem.Mesh) (sums []DistanceSummary) {
	sums = append(sums,
		summarize("Volume elements", fm.WallDistanceElements),
		summarize("Matching faces", fm.WallDistanceMatchingFaces))
	for _, bnd := range fm.Boundaries {
		if bnd.PeriodicBoundary {
			continue
		}
		sums = append(sums, summarize(fmt.Sprintf("Marker %s [%s]", bnd.MarkerTag, bnd.BCType), bnd.WallDistanceFaces))
	}
	return
}

func PrintDistanceSummary(sums []DistanceSummary) {
	fmt.Printf("%-32s %10s %14s %14s %14s\n", "Category", "Points", "Min", "Max", "Mean")
	for _, ds := range sums {
		fmt.Printf("%-32s %10d %14.6e %14.6e %14.6e\n", ds.Category, ds.NPoints, ds.Min, ds.Max, ds.Mean)
	}
}
