package utils

import (
	"fmt"
	"strings"
)

// BCType is the physical kind of a boundary marker
type BCType uint16

const (
	// BCNone indicates no boundary condition (interior face)
	BCNone BCType = iota

	// Flow boundary conditions
	BCInflow   // Inflow/inlet boundary
	BCOutflow  // Outflow/outlet boundary
	BCWall     // Generic wall, viscosity not specified
	BCSlipWall // Slip/inviscid wall, Euler wall
	BCSymmetry // Symmetry plane
	BCPeriodic // Periodic boundary
	BCFarfield // Far-field boundary

	// Thermal boundary conditions, both are no-slip walls
	BCIsothermal // Fixed temperature
	BCHeatFlux   // Prescribed heat flux, adiabatic when zero

	// Special boundary conditions
	BCMovingWall        // Moving no-slip wall
	BCPressureOutlet    // Pressure-specified outlet
	BCPartitionBoundary // Boundary between parallel partitions

	// User-defined (reserve space for custom BCs)
	BCUserDefined1
	BCUserDefined2
	BCUserDefined3
)

var bcNames = map[BCType]string{
	BCNone:              "None",
	BCInflow:            "Inflow",
	BCOutflow:           "Outflow",
	BCWall:              "Wall",
	BCSlipWall:          "SlipWall",
	BCSymmetry:          "Symmetry",
	BCPeriodic:          "Periodic",
	BCFarfield:          "Farfield",
	BCIsothermal:        "Isothermal",
	BCHeatFlux:          "HeatFlux",
	BCMovingWall:        "MovingWall",
	BCPressureOutlet:    "PressureOutlet",
	BCPartitionBoundary: "PartitionBoundary",
	BCUserDefined1:      "UserDefined1",
	BCUserDefined2:      "UserDefined2",
	BCUserDefined3:      "UserDefined3",
}

// String returns the string representation of a BCType
func (bc BCType) String() string {
	if name, ok := bcNames[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	"inlet":  BCInflow,
	"inflow": BCInflow,

	"outlet":          BCOutflow,
	"outflow":         BCOutflow,
	"exit":            BCOutflow,
	"pressure_outlet": BCPressureOutlet,

	"wall":          BCWall,
	"slip":          BCSlipWall,
	"slip_wall":     BCSlipWall,
	"euler":         BCSlipWall,
	"inviscid_wall": BCSlipWall,
	"moving_wall":   BCMovingWall,

	"symmetry":   BCSymmetry,
	"symmetric":  BCSymmetry,
	"farfield":   BCFarfield,
	"far_field":  BCFarfield,
	"freestream": BCFarfield,
	"periodic":   BCPeriodic,

	"isothermal": BCIsothermal,
	"heat_flux":  BCHeatFlux,
	"heatflux":   BCHeatFlux,
	"adiabatic":  BCHeatFlux,
	"no_slip":    BCHeatFlux,
	"noslip":     BCHeatFlux,

	"partition": BCPartitionBoundary,
}

// To add custom BC names, applications can modify BCNameMap:
//   utils.BCNameMap["my_custom_bc"] = utils.BCUserDefined1

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (bc BCType, err error) {
	var ok bool
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bc, ok = BCNameMap[lowerName]; !ok {
		err = fmt.Errorf("unknown boundary condition name: %q", name)
	}
	return
}

// ViscousWallFunc classifies a boundary marker as a no-slip solid wall
type ViscousWallFunc func(markerID int, bc BCType) bool

// NewViscousWallPredicate returns a classifier that accepts any of the kinds
func NewViscousWallPredicate(kinds ...BCType) ViscousWallFunc {
	set := make(map[BCType]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return func(_ int, bc BCType) bool {
		_, ok := set[bc]
		return ok
	}
}

// DefaultViscousWall accepts isothermal and heat flux walls
var DefaultViscousWall = NewViscousWallPredicate(BCIsothermal, BCHeatFlux)
