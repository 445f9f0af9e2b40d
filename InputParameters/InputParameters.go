package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/walldist/utils"
)

// Parameters obtained from the YAML input file
type WallDistanceParameters struct {
	Title             string            `json:"Title"`
	PolynomialOrder   int               `json:"PolynomialOrder"`   // Grid order, 1 if unset
	IntegrationPoints int               `json:"IntegrationPoints"` // Gauss points per direction, PolynomialOrder+1 if unset
	ParallelDegree    int               `json:"ParallelDegree"`    // Workers per entity category, one per CPU if unset
	Verbose           bool              `json:"Verbose"`
	ViscousWallKinds  []string          `json:"ViscousWallKinds"` // BC names treated as no-slip walls
	BCs               map[string]string `json:"BCs"`              // Marker tag -> BC name
	Periodic          []string          `json:"Periodic"`         // Periodic marker tags
}

var DefaultViscousWallKinds = []string{"isothermal", "heat_flux"}

// Parse reads the deck, fills in defaults and checks every BC name
func (ip *WallDistanceParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.PolynomialOrder == 0 {
		ip.PolynomialOrder = 1
	}
	if ip.IntegrationPoints == 0 {
		ip.IntegrationPoints = ip.PolynomialOrder + 1
	}
	if len(ip.ViscousWallKinds) == 0 {
		ip.ViscousWallKinds = append([]string(nil), DefaultViscousWallKinds...)
	}
	switch {
	case ip.PolynomialOrder < 0:
		return fmt.Errorf("PolynomialOrder must be positive, have %d", ip.PolynomialOrder)
	case ip.IntegrationPoints < 0:
		return fmt.Errorf("IntegrationPoints must be positive, have %d", ip.IntegrationPoints)
	case ip.ParallelDegree < 0:
		return fmt.Errorf("ParallelDegree must not be negative, have %d", ip.ParallelDegree)
	}
	if _, err = ip.ViscousWallPredicate(); err != nil {
		return
	}
	_, err = ip.MarkerBCs()
	return
}

// ViscousWallPredicate classifies markers by the configured wall kinds
func (ip *WallDistanceParameters) ViscousWallPredicate() (utils.ViscousWallFunc, error) {
	kinds := make([]utils.BCType, len(ip.ViscousWallKinds))
	for i, name := range ip.ViscousWallKinds {
		bc, err := utils.ParseBCName(name)
		if err != nil {
			return nil, fmt.Errorf("ViscousWallKinds: %w", err)
		}
		kinds[i] = bc
	}
	return utils.NewViscousWallPredicate(kinds...), nil
}

// MarkerBCs returns the boundary condition of every listed marker
func (ip *WallDistanceParameters) MarkerBCs() (bcs map[string]utils.BCType, err error) {
	bcs = make(map[string]utils.BCType, len(ip.BCs))
	for _, tag := range ip.sortedMarkers() {
		if bcs[tag], err = utils.ParseBCName(ip.BCs[tag]); err != nil {
			return nil, fmt.Errorf("BCs[%s]: %w", tag, err)
		}
	}
	return
}

func (ip *WallDistanceParameters) sortedMarkers() (keys []string) {
	keys = make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func (ip *WallDistanceParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Integration Points\n", ip.IntegrationPoints)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Printf("%v\t= Viscous Wall Kinds\n", ip.ViscousWallKinds)
	for _, key := range ip.sortedMarkers() {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
	if len(ip.Periodic) != 0 {
		fmt.Printf("%v\t= Periodic\n", ip.Periodic)
	}
}
