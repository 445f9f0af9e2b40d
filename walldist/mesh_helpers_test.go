package walldist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/utils"
)

// unitSquare is one bilinear quad on [0,1]^2 with one marker per edge:
// lower, right, upper, left. Points are numbered lexicographically.
func unitSquare(t *testing.T, bcs [4]utils.BCType) *fem.Mesh {
	t.Helper()
	quad, err := fem.NewStandardQuad(1, 2)
	require.NoError(t, err)
	line, err := fem.NewStandardLine(1, 2)
	require.NoError(t, err)
	edges := [4][]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}}
	tags := [4]string{"lower", "right", "upper", "left"}
	m := &fem.Mesh{
		NDim:                      2,
		Points:                    [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		StandardElementsGrid:      []*fem.StandardElement{quad},
		StandardBoundaryFacesGrid: []*fem.StandardElement{line},
		VolElem: []fem.VolumeElement{
			{ElemType: utils.Quad, IndStandard: 0, NodeIDsGrid: []int{0, 1, 2, 3}},
		},
		NVolElemOwned: 1,
	}
	for i := range edges {
		m.Boundaries = append(m.Boundaries, fem.Boundary{
			MarkerTag: tags[i],
			BCType:    bcs[i],
			SurfElem: []fem.SurfaceElement{
				{IndStandard: 0, VolElemID: 0, DOFsGridFace: edges[i]},
			},
		})
	}
	return m
}

// twoQuads is the strip [0,2]x[0,1] split into two bilinear quads joined by a
// matching face at x=1. Marker 0 is the lower edge (two faces), marker 1 the
// rest of the outer boundary.
func twoQuads(t *testing.T, lower, rest utils.BCType) *fem.Mesh {
	t.Helper()
	quad, err := fem.NewStandardQuad(1, 3)
	require.NoError(t, err)
	line, err := fem.NewStandardLine(1, 3)
	require.NoError(t, err)
	//  3---4---5
	//  |   |   |
	//  0---1---2
	m := &fem.Mesh{
		NDim:                      2,
		Points:                    [][]float64{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}},
		StandardElementsGrid:      []*fem.StandardElement{quad},
		StandardMatchingFacesGrid: []*fem.StandardElement{line},
		StandardBoundaryFacesGrid: []*fem.StandardElement{line},
		VolElem: []fem.VolumeElement{
			{ElemType: utils.Quad, NodeIDsGrid: []int{0, 1, 3, 4}},
			{ElemType: utils.Quad, NodeIDsGrid: []int{1, 2, 4, 5}},
		},
		NVolElemOwned: 2,
		MatchingFaces: []fem.MatchingFace{
			{ElemID0: 0, ElemID1: 1, DOFsGridFaceSide0: []int{1, 4}, DOFsGridFaceSide1: []int{4, 1}},
		},
		Boundaries: []fem.Boundary{
			{MarkerTag: "lower", BCType: lower, SurfElem: []fem.SurfaceElement{
				{VolElemID: 0, DOFsGridFace: []int{0, 1}},
				{VolElemID: 1, DOFsGridFace: []int{1, 2}},
			}},
			{MarkerTag: "rest", BCType: rest, SurfElem: []fem.SurfaceElement{
				{VolElemID: 1, DOFsGridFace: []int{2, 5}},
				{VolElemID: 1, DOFsGridFace: []int{5, 4}},
				{VolElemID: 0, DOFsGridFace: []int{4, 3}},
				{VolElemID: 0, DOFsGridFace: []int{3, 0}},
			}},
		},
	}
	return m
}

// unitCube is one trilinear hex on [0,1]^3 with the bottom face as an
// isothermal wall, the top face as a heat flux wall and the four sides as
// farfield
func unitCube(t *testing.T) *fem.Mesh {
	t.Helper()
	hex, err := fem.NewStandardHex(1, 2)
	require.NoError(t, err)
	face, err := fem.NewStandardQuad(1, 2)
	require.NoError(t, err)
	m := &fem.Mesh{
		NDim:                      3,
		StandardElementsGrid:      []*fem.StandardElement{hex},
		StandardBoundaryFacesGrid: []*fem.StandardElement{face},
		NVolElemOwned:             1,
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				m.Points = append(m.Points, []float64{float64(i), float64(j), float64(k)})
			}
		}
	}
	m.VolElem = []fem.VolumeElement{{ElemType: utils.Hex, NodeIDsGrid: []int{0, 1, 2, 3, 4, 5, 6, 7}}}
	surf := func(dofs ...[]int) (se []fem.SurfaceElement) {
		for _, d := range dofs {
			se = append(se, fem.SurfaceElement{DOFsGridFace: d})
		}
		return
	}
	m.Boundaries = []fem.Boundary{
		{MarkerTag: "bottom", BCType: utils.BCIsothermal, SurfElem: surf([]int{0, 1, 2, 3})},
		{MarkerTag: "top", BCType: utils.BCHeatFlux, SurfElem: surf([]int{4, 5, 6, 7})},
		{MarkerTag: "sides", BCType: utils.BCFarfield, SurfElem: surf(
			[]int{0, 1, 4, 5}, []int{2, 3, 6, 7}, []int{0, 2, 4, 6}, []int{1, 3, 5, 7})},
	}
	return m
}

// recordingService remembers what the tree was built from
type recordingService struct {
	WallTreeService
	nCoords, nConn, nShapes int
	built                   int
}

func (rs *recordingService) Build(cm *CompactWallMesh) (QueryHandle, error) {
	rs.nCoords, rs.nConn, rs.nShapes = len(cm.Coords), len(cm.Conn), len(cm.Shapes)
	rs.built++
	return rs.WallTreeService.Build(cm)
}
