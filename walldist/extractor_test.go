package walldist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/utils"
)

func TestExtractWallSurface(t *testing.T) {
	{ // Two wall faces sharing point 1 compact to three points
		m := twoQuads(t, utils.BCIsothermal, utils.BCFarfield)
		cm, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		require.NoError(t, err)
		assert.Equal(t, 2, cm.NDim)
		assert.Equal(t, 2, cm.NPrimitives())
		assert.Equal(t, 3, cm.NPoints())
		assert.Equal(t, []int{0, 1, 2}, cm.SurfaceToMesh)
		assert.Equal(t, []int{0, 1, 2, -1, -1, -1}, cm.MeshToSurface)
		assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {2, 0}}, cm.Coords)
		assert.Equal(t, []int{0, 1, 1, 2}, cm.Conn)
		assert.Equal(t, []int{0, 2, 4}, cm.Offsets)
		assert.Equal(t, []utils.ElementType{utils.Line, utils.Line}, cm.Shapes)
		assert.Equal(t, []int{0, 0}, cm.Markers)
		assert.Equal(t, []int{0, 1}, cm.Owners)
		// Coordinates are copies
		cm.Coords[0][0] = 42
		assert.Equal(t, 0., m.Points[0][0])
	}
	{ // The whole outer boundary as wall, the mapping stays injective
		m := twoQuads(t, utils.BCIsothermal, utils.BCHeatFlux)
		cm, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		require.NoError(t, err)
		assert.Equal(t, 6, cm.NPrimitives())
		assert.Equal(t, 6, cm.NPoints())
		seen := make(map[int]bool)
		for g, k := range cm.MeshToSurface {
			require.True(t, k >= 0)
			assert.False(t, seen[k])
			seen[k] = true
			assert.Equal(t, g, cm.SurfaceToMesh[k])
		}
		for _, k := range cm.Conn {
			assert.True(t, k >= 0 && k < cm.NPoints())
		}
		assert.Equal(t, []int{0, 0, 1, 1, 1, 1}, cm.Markers)
	}
	{ // No viscous walls
		m := twoQuads(t, utils.BCSlipWall, utils.BCFarfield)
		cm, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		require.NoError(t, err)
		assert.True(t, cm.IsEmpty())
		assert.Equal(t, 0, cm.NPoints())
		assert.Equal(t, []int{0}, cm.Offsets)
	}
	{ // A custom predicate promotes the slip wall
		m := twoQuads(t, utils.BCSlipWall, utils.BCFarfield)
		cm, err := ExtractWallSurface(m, utils.NewViscousWallPredicate(utils.BCSlipWall))
		require.NoError(t, err)
		assert.Equal(t, 2, cm.NPrimitives())
	}
	{ // Periodic markers never contribute, whatever their type
		m := twoQuads(t, utils.BCIsothermal, utils.BCFarfield)
		m.Boundaries[0].PeriodicBoundary = true
		cm, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		require.NoError(t, err)
		assert.True(t, cm.IsEmpty())
	}
	{ // A wall DOF outside the point table
		m := twoQuads(t, utils.BCIsothermal, utils.BCFarfield)
		m.Boundaries[0].SurfElem[1].DOFsGridFace = []int{1, 6}
		_, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		assert.ErrorIs(t, err, ErrStructuralIntegrity)
	}
	{ // A bad standard element index
		m := twoQuads(t, utils.BCIsothermal, utils.BCFarfield)
		m.Boundaries[0].SurfElem[0].IndStandard = 3
		_, err := ExtractWallSurface(m, utils.DefaultViscousWall)
		assert.ErrorIs(t, err, ErrStructuralIntegrity)
	}
}

func TestExtractHighOrderFace(t *testing.T) {
	// A quadratic wall face splits into two linear segments
	line, err := fem.NewStandardLine(2, 3)
	require.NoError(t, err)
	m := &fem.Mesh{
		NDim:                      2,
		Points:                    [][]float64{{0, 0}, {0.5, -0.1}, {1, 0}, {7, 7}},
		StandardBoundaryFacesGrid: []*fem.StandardElement{line},
		Boundaries: []fem.Boundary{
			{BCType: utils.BCIsothermal, SurfElem: []fem.SurfaceElement{{DOFsGridFace: []int{0, 1, 2}}}},
		},
	}
	cm, err := ExtractWallSurface(m, utils.DefaultViscousWall)
	require.NoError(t, err)
	assert.Equal(t, 2, cm.NPrimitives())
	assert.Equal(t, 3, cm.NPoints())
	assert.Equal(t, []int{0, 1, 1, 2}, cm.Conn)
	assert.Equal(t, []int{0, 0}, cm.Owners)
	assert.Equal(t, -1, cm.MeshToSurface[3])

	cm.Release()
	assert.True(t, cm.IsEmpty())
	assert.Nil(t, cm.Coords)
	assert.Nil(t, cm.MeshToSurface)
	assert.Equal(t, 2, cm.NDim)
}
