package walldist

import (
	"fmt"

	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/utils"
)

// ErrStructuralIntegrity is the sentinel for out of range mesh references
var ErrStructuralIntegrity = fem.ErrStructuralIntegrity

// CompactWallMesh is the geometry of the viscous wall boundaries restricted to
// the points that touch them, split into linear primitives
type CompactWallMesh struct {
	NDim    int
	Coords  [][]float64 // Wall points, ascending global order
	Conn    []int       // Primitive connectivity in compact point indices
	Offsets []int       // Primitive i uses Conn[Offsets[i]:Offsets[i+1]]
	Shapes  []utils.ElementType
	Markers []int
	Owners  []int // Surface element index within its marker

	MeshToSurface []int // Global point -> compact index, -1 when not on a wall
	SurfaceToMesh []int // Compact index -> global point
}

// NPrimitives is the number of linear wall primitives
func (cm *CompactWallMesh) NPrimitives() int {
	return len(cm.Shapes)
}

// NPoints is the number of distinct wall points
func (cm *CompactWallMesh) NPoints() int {
	return len(cm.Coords)
}

// IsEmpty is true when no viscous wall contributed a primitive
func (cm *CompactWallMesh) IsEmpty() bool {
	return len(cm.Shapes) == 0
}

// Release drops all storage of the compact mesh
func (cm *CompactWallMesh) Release() {
	*cm = CompactWallMesh{NDim: cm.NDim}
}

// ExtractWallSurface collects the surface elements of all non periodic
// markers classified as viscous walls and compacts their grid points
func ExtractWallSurface(m *fem.Mesh, isViscousWall utils.ViscousWallFunc) (cm *CompactWallMesh, err error) {
	var (
		nPoints = m.NPoints()
		onWall  = make([]bool, nPoints)
	)
	cm = &CompactWallMesh{NDim: m.NDim}

	// Flag the wall points and store the sub-primitives with global DOFs
	for iMarker := range m.Boundaries {
		bnd := &m.Boundaries[iMarker]
		if bnd.PeriodicBoundary || !isViscousWall(iMarker, bnd.BCType) {
			continue
		}
		for l := range bnd.SurfElem {
			var (
				surf = &bnd.SurfElem[l]
				se   *fem.StandardElement
			)
			if se, err = m.BoundaryFaceStandard(iMarker, l); err != nil {
				return nil, err
			}
			for _, dof := range surf.DOFsGridFace {
				if dof < 0 || dof >= nPoints {
					return nil, fmt.Errorf("marker %d surface element %d: grid DOF %d out of range [0,%d): %w",
						iMarker, l, dof, nPoints, ErrStructuralIntegrity)
				}
				onWall[dof] = true
			}
			for ii, k := range se.SubConn {
				if ii%se.NDOFsPerSub == 0 {
					cm.Offsets = append(cm.Offsets, len(cm.Conn))
					cm.Shapes = append(cm.Shapes, se.SubType)
					cm.Markers = append(cm.Markers, iMarker)
					cm.Owners = append(cm.Owners, l)
				}
				if k < 0 || k >= len(surf.DOFsGridFace) {
					return nil, fmt.Errorf("marker %d surface element %d: local DOF %d of %d: %w",
						iMarker, l, k, len(surf.DOFsGridFace), ErrStructuralIntegrity)
				}
				cm.Conn = append(cm.Conn, surf.DOFsGridFace[k])
			}
		}
	}
	cm.Offsets = append(cm.Offsets, len(cm.Conn))
	if cm.IsEmpty() {
		return // No viscous walls, every output stays empty
	}

	// Compaction in ascending global order
	cm.MeshToSurface = make([]int, nPoints)
	for i := 0; i < nPoints; i++ {
		cm.MeshToSurface[i] = -1
		if onWall[i] {
			cm.MeshToSurface[i] = len(cm.Coords)
			cm.SurfaceToMesh = append(cm.SurfaceToMesh, i)
			cm.Coords = append(cm.Coords, append([]float64(nil), m.Points[i][:m.NDim]...))
		}
	}
	for i, k := range cm.Conn {
		cm.Conn[i] = cm.MeshToSurface[k]
	}
	return
}
