package fem

import (
	"errors"
	"fmt"

	"github.com/notargets/walldist/utils"
)

// ErrStructuralIntegrity is returned when the mesh references data that does
// not exist, like a grid DOF outside the point table
var ErrStructuralIntegrity = errors.New("mesh structural integrity violation")

// DistanceView is the part of a category buffer owned by one entity
type DistanceView struct {
	Offset, Count int
}

// Slice returns the owned sub range of buf, capped so that appends can not
// spill into the range of the next entity
func (v DistanceView) Slice(buf []float64) []float64 {
	if buf == nil {
		return nil
	}
	return buf[v.Offset : v.Offset+v.Count : v.Offset+v.Count]
}

// VolumeElement is a locally stored volume element
type VolumeElement struct {
	ElemType     utils.ElementType
	IndStandard  int   // Index in Mesh.StandardElementsGrid
	NodeIDsGrid  []int // Global grid DOFs, in the numbering of the standard element
	WallDistance DistanceView
}

// MatchingFace is an internal face with a volume element on both sides
type MatchingFace struct {
	IndStandard       int // Index in Mesh.StandardMatchingFacesGrid
	ElemID0, ElemID1  int
	DOFsGridFaceSide0 []int
	DOFsGridFaceSide1 []int
	WallDistance      DistanceView
}

// SurfaceElement is a face on a physical boundary
type SurfaceElement struct {
	IndStandard  int // Index in Mesh.StandardBoundaryFacesGrid
	VolElemID    int // Adjacent volume element, -1 if unknown
	DOFsGridFace []int
	WallDistance DistanceView
}

// Boundary holds the surface elements of one marker
type Boundary struct {
	MarkerTag         string
	BCType            utils.BCType
	PeriodicBoundary  bool
	SurfElem          []SurfaceElement
	WallDistanceFaces []float64 // Not allocated for periodic boundaries
}

// FaceWallDistance returns the wall distance in the integration points of
// surface element l
func (b *Boundary) FaceWallDistance(l int) []float64 {
	return b.SurfElem[l].WallDistance.Slice(b.WallDistanceFaces)
}

// Mesh is the high order grid of one partition
type Mesh struct {
	NDim   int
	Points [][]float64 // Grid coordinates, NDim entries each

	StandardElementsGrid      []*StandardElement
	StandardMatchingFacesGrid []*StandardElement
	StandardBoundaryFacesGrid []*StandardElement

	VolElem       []VolumeElement
	NVolElemOwned int // The first NVolElemOwned of VolElem are owned, the rest are halos
	MatchingFaces []MatchingFace
	Boundaries    []Boundary

	WallDistanceElements      []float64
	WallDistanceMatchingFaces []float64
}

// ElementWallDistance returns the wall distance in the integration points of
// owned volume element l
func (m *Mesh) ElementWallDistance(l int) []float64 {
	return m.VolElem[l].WallDistance.Slice(m.WallDistanceElements)
}

// MatchingFaceWallDistance returns the wall distance in the integration
// points of matching face l
func (m *Mesh) MatchingFaceWallDistance(l int) []float64 {
	return m.MatchingFaces[l].WallDistance.Slice(m.WallDistanceMatchingFaces)
}

// NPoints is the number of grid points
func (m *Mesh) NPoints() int {
	return len(m.Points)
}

func checkStandard(stds []*StandardElement, ind int, what string, l int) (se *StandardElement, err error) {
	if ind < 0 || ind >= len(stds) || stds[ind] == nil {
		err = fmt.Errorf("%s %d: standard element index %d out of range [0,%d): %w",
			what, l, ind, len(stds), ErrStructuralIntegrity)
		return
	}
	se = stds[ind]
	return
}

// VolumeStandard returns the standard element of volume element l
func (m *Mesh) VolumeStandard(l int) (*StandardElement, error) {
	return checkStandard(m.StandardElementsGrid, m.VolElem[l].IndStandard, "volume element", l)
}

// MatchingFaceStandard returns the standard face of matching face l
func (m *Mesh) MatchingFaceStandard(l int) (*StandardElement, error) {
	return checkStandard(m.StandardMatchingFacesGrid, m.MatchingFaces[l].IndStandard, "matching face", l)
}

// BoundaryFaceStandard returns the standard face of surface element l of
// marker iMarker
func (m *Mesh) BoundaryFaceStandard(iMarker, l int) (*StandardElement, error) {
	return checkStandard(m.StandardBoundaryFacesGrid, m.Boundaries[iMarker].SurfElem[l].IndStandard,
		fmt.Sprintf("marker %d surface element", iMarker), l)
}

// Validate checks the dimension, the owned element count and that every
// entity references an existing standard element with a matching DOF count
func (m *Mesh) Validate() (err error) {
	if m.NDim != 2 && m.NDim != 3 {
		return fmt.Errorf("unsupported dimension %d: %w", m.NDim, ErrStructuralIntegrity)
	}
	for i, p := range m.Points {
		if len(p) < m.NDim {
			return fmt.Errorf("point %d has %d coordinates, need %d: %w",
				i, len(p), m.NDim, ErrStructuralIntegrity)
		}
	}
	if m.NVolElemOwned < 0 || m.NVolElemOwned > len(m.VolElem) {
		return fmt.Errorf("owned element count %d out of range [0,%d]: %w",
			m.NVolElemOwned, len(m.VolElem), ErrStructuralIntegrity)
	}
	var se *StandardElement
	for l := range m.VolElem {
		if se, err = m.VolumeStandard(l); err != nil {
			return
		}
		if err = checkDOFCount(se, len(m.VolElem[l].NodeIDsGrid), "volume element", l); err != nil {
			return
		}
	}
	for l := range m.MatchingFaces {
		if se, err = m.MatchingFaceStandard(l); err != nil {
			return
		}
		if err = checkDOFCount(se, len(m.MatchingFaces[l].DOFsGridFaceSide0), "matching face", l); err != nil {
			return
		}
	}
	for iMarker := range m.Boundaries {
		for l := range m.Boundaries[iMarker].SurfElem {
			if se, err = m.BoundaryFaceStandard(iMarker, l); err != nil {
				return
			}
			if err = checkDOFCount(se, len(m.Boundaries[iMarker].SurfElem[l].DOFsGridFace),
				fmt.Sprintf("marker %d surface element", iMarker), l); err != nil {
				return
			}
		}
	}
	return
}

func checkDOFCount(se *StandardElement, n int, what string, l int) error {
	if n != se.NDOFs {
		return fmt.Errorf("%s %d has %d grid DOFs, standard element expects %d: %w",
			what, l, n, se.NDOFs, ErrStructuralIntegrity)
	}
	return nil
}
