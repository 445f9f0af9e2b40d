package walldist

import (
	"github.com/notargets/walldist/geometry"
)

// QueryHandle answers nearest wall primitive queries. Nearest is called
// concurrently and must be read only.
type QueryHandle interface {
	IsEmpty() bool
	Nearest(point []float64) (dist float64, markerID, ownerElemID, ownerRank int)
	Release()
}

// QueryService builds a QueryHandle from the compact wall geometry
type QueryService interface {
	Build(cm *CompactWallMesh) (QueryHandle, error)
}

// WallTreeService builds R-tree backed handles, tagging every primitive with
// the rank of this partition
type WallTreeService struct {
	Rank int
}

func (s WallTreeService) Build(cm *CompactWallMesh) (QueryHandle, error) {
	wt, err := geometry.NewWallTree(cm.NDim, cm.Coords, cm.Conn, cm.Shapes, cm.Markers, cm.Owners, s.Rank)
	if err != nil {
		return nil, err
	}
	return wt, nil
}
