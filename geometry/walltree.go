package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/walldist/utils"
)

// ErrInvalidSurface is returned when the wall surface arrays are inconsistent
var ErrInvalidSurface = errors.New("invalid wall surface")

const (
	minBranch = 25
	maxBranch = 50
	// Relative padding of the primitive bounding boxes. R-tree overlap tests
	// are strict, flat boxes of wall segments would never intersect anything.
	boxPadding = 1.e-8
)

type primitive struct {
	index  int // Position in the build arrays, used as the tie breaker
	shape  utils.ElementType
	verts  []r3.Vec
	marker int
	owner  int
	bb     rtreego.Rect
}

func (p *primitive) Bounds() rtreego.Rect { return p.bb }

func (p *primitive) distance(x r3.Vec) float64 {
	v := p.verts
	switch p.shape {
	case utils.Line:
		return PointSegmentDistance(x, v[0], v[1])
	case utils.Triangle:
		return PointTriangleDistance(x, v[0], v[1], v[2])
	default: // Quad
		return PointQuadDistance(x, v[0], v[1], v[2], v[3])
	}
}

// WallTree is a bounding box R-tree over linear wall primitives answering
// nearest primitive queries. It is immutable after construction, concurrent
// queries only read the tree.
type WallTree struct {
	nDim     int
	rank     int
	prims    []primitive
	tree     *rtreego.Rtree
	pad      float64
	initHalf float64 // Half width of the first search cube
}

// NewWallTree builds the tree from the wall point coordinates and the
// flattened connectivity of the primitives, each primitive taking
// shapes[i].GetNumNodes() entries of conn. In 2D the primitives are lines, in
// 3D triangles and quadrilaterals. Empty input gives an empty tree.
func NewWallTree(nDim int, coords [][]float64, conn []int, shapes []utils.ElementType,
	markers, owners []int, rank int) (wt *WallTree, err error) {
	if nDim != 2 && nDim != 3 {
		return nil, fmt.Errorf("dimension %d: %w", nDim, ErrInvalidSurface)
	}
	nPrim := len(shapes)
	if len(markers) != nPrim || len(owners) != nPrim {
		return nil, fmt.Errorf("%d shapes, %d markers, %d owners: %w",
			nPrim, len(markers), len(owners), ErrInvalidSurface)
	}
	wt = &WallTree{nDim: nDim, rank: rank}
	if nPrim == 0 {
		return
	}

	var (
		lo   = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
		hi   = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
		pts  = make([]r3.Vec, len(coords))
		offs int
	)
	for i, c := range coords {
		if len(c) < nDim {
			return nil, fmt.Errorf("point %d has %d coordinates: %w", i, len(c), ErrInvalidSurface)
		}
		pts[i] = toVec(nDim, c)
		for j := 0; j < nDim; j++ {
			lo[j], hi[j] = min(lo[j], c[j]), max(hi[j], c[j])
		}
	}
	var diag float64
	for j := 0; j < nDim; j++ {
		diag += (hi[j] - lo[j]) * (hi[j] - lo[j])
	}
	diag = math.Sqrt(diag)
	wt.pad = boxPadding * diag
	if wt.pad == 0 {
		wt.pad = boxPadding
	}

	wt.prims = make([]primitive, nPrim)
	var sumSize float64
	for i, shape := range shapes {
		if !shapeAllowed(nDim, shape) {
			return nil, fmt.Errorf("primitive %d: shape %v in %dD: %w", i, shape, nDim, ErrInvalidSurface)
		}
		nv := shape.GetNumNodes()
		if offs+nv > len(conn) {
			return nil, fmt.Errorf("connectivity too short for primitive %d: %w", i, ErrInvalidSurface)
		}
		pr := &wt.prims[i]
		pr.index, pr.shape, pr.marker, pr.owner = i, shape, markers[i], owners[i]
		pr.verts = make([]r3.Vec, nv)
		for k := 0; k < nv; k++ {
			ip := conn[offs+k]
			if ip < 0 || ip >= len(pts) {
				return nil, fmt.Errorf("primitive %d references point %d of %d: %w",
					i, ip, len(pts), ErrInvalidSurface)
			}
			pr.verts[k] = pts[ip]
		}
		offs += nv
		var size float64
		if pr.bb, size, err = wt.boundingBox(pr.verts); err != nil {
			return nil, err
		}
		sumSize += size
	}
	if offs != len(conn) {
		return nil, fmt.Errorf("%d connectivity entries, primitives use %d: %w",
			len(conn), offs, ErrInvalidSurface)
	}
	wt.initHalf = sumSize / float64(nPrim*nDim)

	objs := make([]rtreego.Spatial, nPrim)
	for i := range wt.prims {
		objs[i] = &wt.prims[i]
	}
	wt.tree = rtreego.NewTree(nDim, minBranch, maxBranch, objs...)
	return
}

func shapeAllowed(nDim int, shape utils.ElementType) bool {
	if nDim == 2 {
		return shape == utils.Line
	}
	return shape == utils.Triangle || shape == utils.Quad
}

func toVec(nDim int, c []float64) (v r3.Vec) {
	v.X, v.Y = c[0], c[1]
	if nDim == 3 {
		v.Z = c[2]
	}
	return
}

// boundingBox returns the padded box of the vertices and the sum of its edge
// lengths
func (wt *WallTree) boundingBox(verts []r3.Vec) (bb rtreego.Rect, size float64, err error) {
	lo, hi := make(rtreego.Point, wt.nDim), make(rtreego.Point, wt.nDim)
	for j := 0; j < wt.nDim; j++ {
		lo[j], hi[j] = math.Inf(1), math.Inf(-1)
	}
	for _, v := range verts {
		c := [3]float64{v.X, v.Y, v.Z}
		for j := 0; j < wt.nDim; j++ {
			lo[j], hi[j] = min(lo[j], c[j]), max(hi[j], c[j])
		}
	}
	for j := 0; j < wt.nDim; j++ {
		lo[j] -= wt.pad
		hi[j] += wt.pad
		size += hi[j] - lo[j]
	}
	bb, err = rtreego.NewRectFromPoints(lo, hi)
	return
}

// IsEmpty is true when the tree was built without primitives
func (wt *WallTree) IsEmpty() bool {
	return wt == nil || len(wt.prims) == 0
}

// NPrimitives is the number of primitives in the tree
func (wt *WallTree) NPrimitives() int {
	if wt == nil {
		return 0
	}
	return len(wt.prims)
}

// Nearest returns the distance from point to the closest primitive together
// with that primitive's marker, owning element and rank. Exact ties go to the
// primitive built first. An empty tree returns an infinite distance and -1
// identifiers, a non finite point a NaN distance.
func (wt *WallTree) Nearest(point []float64) (dist float64, markerID, ownerElemID, ownerRank int) {
	if wt.IsEmpty() {
		return math.Inf(1), -1, -1, -1
	}
	var (
		p    = make(rtreego.Point, wt.nDim)
		x    = toVec(wt.nDim, point)
		best *primitive
	)
	copy(p, point[:wt.nDim])
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return math.NaN(), -1, -1, wt.rank
		}
	}

	// Grow a search cube until it catches a candidate, which bounds the
	// distance from above
	half := wt.initHalf
	for best == nil {
		best, dist = wt.closestIn(p, x, half)
		half *= 2
	}
	// Every primitive closer than dist has a box intersecting this cube
	if b, d := wt.closestIn(p, x, dist+wt.pad); b != nil {
		best, dist = b, d
	}
	return dist, best.marker, best.owner, wt.rank
}

func (wt *WallTree) closestIn(p rtreego.Point, x r3.Vec, half float64) (best *primitive, dist float64) {
	dist = math.Inf(1)
	for _, obj := range wt.tree.SearchIntersect(p.ToRect(half)) {
		pr := obj.(*primitive)
		d := pr.distance(x)
		if best == nil || d < dist || (d == dist && pr.index < best.index) {
			best, dist = pr, d
		}
	}
	return
}

// Release drops the tree and the primitive storage
func (wt *WallTree) Release() {
	if wt == nil {
		return
	}
	wt.tree = nil
	wt.prims = nil
}
