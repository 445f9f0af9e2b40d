package geometry

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/walldist/utils"
)

func TestPointSegmentDistance(t *testing.T) {
	a, b := r3.Vec{X: 0, Y: 0}, r3.Vec{X: 2, Y: 0}
	assert.InDelta(t, 1., PointSegmentDistance(r3.Vec{X: 1, Y: 1}, a, b), 1.e-14)
	assert.InDelta(t, math.Sqrt(2), PointSegmentDistance(r3.Vec{X: 3, Y: 1}, a, b), 1.e-14)
	assert.InDelta(t, 0., PointSegmentDistance(r3.Vec{X: 0.5}, a, b), 1.e-14)
	// Degenerate segment
	assert.InDelta(t, 5., PointSegmentDistance(r3.Vec{X: 3, Y: 4}, a, a), 1.e-14)
}

func TestPointTriangleDistance(t *testing.T) {
	a, b, c := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}
	testCases := []struct {
		name string
		p    r3.Vec
		want float64
	}{
		{"above interior", r3.Vec{X: 0.25, Y: 0.25, Z: 2}, 2},
		{"vertex a region", r3.Vec{X: -1, Y: -1}, math.Sqrt(2)},
		{"vertex b region", r3.Vec{X: 2, Z: 1}, math.Sqrt(2)},
		{"edge ab region", r3.Vec{X: 0.5, Y: -1}, 1},
		{"edge bc region", r3.Vec{X: 1, Y: 1}, math.Sqrt(0.5)},
		{"on surface", r3.Vec{X: 0.2, Y: 0.3}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, PointTriangleDistance(tc.p, a, b, c), 1.e-14)
		})
	}
	// Collinear vertices fall back to the edges
	assert.InDelta(t, 1., PointTriangleDistance(r3.Vec{X: 0.5, Y: 1}, a, b, r3.Vec{X: 2}), 1.e-14)
	// Quad split into two triangles
	d := PointQuadDistance(r3.Vec{X: 0.9, Y: 0.9, Z: -0.5}, a, b, r3.Vec{X: 1, Y: 1}, c)
	assert.InDelta(t, 0.5, d, 1.e-14)
}

// bottomAndTop is a unit cube with its bottom face as marker 0 and its top
// face as marker 1, each split into two triangles
func bottomAndTop(t *testing.T) *WallTree {
	coords := [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	conn := []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	shapes := []utils.ElementType{utils.Triangle, utils.Triangle, utils.Triangle, utils.Triangle}
	wt, err := NewWallTree(3, coords, conn, shapes, []int{0, 0, 1, 1}, []int{0, 0, 0, 0}, 3)
	require.NoError(t, err)
	return wt
}

func TestWallTreeNearest(t *testing.T) {
	wt := bottomAndTop(t)
	assert.False(t, wt.IsEmpty())
	assert.Equal(t, 4, wt.NPrimitives())

	d, marker, _, rank := wt.Nearest([]float64{0.3, 0.6, 0.2})
	assert.InDelta(t, 0.2, d, 1.e-14)
	assert.Equal(t, 0, marker)
	assert.Equal(t, 3, rank)

	d, marker, _, _ = wt.Nearest([]float64{0.3, 0.6, 0.9})
	assert.InDelta(t, 0.1, d, 1.e-14)
	assert.Equal(t, 1, marker)

	// Far away points still find the surface
	d, _, _, _ = wt.Nearest([]float64{0.5, 0.5, -100})
	assert.InDelta(t, 100., d, 1.e-12)

	// Equidistant from both patches, the first built primitive wins
	for n := 0; n < 10; n++ {
		d, marker, _, _ = wt.Nearest([]float64{0.25, 0.5, 0.5})
		assert.Equal(t, 0.5, d)
		assert.Equal(t, 0, marker)
	}
}

func TestWallTreeMatchesBruteForce(t *testing.T) {
	// Zig-zag polyline in 2D
	var (
		coords [][]float64
		conn   []int
		shapes []utils.ElementType
		marks  []int
		owners []int
		n      = 200
	)
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n)
		coords = append(coords, []float64{x, 0.1 * math.Sin(20*x)})
	}
	for i := 0; i < n; i++ {
		conn = append(conn, i, i+1)
		shapes = append(shapes, utils.Line)
		marks = append(marks, i%3)
		owners = append(owners, i)
	}
	wt, err := NewWallTree(2, coords, conn, shapes, marks, owners, 0)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(42))
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		pts := make([][]float64, 250)
		for i := range pts {
			pts[i] = []float64{rnd.Float64()*1.4 - 0.2, rnd.Float64()*1.4 - 0.7}
		}
		wg.Add(1)
		go func(pts [][]float64) {
			defer wg.Done()
			for _, p := range pts {
				x := r3.Vec{X: p[0], Y: p[1]}
				want, wantOwner := math.Inf(1), -1
				for i := 0; i < n; i++ {
					a := r3.Vec{X: coords[i][0], Y: coords[i][1]}
					b := r3.Vec{X: coords[i+1][0], Y: coords[i+1][1]}
					if d := PointSegmentDistance(x, a, b); d < want {
						want, wantOwner = d, i
					}
				}
				d, _, owner, _ := wt.Nearest(p)
				assert.Equal(t, want, d)
				assert.Equal(t, wantOwner, owner)
			}
		}(pts)
	}
	wg.Wait()
}

func TestWallTreeEmptyAndInvalid(t *testing.T) {
	wt, err := NewWallTree(2, nil, nil, nil, nil, nil, 0)
	require.NoError(t, err)
	assert.True(t, wt.IsEmpty())
	d, marker, owner, _ := wt.Nearest([]float64{0, 0})
	assert.True(t, math.IsInf(d, 1))
	assert.Equal(t, -1, marker)
	assert.Equal(t, -1, owner)

	coords := [][]float64{{0, 0}, {1, 0}}
	_, err = NewWallTree(2, coords, []int{0, 2}, []utils.ElementType{utils.Line}, []int{0}, []int{0}, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)
	_, err = NewWallTree(2, coords, []int{0, 1}, []utils.ElementType{utils.Triangle}, []int{0}, []int{0}, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)
	_, err = NewWallTree(2, coords, []int{0, 1}, []utils.ElementType{utils.Line}, []int{0}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)
	_, err = NewWallTree(2, coords, []int{0, 1, 1}, []utils.ElementType{utils.Line}, []int{0}, []int{0}, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)
	_, err = NewWallTree(4, coords, nil, nil, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSurface)

	wt = bottomAndTop(t)
	wt.Release()
	assert.True(t, wt.IsEmpty())
}
