package walldist

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/utils"
)

// Options configure ComputeWallDistance. The zero value classifies isothermal
// and heat flux markers as viscous walls, uses the R-tree query service and
// one worker per CPU within every entity category.
type Options struct {
	IsViscousWall  utils.ViscousWallFunc
	Service        QueryService
	ParallelDegree int // Workers per entity category, 0 means one per CPU
	Verbose        bool
}

// category is one set of entities sharing a distance buffer
type category struct {
	name    string
	stds    []*fem.StandardElement
	dofs    func(l int) []int
	zero    bool // Whole category is forced to zero distance
	install func(db DistanceBuffer)
	result  DistanceBuffer
}

// ComputeWallDistance fills the wall distance in the integration points of the
// owned volume elements, the matching faces and the boundary faces of m.
// Boundary faces of a viscous wall marker get zero distance even when another
// wall patch is closer, every other point gets the distance to the nearest
// wall primitive. Without viscous walls all distances are zero. On error the
// mesh is left untouched.
func ComputeWallDistance(m *fem.Mesh, opts Options) (err error) {
	if opts.IsViscousWall == nil {
		opts.IsViscousWall = utils.DefaultViscousWall
	}
	if opts.Service == nil {
		opts.Service = WallTreeService{}
	}
	if err = m.Validate(); err != nil {
		return
	}

	cm, err := ExtractWallSurface(m, opts.IsViscousWall)
	if err != nil {
		return
	}
	if opts.Verbose {
		log.Printf("Wall distance: %d viscous wall points, %d linear wall primitives",
			cm.NPoints(), cm.NPrimitives())
	}
	handle, err := opts.Service.Build(cm)
	cm.Release()
	if err != nil {
		return fmt.Errorf("building wall search tree: %w", err)
	}
	defer handle.Release()

	cats, err := newCategories(m, opts.IsViscousWall, handle.IsEmpty())
	if err != nil {
		return
	}
	var (
		lc   = fem.NewLocator(m.NDim, m.Points)
		wg   sync.WaitGroup
		errs = make([]error, len(cats))
	)
	for ic := range cats {
		wg.Add(1)
		go func(c *category, ic int) {
			defer wg.Done()
			errs[ic] = c.fill(lc, handle, opts.ParallelDegree)
		}(&cats[ic], ic)
	}
	wg.Wait()
	for ic, e := range errs {
		if e != nil {
			return fmt.Errorf("wall distance of %s: %w", cats[ic].name, e)
		}
	}
	for ic := range cats {
		cats[ic].install(cats[ic].result)
		if opts.Verbose {
			log.Printf("Wall distance: %s, %d entities, %d integration points",
				cats[ic].name, len(cats[ic].stds), len(cats[ic].result.Data))
		}
	}
	return
}

func newCategories(m *fem.Mesh, isViscousWall utils.ViscousWallFunc, empty bool) (cats []category, err error) {
	vol := category{
		name: "owned volume elements",
		stds: make([]*fem.StandardElement, m.NVolElemOwned),
		dofs: func(l int) []int { return m.VolElem[l].NodeIDsGrid },
		zero: empty,
		install: func(db DistanceBuffer) {
			m.WallDistanceElements = db.Data
			for l, v := range db.Views {
				m.VolElem[l].WallDistance = v
			}
		},
	}
	for l := range vol.stds {
		if vol.stds[l], err = m.VolumeStandard(l); err != nil {
			return
		}
	}

	faces := category{
		name: "internal matching faces",
		stds: make([]*fem.StandardElement, len(m.MatchingFaces)),
		dofs: func(l int) []int { return m.MatchingFaces[l].DOFsGridFaceSide0 },
		zero: empty,
		install: func(db DistanceBuffer) {
			m.WallDistanceMatchingFaces = db.Data
			for l, v := range db.Views {
				m.MatchingFaces[l].WallDistance = v
			}
		},
	}
	for l := range faces.stds {
		if faces.stds[l], err = m.MatchingFaceStandard(l); err != nil {
			return
		}
	}
	cats = append(cats, vol, faces)

	// Periodic boundaries are not physical and get no buffer
	for iMarker := range m.Boundaries {
		bnd := &m.Boundaries[iMarker]
		if bnd.PeriodicBoundary {
			continue
		}
		c := category{
			name: fmt.Sprintf("boundary faces of marker %d (%s)", iMarker, bnd.MarkerTag),
			stds: make([]*fem.StandardElement, len(bnd.SurfElem)),
			dofs: func(l int) []int { return bnd.SurfElem[l].DOFsGridFace },
			zero: empty || isViscousWall(iMarker, bnd.BCType),
			install: func(db DistanceBuffer) {
				bnd.WallDistanceFaces = db.Data
				for l, v := range db.Views {
					bnd.SurfElem[l].WallDistance = v
				}
			},
		}
		for l := range c.stds {
			if c.stds[l], err = m.BoundaryFaceStandard(iMarker, l); err != nil {
				return
			}
		}
		cats = append(cats, c)
	}
	return
}

func (c *category) fill(lc *fem.Locator, h QueryHandle, procLimit int) (err error) {
	c.result, err = AllocateDistanceBuffer(len(c.stds), func(l int) int {
		return c.stds[l].NIntegration
	})
	if err != nil || c.zero || len(c.stds) == 0 {
		return // A fresh buffer is all zero
	}
	pm := utils.NewPartitionMapForWork(procLimit, len(c.stds))
	return pm.ParallelRange(func(_, kMin, kMax int) error {
		for l := kMin; l < kMax; l++ {
			X, err := lc.Coordinates(c.stds[l], c.dofs(l))
			if err != nil {
				return fmt.Errorf("entity %d: %w", l, err)
			}
			dist := c.result.Views[l].Slice(c.result.Data)
			for i := range dist {
				d, _, _, _ := h.Nearest(X.RawRowView(i))
				if math.IsNaN(d) || d < 0 {
					return fmt.Errorf("entity %d integration point %d: invalid distance %v: %w",
						l, i, d, ErrStructuralIntegrity)
				}
				dist[i] = d
			}
		}
		return nil
	})
}
