package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/walldist/fem"
	"github.com/notargets/walldist/utils"
)

// BuildOptions control the conversion of a linear grid into a high order
// finite element mesh
type BuildOptions struct {
	Order             int                     // Polynomial order of the grid, 0 means 1
	IntegrationPoints int                     // Gauss points per direction, 0 means Order+1
	BCs               map[string]utils.BCType // Boundary condition of every non periodic marker
	Periodic          []string                // Periodic marker tags
}

// lexicographicCorners reorders the VTK corners of a quad or hex into the
// tensor product order of the standard elements
func lexicographicCorners(et utils.ElementType, v []int) []int {
	switch et {
	case utils.Quad:
		return []int{v[0], v[1], v[3], v[2]}
	case utils.Hex:
		return []int{v[0], v[1], v[3], v[2], v[4], v[5], v[7], v[6]}
	default:
		return v
	}
}

type standardCache struct {
	list  []*fem.StandardElement
	index map[utils.ElementType]int
}

func (sc *standardCache) get(et utils.ElementType, order, nInt int) (ind int, err error) {
	if sc.index == nil {
		sc.index = make(map[utils.ElementType]int)
	}
	ind, ok := sc.index[et]
	if ok {
		return
	}
	se, err := fem.NewStandardElement(et, order, nInt)
	if err != nil {
		return -1, err
	}
	ind = len(sc.list)
	sc.list = append(sc.list, se)
	sc.index[et] = ind
	return
}

func checkElementType(nDim int, et utils.ElementType, order int) error {
	switch {
	case nDim == 2 && et == utils.Quad, nDim == 3 && et == utils.Hex:
		return nil
	case nDim == 2 && et == utils.Triangle, nDim == 3 && et == utils.Tet:
		if order != 1 {
			return fmt.Errorf("%v elements only support grid order 1, have %d", et, order)
		}
		return nil
	default:
		return fmt.Errorf("%v elements are not supported in %dD", et, nDim)
	}
}

// BuildFEMMesh creates the finite element mesh of grid: one owned volume
// element per grid element, a matching face per interior face and one
// boundary per marker. Grid DOFs of order Order are generated on equispaced
// nodes of each linear element and shared between neighbors.
func BuildFEMMesh(grid *Mesh, opts BuildOptions) (fm *fem.Mesh, err error) {
	if opts.Order == 0 {
		opts.Order = 1
	}
	if opts.IntegrationPoints == 0 {
		opts.IntegrationPoints = opts.Order + 1
	}
	if grid.NDim != 2 && grid.NDim != 3 {
		return nil, fmt.Errorf("unsupported dimension %d", grid.NDim)
	}
	if grid.EToF == nil || len(grid.EToF) != len(grid.EtoV) {
		grid.BuildConnectivity()
	}
	bcs, periodic, err := markerConditions(grid, opts)
	if err != nil {
		return
	}

	var (
		order   = opts.Order
		nInt    = opts.IntegrationPoints
		nt      = newNodeTable(grid.NDim, order, grid.Vertices)
		volStd  standardCache
		faceStd standardCache
	)
	fm = &fem.Mesh{NDim: grid.NDim}

	// Vertex DOFs first, so vertex i stays grid DOF i
	for i := range grid.Vertices {
		if _, err = nt.vertexNodes([]int{i}, true); err != nil {
			return nil, err
		}
	}
	fm.VolElem = make([]fem.VolumeElement, len(grid.EtoV))
	for k, v := range grid.EtoV {
		et := grid.ElementTypes[k]
		if err = checkElementType(grid.NDim, et, order); err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
		ve := &fm.VolElem[k]
		ve.ElemType = et
		if ve.IndStandard, err = volStd.get(et, order, nInt); err != nil {
			return nil, err
		}
		if et == utils.Quad || et == utils.Hex {
			ve.NodeIDsGrid, err = nt.tensorNodes(lexicographicCorners(et, v), grid.NDim, true)
		} else {
			ve.NodeIDsGrid, err = nt.vertexNodes(v, true)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
	}
	fm.NVolElemOwned = len(fm.VolElem)
	fm.Points = nt.points
	fm.StandardElementsGrid = volStd.list

	faceNodes := func(elem, local int) (dofs []int, ind int, ft utils.ElementType, err error) {
		fv := utils.GetElementFaces(grid.ElementTypes[elem], grid.EtoV[elem])[local]
		switch len(fv) {
		case 2:
			ft = utils.Line
			dofs, err = nt.tensorNodes(fv, 1, false)
		case 3:
			ft = utils.Triangle
			dofs, err = nt.vertexNodes(fv, false)
		default:
			ft = utils.Quad
			dofs, err = nt.tensorNodes(lexicographicCorners(utils.Quad, fv), 2, false)
		}
		if err != nil {
			return
		}
		ind, err = faceStd.get(ft, order, nInt)
		return
	}

	for faceID, f := range grid.Faces {
		e1 := grid.EToE[f.Element][f.LocalID]
		if e1 < 0 {
			continue
		}
		l1 := -1
		for l, id := range grid.EToF[e1] {
			if id == faceID && (e1 != f.Element || l != f.LocalID) {
				l1 = l
				break
			}
		}
		if l1 < 0 {
			return nil, fmt.Errorf("face %d: neighbor element %d does not reference it", faceID, e1)
		}
		mf := fem.MatchingFace{ElemID0: f.Element, ElemID1: e1}
		if mf.DOFsGridFaceSide0, mf.IndStandard, _, err = faceNodes(f.Element, f.LocalID); err != nil {
			return nil, fmt.Errorf("face %d: %w", faceID, err)
		}
		if mf.DOFsGridFaceSide1, _, _, err = faceNodes(e1, l1); err != nil {
			return nil, fmt.Errorf("face %d: %w", faceID, err)
		}
		fm.MatchingFaces = append(fm.MatchingFaces, mf)
	}

	fm.Boundaries = make([]fem.Boundary, len(grid.Markers))
	for iMarker, mk := range grid.Markers {
		bnd := &fm.Boundaries[iMarker]
		bnd.MarkerTag = mk.Tag
		bnd.BCType = bcs[mk.Tag]
		bnd.PeriodicBoundary = periodic[mk.Tag]
		bnd.SurfElem = make([]fem.SurfaceElement, len(mk.Elements))
		for j, be := range mk.Elements {
			key, _ := faceKey(be.Nodes)
			faceID, ok := grid.FaceMap[key]
			if !ok {
				return nil, fmt.Errorf("marker %s element %d: no element has face %s", mk.Tag, j, key)
			}
			f := grid.Faces[faceID]
			se := &bnd.SurfElem[j]
			se.VolElemID = f.Element
			var ft utils.ElementType
			if se.DOFsGridFace, se.IndStandard, ft, err = faceNodes(f.Element, f.LocalID); err != nil {
				return nil, fmt.Errorf("marker %s element %d: %w", mk.Tag, j, err)
			}
			if ft != be.ElementType {
				return nil, fmt.Errorf("marker %s element %d: %v listed for a %v face",
					mk.Tag, j, be.ElementType, ft)
			}
		}
	}
	fm.StandardMatchingFacesGrid = faceStd.list
	fm.StandardBoundaryFacesGrid = faceStd.list

	if err = fm.Validate(); err != nil {
		return nil, err
	}
	return
}

// markerConditions resolves the boundary condition of every marker. Every non
// periodic marker needs a condition and every named marker must exist.
func markerConditions(grid *Mesh, opts BuildOptions) (bcs map[string]utils.BCType, periodic map[string]bool, err error) {
	bcs = make(map[string]utils.BCType)
	periodic = make(map[string]bool)
	for _, tag := range opts.Periodic {
		if grid.MarkerIndex(tag) < 0 {
			return nil, nil, fmt.Errorf("periodic marker %s not found in grid", tag)
		}
		periodic[tag] = true
	}
	tags := make([]string, 0, len(opts.BCs))
	for tag := range opts.BCs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if grid.MarkerIndex(tag) < 0 {
			return nil, nil, fmt.Errorf("boundary condition for unknown marker %s", tag)
		}
	}
	for _, mk := range grid.Markers {
		if periodic[mk.Tag] {
			bcs[mk.Tag] = utils.BCPeriodic
			continue
		}
		bc, ok := opts.BCs[mk.Tag]
		if !ok {
			return nil, nil, fmt.Errorf("no boundary condition for marker %s", mk.Tag)
		}
		bcs[mk.Tag] = bc
	}
	return
}
