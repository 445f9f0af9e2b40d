package mesh

import (
	"fmt"
	"sort"
	"strings"
)

// nodeTable numbers the grid DOFs of an order p grid. A DOF is identified by
// its barycentric weights on the corner vertices of the linear grid, scaled to
// integers summing to p^3, so DOFs shared by neighboring elements get the
// same key no matter which element generates them.
type nodeTable struct {
	nDim     int
	order    int
	vertices [][]float64
	index    map[string]int
	points   [][]float64
}

func newNodeTable(nDim, order int, vertices [][]float64) *nodeTable {
	return &nodeTable{
		nDim:     nDim,
		order:    order,
		vertices: vertices,
		index:    make(map[string]int),
	}
}

func (nt *nodeTable) denominator() int {
	return nt.order * nt.order * nt.order
}

type weightedVertex struct {
	vertex, weight int
}

func nodeKey(wv []weightedVertex) string {
	sort.Slice(wv, func(i, j int) bool { return wv[i].vertex < wv[j].vertex })
	var sb strings.Builder
	for _, v := range wv {
		fmt.Fprintf(&sb, "%d:%d,", v.vertex, v.weight)
	}
	return sb.String()
}

// lookup returns the DOF with the given corner weights, creating it when
// create is set
func (nt *nodeTable) lookup(wv []weightedVertex, create bool) (id int, err error) {
	key := nodeKey(wv)
	id, ok := nt.index[key]
	if ok {
		return
	}
	if !create {
		return -1, fmt.Errorf("no grid DOF with vertex weights %s", key)
	}
	var (
		x     = make([]float64, nt.nDim)
		denom = float64(nt.denominator())
	)
	for _, v := range wv {
		for j := 0; j < nt.nDim; j++ {
			x[j] += float64(v.weight) / denom * nt.vertices[v.vertex][j]
		}
	}
	id = len(nt.points)
	nt.points = append(nt.points, x)
	nt.index[key] = id
	return
}

// tensorNodes returns the lexicographic DOFs of a line, quad or hex whose
// corners are given in lexicographic order (2, 4 or 8 of them)
func (nt *nodeTable) tensorNodes(corners []int, dim int, create bool) (ids []int, err error) {
	var (
		p     = nt.order
		np    = p + 1
		scale = 1
		nNode = 1
	)
	for d := dim; d < 3; d++ {
		scale *= p
	}
	for d := 0; d < dim; d++ {
		nNode *= np
	}
	ids = make([]int, nNode)
	ijk := make([]int, dim)
	for n := 0; n < nNode; n++ {
		rem := n
		for d := 0; d < dim; d++ {
			ijk[d] = rem % np
			rem /= np
		}
		var wv []weightedVertex
		for c, vertex := range corners {
			w := scale
			for d := 0; d < dim; d++ {
				if c>>d&1 == 1 {
					w *= ijk[d]
				} else {
					w *= p - ijk[d]
				}
			}
			if w != 0 {
				wv = append(wv, weightedVertex{vertex: vertex, weight: w})
			}
		}
		if ids[n], err = nt.lookup(wv, create); err != nil {
			return nil, err
		}
	}
	return
}

// vertexNodes returns one DOF per corner vertex, used by linear simplices
func (nt *nodeTable) vertexNodes(verts []int, create bool) (ids []int, err error) {
	ids = make([]int, len(verts))
	for i, v := range verts {
		if ids[i], err = nt.lookup([]weightedVertex{{vertex: v, weight: nt.denominator()}}, create); err != nil {
			return nil, err
		}
	}
	return
}
