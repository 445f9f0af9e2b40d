package fem

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/walldist/utils"
)

// StandardElement is the template shared by all elements or faces of the same
// shape and polynomial order. It carries the integration rule, the Lagrange
// basis functions evaluated in the integration points and the split of the
// element into linear sub-elements.
type StandardElement struct {
	Type         utils.ElementType
	Order        int
	NDOFs        int
	NIntegration int
	RInt         [][]float64 // Parametric coordinates of the integration points
	Weights      []float64
	Basis        *mat.Dense // NIntegration x NDOFs, row i holds all basis functions in point i

	// Linear sub-elements, NDOFsPerSub local DOF indices each
	SubType     utils.ElementType
	NDOFsPerSub int
	SubConn     []int
}

// NSubElements is the number of linear sub-elements of the standard element
func (se *StandardElement) NSubElements() int {
	if se.NDOFsPerSub == 0 {
		return 0
	}
	return len(se.SubConn) / se.NDOFsPerSub
}

// BasisRow returns the basis functions evaluated in integration point i
func (se *StandardElement) BasisRow(i int) []float64 {
	return se.Basis.RawRowView(i)
}

// NewStandardElement dispatches on the element shape. Simplices only exist in
// their linear form; nInt is the number of Gauss points per direction and is
// ignored for simplices.
func NewStandardElement(et utils.ElementType, order, nInt int) (se *StandardElement, err error) {
	switch et {
	case utils.Line:
		return NewStandardLine(order, nInt)
	case utils.Quad:
		return NewStandardQuad(order, nInt)
	case utils.Hex:
		return NewStandardHex(order, nInt)
	case utils.Triangle:
		if order != 1 {
			return nil, fmt.Errorf("triangles are only available with order 1, have %d", order)
		}
		return NewStandardTriangle(), nil
	case utils.Tet:
		if order != 1 {
			return nil, fmt.Errorf("tetrahedra are only available with order 1, have %d", order)
		}
		return NewStandardTet(), nil
	default:
		return nil, fmt.Errorf("no standard element for type %v", et)
	}
}

func checkTensorArgs(order, nInt int) error {
	if order < 1 {
		return fmt.Errorf("polynomial order must be at least 1, have %d", order)
	}
	if nInt < 1 {
		return fmt.Errorf("number of integration points must be at least 1, have %d", nInt)
	}
	return nil
}

// NewStandardLine builds a Lagrange line of the given order on equispaced
// nodes r = i/order, with nInt Gauss-Legendre points on [0,1]
func NewStandardLine(order, nInt int) (se *StandardElement, err error) {
	if err = checkTensorArgs(order, nInt); err != nil {
		return
	}
	x, w := GaussLegendre01(nInt)
	np := order + 1
	se = &StandardElement{
		Type:         utils.Line,
		Order:        order,
		NDOFs:        np,
		NIntegration: nInt,
		RInt:         make([][]float64, nInt),
		Weights:      w,
		Basis:        mat.NewDense(nInt, np, nil),
		SubType:      utils.Line,
		NDOFsPerSub:  2,
	}
	for a := 0; a < nInt; a++ {
		se.RInt[a] = []float64{x[a]}
		se.Basis.SetRow(a, Lagrange1D(order, x[a]))
	}
	for i := 0; i < order; i++ {
		se.SubConn = append(se.SubConn, i, i+1)
	}
	return
}

// NewStandardQuad builds a tensor-product Lagrange quadrilateral. DOFs are
// numbered lexicographically, i + (order+1)*j.
func NewStandardQuad(order, nInt int) (se *StandardElement, err error) {
	if err = checkTensorArgs(order, nInt); err != nil {
		return
	}
	var (
		x, w = GaussLegendre01(nInt)
		np   = order + 1
		nIP  = nInt * nInt
	)
	se = &StandardElement{
		Type:         utils.Quad,
		Order:        order,
		NDOFs:        np * np,
		NIntegration: nIP,
		RInt:         make([][]float64, nIP),
		Weights:      make([]float64, nIP),
		Basis:        mat.NewDense(nIP, np*np, nil),
		SubType:      utils.Quad,
		NDOFsPerSub:  4,
	}
	row := make([]float64, np*np)
	for b := 0; b < nInt; b++ {
		lb := Lagrange1D(order, x[b])
		for a := 0; a < nInt; a++ {
			la := Lagrange1D(order, x[a])
			ip := a + nInt*b
			se.RInt[ip] = []float64{x[a], x[b]}
			se.Weights[ip] = w[a] * w[b]
			for j := 0; j < np; j++ {
				for i := 0; i < np; i++ {
					row[i+np*j] = la[i] * lb[j]
				}
			}
			se.Basis.SetRow(ip, row)
		}
	}
	for j := 0; j < order; j++ {
		for i := 0; i < order; i++ {
			n0 := i + np*j
			se.SubConn = append(se.SubConn, n0, n0+1, n0+1+np, n0+np)
		}
	}
	return
}

// NewStandardHex builds a tensor-product Lagrange hexahedron, DOFs numbered
// i + n*j + n*n*k with n = order+1
func NewStandardHex(order, nInt int) (se *StandardElement, err error) {
	if err = checkTensorArgs(order, nInt); err != nil {
		return
	}
	var (
		x, w = GaussLegendre01(nInt)
		np   = order + 1
		np2  = np * np
		nIP  = nInt * nInt * nInt
	)
	se = &StandardElement{
		Type:         utils.Hex,
		Order:        order,
		NDOFs:        np2 * np,
		NIntegration: nIP,
		RInt:         make([][]float64, nIP),
		Weights:      make([]float64, nIP),
		Basis:        mat.NewDense(nIP, np2*np, nil),
		SubType:      utils.Hex,
		NDOFsPerSub:  8,
	}
	row := make([]float64, np2*np)
	for c := 0; c < nInt; c++ {
		lc := Lagrange1D(order, x[c])
		for b := 0; b < nInt; b++ {
			lb := Lagrange1D(order, x[b])
			for a := 0; a < nInt; a++ {
				la := Lagrange1D(order, x[a])
				ip := a + nInt*b + nInt*nInt*c
				se.RInt[ip] = []float64{x[a], x[b], x[c]}
				se.Weights[ip] = w[a] * w[b] * w[c]
				for k := 0; k < np; k++ {
					for j := 0; j < np; j++ {
						for i := 0; i < np; i++ {
							row[i+np*j+np2*k] = la[i] * lb[j] * lc[k]
						}
					}
				}
				se.Basis.SetRow(ip, row)
			}
		}
	}
	for k := 0; k < order; k++ {
		for j := 0; j < order; j++ {
			for i := 0; i < order; i++ {
				n0 := i + np*j + np2*k
				n4 := n0 + np2
				se.SubConn = append(se.SubConn,
					n0, n0+1, n0+1+np, n0+np,
					n4, n4+1, n4+1+np, n4+np)
			}
		}
	}
	return
}

// NewStandardTriangle is the linear triangle with the symmetric 3 point rule,
// exact for quadratics
func NewStandardTriangle() (se *StandardElement) {
	r := [][]float64{{1. / 6., 1. / 6.}, {2. / 3., 1. / 6.}, {1. / 6., 2. / 3.}}
	se = &StandardElement{
		Type:         utils.Triangle,
		Order:        1,
		NDOFs:        3,
		NIntegration: 3,
		RInt:         r,
		Weights:      []float64{1. / 6., 1. / 6., 1. / 6.},
		Basis:        mat.NewDense(3, 3, nil),
		SubType:      utils.Triangle,
		NDOFsPerSub:  3,
		SubConn:      []int{0, 1, 2},
	}
	for i, rs := range r {
		se.Basis.SetRow(i, []float64{1 - rs[0] - rs[1], rs[0], rs[1]})
	}
	return
}

// NewStandardTet is the linear tetrahedron with the symmetric 4 point rule,
// exact for quadratics
func NewStandardTet() (se *StandardElement) {
	const (
		a = 0.5854101966249685
		b = 0.1381966011250105
	)
	r := [][]float64{{b, b, b}, {a, b, b}, {b, a, b}, {b, b, a}}
	se = &StandardElement{
		Type:         utils.Tet,
		Order:        1,
		NDOFs:        4,
		NIntegration: 4,
		RInt:         r,
		Weights:      []float64{1. / 24., 1. / 24., 1. / 24., 1. / 24.},
		Basis:        mat.NewDense(4, 4, nil),
		SubType:      utils.Tet,
		NDOFsPerSub:  4,
		SubConn:      []int{0, 1, 2, 3},
	}
	for i, rst := range r {
		se.Basis.SetRow(i, []float64{1 - rst[0] - rst[1] - rst[2], rst[0], rst[1], rst[2]})
	}
	return
}

// GaussLegendre01 returns n Gauss-Legendre points and weights on [0,1]
func GaussLegendre01(n int) (x, w []float64) {
	x, w = make([]float64, n), make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return
}

// Lagrange1D evaluates the order+1 Lagrange polynomials on the equispaced
// nodes i/order at r
func Lagrange1D(order int, r float64) (l []float64) {
	l = make([]float64, order+1)
	for i := 0; i <= order; i++ {
		ri := float64(i) / float64(order)
		val := 1.
		for j := 0; j <= order; j++ {
			if j == i {
				continue
			}
			rj := float64(j) / float64(order)
			val *= (r - rj) / (ri - rj)
		}
		l[i] = val
	}
	return
}
