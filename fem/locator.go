package fem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Locator computes the physical coordinates of integration points as the
// basis function weighted sum of the grid DOF coordinates. The partition of
// unity of the basis is assumed, not checked.
type Locator struct {
	NDim   int
	Points [][]float64
}

func NewLocator(nDim int, points [][]float64) *Locator {
	return &Locator{NDim: nDim, Points: points}
}

func (lc *Locator) checkDOFs(se *StandardElement, dofs []int) error {
	if len(dofs) < se.NDOFs {
		return fmt.Errorf("have %d grid DOFs, standard %v element needs %d: %w",
			len(dofs), se.Type, se.NDOFs, ErrStructuralIntegrity)
	}
	for k := 0; k < se.NDOFs; k++ {
		if dofs[k] < 0 || dofs[k] >= len(lc.Points) {
			return fmt.Errorf("grid DOF %d out of range [0,%d): %w",
				dofs[k], len(lc.Points), ErrStructuralIntegrity)
		}
	}
	return nil
}

// Coordinate writes the location of integration point i into coor
func (lc *Locator) Coordinate(se *StandardElement, dofs []int, i int, coor []float64) (err error) {
	if i < 0 || i >= se.NIntegration {
		return fmt.Errorf("integration point %d out of range [0,%d): %w",
			i, se.NIntegration, ErrStructuralIntegrity)
	}
	if err = lc.checkDOFs(se, dofs); err != nil {
		return
	}
	lag := se.BasisRow(i)
	for j := 0; j < lc.NDim; j++ {
		coor[j] = 0
		for k := 0; k < se.NDOFs; k++ {
			coor[j] += lag[k] * lc.Points[dofs[k]][j]
		}
	}
	return
}

// Coordinates returns the locations of all integration points of an entity,
// NIntegration x NDim, as the product of the basis table and the gathered
// DOF coordinates
func (lc *Locator) Coordinates(se *StandardElement, dofs []int) (X *mat.Dense, err error) {
	if err = lc.checkDOFs(se, dofs); err != nil {
		return
	}
	XDOF := mat.NewDense(se.NDOFs, lc.NDim, nil)
	for k := 0; k < se.NDOFs; k++ {
		XDOF.SetRow(k, lc.Points[dofs[k]][:lc.NDim])
	}
	X = mat.NewDense(se.NIntegration, lc.NDim, nil)
	X.Mul(se.Basis, XDOF)
	return
}
