package walldist

import (
	"fmt"

	"github.com/notargets/walldist/fem"
)

// DistanceBuffer is one contiguous distance array together with the view of
// every entity into it
type DistanceBuffer struct {
	Data  []float64
	Views []fem.DistanceView
}

// AllocateDistanceBuffer sizes one buffer for n entities, entity i owning
// count(i) consecutive entries. Both passes visit the entities in the same
// order, which is what makes the offsets valid.
func AllocateDistanceBuffer(n int, count func(i int) int) (db DistanceBuffer, err error) {
	var total int
	for i := 0; i < n; i++ {
		c := count(i)
		if c < 0 {
			err = fmt.Errorf("entity %d has negative integration point count %d: %w",
				i, c, ErrStructuralIntegrity)
			return
		}
		total += c
	}
	db.Data = make([]float64, total)
	db.Views = make([]fem.DistanceView, n)
	var offset int
	for i := 0; i < n; i++ {
		c := count(i)
		db.Views[i] = fem.DistanceView{Offset: offset, Count: c}
		offset += c
	}
	return
}
