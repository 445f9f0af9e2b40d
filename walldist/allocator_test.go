package walldist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/walldist/fem"
)

func TestAllocateDistanceBuffer(t *testing.T) {
	counts := []int{3, 0, 2, 5}
	db, err := AllocateDistanceBuffer(len(counts), func(i int) int { return counts[i] })
	require.NoError(t, err)
	assert.Equal(t, 10, len(db.Data))
	assert.Equal(t, []fem.DistanceView{
		{Offset: 0, Count: 3}, {Offset: 3, Count: 0}, {Offset: 3, Count: 2}, {Offset: 5, Count: 5}}, db.Views)

	// Views tile the buffer without gaps or overlap
	owner := make([]int, len(db.Data))
	for i := range owner {
		owner[i] = -1
	}
	for i, v := range db.Views {
		for k := v.Offset; k < v.Offset+v.Count; k++ {
			assert.Equal(t, -1, owner[k])
			owner[k] = i
		}
	}
	for _, o := range owner {
		assert.NotEqual(t, -1, o)
	}

	// Writes through one view stay inside it
	s := db.Views[0].Slice(db.Data)
	s = append(s, 99)
	assert.Equal(t, 0., db.Data[3])
	assert.Equal(t, 4, len(s))

	db, err = AllocateDistanceBuffer(0, func(int) int { return 1 })
	require.NoError(t, err)
	assert.Empty(t, db.Data)
	assert.Empty(t, db.Views)

	_, err = AllocateDistanceBuffer(2, func(i int) int { return i - 1 })
	assert.ErrorIs(t, err, ErrStructuralIntegrity)
}
