package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stripSU2 = `NDIME= 2
NELEM= 2
9 0 1 4 3 0
9 1 2 5 4 1
NPOIN= 6
0.0 0.0
1.0 0.0
2.0 0.0
0.0 1.0
1.0 1.0
2.0 1.0
NMARK= 3
MARKER_TAG= plate
MARKER_ELEMS= 2
3 0 1
3 1 2
MARKER_TAG= top
MARKER_ELEMS= 2
3 5 4
3 4 3
MARKER_TAG= sides
MARKER_ELEMS= 2
3 2 5
3 3 0
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestRunCompute(t *testing.T) {
	dir := t.TempDir()
	mc := &ModelCompute{
		GridFile: writeFile(t, dir, "strip.su2", stripSU2),
		ICFile: writeFile(t, dir, "input.yaml", `
Title: Strip
PolynomialOrder: 2
ParallelDegree: 2
BCs:
  plate: isothermal
  top: farfield
Periodic: [sides]
`),
	}
	ip, err := processComputeInput(mc)
	require.NoError(t, err)
	assert.Equal(t, 3, ip.IntegrationPoints)

	fm, err := RunCompute(mc, ip)
	require.NoError(t, err)
	sums := SummarizeWallDistance(fm)
	PrintDistanceSummary(sums)
	require.Len(t, sums, 4)

	vol := sums[0]
	assert.Equal(t, 18, vol.NPoints)
	assert.True(t, vol.Min > 0 && vol.Max < 1)
	assert.InDelta(t, 0.5, vol.Mean, 1.e-12)

	// Internal face at x=1, distance is y
	assert.Equal(t, 3, sums[1].NPoints)
	assert.InDelta(t, 0.5, sums[1].Mean, 1.e-12)

	plate := sums[2]
	assert.Equal(t, "Marker plate [Isothermal]", plate.Category)
	assert.Equal(t, 6, plate.NPoints)
	assert.Zero(t, plate.Max)

	top := sums[3]
	assert.InDelta(t, 1., top.Min, 1.e-12)
	assert.InDelta(t, 1., top.Max, 1.e-12)

	// The periodic sides get no storage
	assert.True(t, fm.Boundaries[2].PeriodicBoundary)
	assert.Nil(t, fm.Boundaries[2].WallDistanceFaces)
}

func TestProcessComputeInput(t *testing.T) {
	dir := t.TempDir()
	_, err := processComputeInput(&ModelCompute{})
	assert.ErrorContains(t, err, "grid file")

	_, err = processComputeInput(&ModelCompute{GridFile: "grid.su2"})
	assert.ErrorContains(t, err, "input parameters file")

	_, err = processComputeInput(&ModelCompute{GridFile: "grid.su2", ICFile: filepath.Join(dir, "none.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, dir, "bad.yaml", "BCs:\n  plate: glue\n")
	_, err = processComputeInput(&ModelCompute{GridFile: "grid.su2", ICFile: bad})
	assert.ErrorContains(t, err, "BCs[plate]")

	deck := writeFile(t, dir, "ok.yaml", "Title: ok\n")
	ip, err := processComputeInput(&ModelCompute{GridFile: "grid.su2", ICFile: deck, Verbose: true})
	require.NoError(t, err)
	assert.True(t, ip.Verbose)

	// A marker without a boundary condition
	mc := &ModelCompute{
		GridFile: writeFile(t, dir, "strip.su2", stripSU2),
		ICFile:   writeFile(t, dir, "partial.yaml", "BCs:\n  plate: isothermal\n"),
	}
	ip, err = processComputeInput(mc)
	require.NoError(t, err)
	_, err = RunCompute(mc, ip)
	assert.ErrorContains(t, err, "no boundary condition for marker top")
}
