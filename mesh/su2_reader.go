package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/walldist/utils"
)

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	msh, err := readSU2(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return msh, nil
}

// nextLine returns the next line with comments (text after %) removed,
// skipping blank lines
func nextLine(scanner *bufio.Scanner) (line string, ok bool) {
	for scanner.Scan() {
		line = scanner.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

func parseCount(line, key string) (n int, err error) {
	if _, err = fmt.Sscanf(line, key+"=%d", &n); err != nil {
		return 0, fmt.Errorf("invalid %s= line %q: %v", key, line, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count in %q", line)
	}
	return
}

// parseCell reads "vtkType n0 n1 ... [id]"
func parseCell(line string) (etype utils.ElementType, nodes []int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return etype, nil, fmt.Errorf("invalid element line %q", line)
	}
	vtk, err := strconv.Atoi(fields[0])
	if err != nil {
		return etype, nil, fmt.Errorf("invalid element type: %v", err)
	}
	etype, ok := utils.ElementTypeFromVTK(vtk)
	if !ok {
		return etype, nil, fmt.Errorf("unknown element type: %d", vtk)
	}
	numNodes := etype.GetNumNodes()
	if len(fields) < numNodes+1 {
		return etype, nil, fmt.Errorf("element type %v expects %d nodes, got %d fields",
			etype, numNodes, len(fields)-1)
	}
	nodes = make([]int, numNodes)
	for j := range nodes {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return etype, nil, fmt.Errorf("invalid node index: %v", err)
		}
	}
	return
}

func readSU2(r io.Reader) (msh *Mesh, err error) {
	msh = NewMesh()
	scanner := bufio.NewScanner(r)

	var hasNDIME, hasNPOIN, hasNELEM bool
	for {
		line, ok := nextLine(scanner)
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if msh.NDim, err = parseCount(line, "NDIME"); err != nil {
				return nil, err
			}
			if msh.NDim != 2 && msh.NDim != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", msh.NDim)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			if npoin, err = parseCount(line, "NPOIN"); err != nil {
				return nil, err
			}
			msh.Vertices = make([][]float64, npoin)
			for i := 0; i < npoin; i++ {
				if line, ok = nextLine(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(line)
				if len(fields) < msh.NDim {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", msh.NDim)
				}
				// Always store 3D coordinates, a trailing node ID is ignored
				coords := make([]float64, 3)
				for j := 0; j < msh.NDim; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				msh.Vertices[i] = coords
			}

		case strings.HasPrefix(line, "NELEM="):
			hasNELEM = true
			var nelem int
			if nelem, err = parseCount(line, "NELEM"); err != nil {
				return nil, err
			}
			msh.EtoV = make([][]int, 0, nelem)
			msh.ElementTypes = make([]utils.ElementType, 0, nelem)
			for i := 0; i < nelem; i++ {
				if line, ok = nextLine(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				etype, nodes, err := parseCell(line)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				if etype.GetDimension() != msh.NDim {
					return nil, fmt.Errorf("element %d: %v in a %dD mesh", i, etype, msh.NDim)
				}
				msh.EtoV = append(msh.EtoV, nodes)
				msh.ElementTypes = append(msh.ElementTypes, etype)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if nmark, err = parseCount(line, "NMARK"); err != nil {
				return nil, err
			}
			for i := 0; i < nmark; i++ {
				if line, ok = nextLine(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				if !strings.HasPrefix(line, "MARKER_TAG=") {
					return nil, fmt.Errorf("expected MARKER_TAG=, got: %s", line)
				}
				tagName := strings.TrimSpace(strings.TrimPrefix(line, "MARKER_TAG="))
				if msh.MarkerIndex(tagName) >= 0 {
					return nil, fmt.Errorf("duplicate marker %s", tagName)
				}
				msh.Markers = append(msh.Markers, Marker{Tag: tagName})

				if line, ok = nextLine(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker elements for %s", tagName)
				}
				var nMarkerElems int
				if nMarkerElems, err = parseCount(line, "MARKER_ELEMS"); err != nil {
					return nil, err
				}
				for j := 0; j < nMarkerElems; j++ {
					if line, ok = nextLine(scanner); !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements of %s", tagName)
					}
					btype, nodes, err := parseCell(line)
					if err != nil {
						return nil, fmt.Errorf("marker %s element %d: %w", tagName, j, err)
					}
					if btype.GetDimension() != msh.NDim-1 {
						return nil, fmt.Errorf("marker %s element %d: %v is not a boundary face of a %dD mesh",
							tagName, j, btype, msh.NDim)
					}
					msh.AddBoundaryElement(tagName, BoundaryElement{ElementType: btype, Nodes: nodes})
				}
			}
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	if !hasNELEM {
		return nil, fmt.Errorf("missing required NELEM= section")
	}

	// NELEM usually precedes NPOIN, node indices are checked at the end
	nv := len(msh.Vertices)
	check := func(nodes []int) error {
		for _, n := range nodes {
			if n < 0 || n >= nv {
				return fmt.Errorf("node index %d out of range [0,%d)", n, nv)
			}
		}
		return nil
	}
	for i, nodes := range msh.EtoV {
		if err = check(nodes); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	for _, mk := range msh.Markers {
		for j, be := range mk.Elements {
			if err = check(be.Nodes); err != nil {
				return nil, fmt.Errorf("marker %s element %d: %w", mk.Tag, j, err)
			}
		}
	}

	msh.BuildConnectivity()
	return msh, nil
}
