package mesh

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notargets/walldist/utils"
)

// Face represents a face of an element
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // Element that created the face
	LocalID  int   // Local face ID within that element
}

// BoundaryElement is a face listed under a boundary marker
type BoundaryElement struct {
	ElementType utils.ElementType
	Nodes       []int
}

// Marker is a named group of boundary elements, kept in file order
type Marker struct {
	Tag      string
	Elements []BoundaryElement
}

// Mesh is a linear unstructured grid with face connectivity
type Mesh struct {
	NDim     int
	Vertices [][]float64 // Vertex coordinates, always 3 entries

	// Element to vertex connectivity in VTK corner order
	EtoV         [][]int
	ElementTypes []utils.ElementType

	Markers []Marker

	// Connectivity, built by BuildConnectivity
	EToE    [][]int // Neighbor across each local face, -1 on the boundary
	EToF    [][]int // Face ID of each local face
	Faces   []Face
	FaceMap map[string]int // Sorted vertex key -> face ID

	NumElements int
	NumVertices int
	NumFaces    int
}

func NewMesh() *Mesh {
	return &Mesh{
		FaceMap: make(map[string]int),
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".su2":
		return ReadSU2(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// AddBoundaryElement appends be to the marker named tag, creating the marker
// on first use
func (m *Mesh) AddBoundaryElement(tag string, be BoundaryElement) {
	im := m.MarkerIndex(tag)
	if im < 0 {
		m.Markers = append(m.Markers, Marker{Tag: tag})
		im = len(m.Markers) - 1
	}
	m.Markers[im].Elements = append(m.Markers[im].Elements, be)
}

// MarkerIndex returns the position of the marker named tag, -1 if absent
func (m *Mesh) MarkerIndex(tag string) int {
	for i := range m.Markers {
		if m.Markers[i].Tag == tag {
			return i
		}
	}
	return -1
}

func faceKey(verts []int) (key string, sorted []int) {
	sorted = make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	key = fmt.Sprintf("%v", sorted)
	return
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.NumElements = len(m.EtoV)
	m.NumVertices = len(m.Vertices)
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := utils.GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))
		for i := range m.EToE[elemID] {
			m.EToE[elemID][i] = -1
			m.EToF[elemID][i] = -1
		}

		for localFaceID, faceVerts := range faceVertices {
			key, sorted := faceKey(faceVerts)
			if faceID, exists := m.FaceMap[key]; exists {
				// Second visit, interior face
				face := &m.Faces[faceID]
				m.EToE[elemID][localFaceID] = face.Element
				m.EToE[face.Element][face.LocalID] = elemID
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID := len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	m.NumFaces = len(m.Faces)
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimension: %d\n", m.NDim)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.NumElements)
	fmt.Printf("  Faces: %d\n", m.NumFaces)

	typeCounts := make(map[utils.ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	fmt.Printf("  Element types:\n")
	for t := utils.Point; t <= utils.Pyramid; t++ {
		if count := typeCounts[t]; count > 0 {
			fmt.Printf("    %s: %d\n", t, count)
		}
	}
	fmt.Printf("  Markers:\n")
	for _, mk := range m.Markers {
		fmt.Printf("    %s: %d boundary elements\n", mk.Tag, len(mk.Elements))
	}
}
