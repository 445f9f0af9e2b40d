package utils

// ElementType represents the shape of a finite element or a linear sub-element

type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	// 2D elements
	Triangle
	Quad
	// 3D elements
	Tet
	Hex
	Prism
	Pyramid
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Point",
		"Line",
		"Triangle", "Quad",
		"Tet", "Hex", "Prism", "Pyramid",
	}
	if e >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the parametric dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line:
		return 1
	case Triangle, Quad:
		return 2
	case Tet, Hex, Prism, Pyramid:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of corner nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// VTK cell type identifiers, shared with the SU2 native format
const (
	VTKLine          = 3
	VTKTriangle      = 5
	VTKQuadrilateral = 9
	VTKTetrahedron   = 10
	VTKHexahedron    = 12
	VTKPrism         = 13
	VTKPyramid       = 14
)

var vtkToElementType = map[int]ElementType{
	VTKLine:          Line,
	VTKTriangle:      Triangle,
	VTKQuadrilateral: Quad,
	VTKTetrahedron:   Tet,
	VTKHexahedron:    Hex,
	VTKPrism:         Prism,
	VTKPyramid:       Pyramid,
}

// ElementTypeFromVTK maps a VTK cell type identifier to an ElementType
func ElementTypeFromVTK(vtk int) (e ElementType, ok bool) {
	e, ok = vtkToElementType[vtk]
	return
}

// VTKType returns the VTK cell type identifier, -1 if there is none
func (e ElementType) VTKType() int {
	for vtk, et := range vtkToElementType {
		if et == e {
			return vtk
		}
	}
	return -1
}

// GetElementFaces returns the faces of a linear element as corner vertex lists,
// ordered counter-clockwise when viewed from outside
func GetElementFaces(elemType ElementType, v []int) [][]int {
	switch elemType {
	case Triangle:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[0]},
		}
	case Quad:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[3]},
			{v[3], v[0]},
		}
	case Tet:
		return [][]int{
			{v[0], v[2], v[1]},
			{v[0], v[1], v[3]},
			{v[0], v[3], v[2]},
			{v[1], v[2], v[3]},
		}
	case Hex:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // bottom
			{v[4], v[5], v[6], v[7]}, // top
			{v[0], v[1], v[5], v[4]},
			{v[1], v[2], v[6], v[5]},
			{v[2], v[3], v[7], v[6]},
			{v[3], v[0], v[4], v[7]},
		}
	default:
		return [][]int{}
	}
}
