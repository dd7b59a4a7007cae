package matfile

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Array is an N-dimensional array of float64 values in MATLAB order:
// Dims lists the extents with the row count first and Data holds the
// elements column-major, so element (i, j, k) lives at
// i + Dims[0]*(j + Dims[1]*k).
type Array struct {
	Dims []int
	Data []float64
}

// NewArray returns an Array with the given dims. A nil data slice is
// allocated as zeros; otherwise its length must match the dims.
func NewArray(dims []int, data []float64) (Array, error) {
	n := numElements(dims)
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		return Array{}, fmt.Errorf("array %s needs %d elements, got %d", shapeString(dims), n, len(data))
	}
	return Array{Dims: append([]int(nil), dims...), Data: data}, nil
}

// FromMatrix converts a gonum matrix into a column-major Array.
func FromMatrix(m mat.Matrix) Array {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			data[i+r*j] = m.At(i, j)
		}
	}
	return Array{Dims: []int{r, c}, Data: data}
}

// Len returns the total number of elements.
func (a Array) Len() int {
	return len(a.Data)
}

// Rank returns the number of dimensions.
func (a Array) Rank() int {
	return len(a.Dims)
}

// Shape formats the dims MATLAB style, e.g. "3x1".
func (a Array) Shape() string {
	return shapeString(a.Dims)
}

// At returns the element at the given subscripts. Missing trailing
// subscripts are treated as zero, which matches MATLAB's implicit
// singleton dimensions.
func (a Array) At(idx ...int) (float64, error) {
	if len(idx) < len(a.Dims) {
		return 0, fmt.Errorf("need %d subscripts for %s array, got %d", len(a.Dims), a.Shape(), len(idx))
	}
	offset, stride := 0, 1
	for d, i := range idx {
		extent := 1
		if d < len(a.Dims) {
			extent = a.Dims[d]
		}
		if i < 0 || i >= extent {
			return 0, fmt.Errorf("index %d out of range [0,%d) in dimension %d of %s array", i, extent, d, a.Shape())
		}
		offset += i * stride
		stride *= extent
	}
	return a.Data[offset], nil
}

// Matrix returns a row-major copy of a rank-2 array.
func (a Array) Matrix() (*mat.Dense, error) {
	if len(a.Dims) != 2 {
		return nil, fmt.Errorf("array %s is not a matrix", a.Shape())
	}
	r, c := a.Dims[0], a.Dims[1]
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("array %s is empty", a.Shape())
	}
	m := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			m.Set(i, j, a.Data[i+r*j])
		}
	}
	return m, nil
}

// Vector returns a copy of the elements when the array has at most one
// non-singleton dimension.
func (a Array) Vector() ([]float64, error) {
	long := 0
	for _, d := range a.Dims {
		if d != 1 {
			long++
		}
	}
	if long > 1 {
		return nil, fmt.Errorf("array %s is not a vector", a.Shape())
	}
	return append([]float64(nil), a.Data...), nil
}

// Clone returns a deep copy.
func (a Array) Clone() Array {
	return Array{
		Dims: append([]int(nil), a.Dims...),
		Data: append([]float64(nil), a.Data...),
	}
}

// Equal reports whether both arrays have the same dims and bit-identical
// elements.
func (a Array) Equal(b Array) bool {
	if len(a.Dims) != len(b.Dims) {
		return false
	}
	for i := range a.Dims {
		if a.Dims[i] != b.Dims[i] {
			return false
		}
	}
	return len(a.Data) == len(b.Data) && floats.Same(a.Data, b.Data)
}

func numElements(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func shapeString(dims []int) string {
	if len(dims) == 0 {
		return "scalar"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
