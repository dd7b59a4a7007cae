package matfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

const (
	classAttr = "MATLAB_class"
	emptyAttr = "MATLAB_empty"
)

// File is an open MATLAB v7.3 container.
type File struct {
	path  string
	h5    *hdf5.File
	names []string
}

// Open opens the container at path. Failures to reach the file are
// returned as *fs.PathError; a file that opens but cannot be parsed
// wraps ErrMalformed.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	h5, err := hdf5.Open(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, pathErr
		}
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}

	members, err := h5.Root().Members()
	if err != nil {
		h5.Close()
		return nil, fmt.Errorf("%s: %w: listing variables: %v", path, ErrMalformed, err)
	}

	return &File{path: path, h5: h5, names: variableNames(members)}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.h5.Close()
}

// Names implements Container.
func (f *File) Names() []string {
	return append([]string(nil), f.names...)
}

// Lookup implements Container.
func (f *File) Lookup(name string) (Variable, error) {
	i := sort.SearchStrings(f.names, name)
	if i == len(f.names) || f.names[i] != name {
		return nil, fmt.Errorf("%q: %w", name, ErrNoVariable)
	}

	ds, err := f.h5.Root().OpenDataset(name)
	switch {
	case errors.Is(err, hdf5.ErrNotDataset):
		// v7.3 structs are stored as groups
		return nil, fmt.Errorf("%q: %w (class %s)", name, ErrNotNumeric, ClassStruct)
	case errors.Is(err, hdf5.ErrNotFound):
		return nil, fmt.Errorf("%q: %w", name, ErrNoVariable)
	case err != nil:
		return nil, fmt.Errorf("%q: %w: %v", name, ErrMalformed, err)
	}

	v := &h5Variable{name: name, ds: ds}
	if attr := ds.Attr(classAttr); attr != nil {
		raw, err := attr.ReadScalarString()
		if err != nil {
			return nil, fmt.Errorf("%q: %w: reading %s: %v", name, ErrMalformed, classAttr, err)
		}
		v.class = parseClass(raw)
	}

	if !ds.HasAttr(emptyAttr) {
		v.dims = matlabDims(ds.Shape())
		return v, nil
	}
	v.empty = true
	payload, err := ds.ReadUint64()
	if err == nil {
		v.dims, err = emptyDims(payload)
	}
	if err != nil {
		// Reported by Float64s so the caller sees it with the field name.
		v.dims = []int{0, 0}
		v.err = fmt.Errorf("%q: %w: reading %s dims: %v", name, ErrMalformed, emptyAttr, err)
	}
	return v, nil
}

// variableNames drops the groups MATLAB keeps cell and object payloads
// in (#refs#, #subsystem#) and sorts the rest.
func variableNames(members []string) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if strings.HasPrefix(m, "#") {
			continue
		}
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// parseClass trims the padding of a fixed-length MATLAB_class string.
func parseClass(raw string) Class {
	return Class(strings.TrimRight(raw, "\x00 "))
}

// matlabDims reverses HDF5 extents into MATLAB order: MATLAB writes its
// column-major buffer as a row-major dataset with the dimensions
// flipped. A scalar dataspace is 1x1 and a rank 1 dataspace a column.
func matlabDims(shape []uint64) []int {
	switch len(shape) {
	case 0:
		return []int{1, 1}
	case 1:
		return []int{int(shape[0]), 1}
	}
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[len(shape)-1-i] = int(d)
	}
	return dims
}

// emptyDims decodes the payload of a MATLAB_empty variable, which holds
// the MATLAB dims of the empty array instead of data.
func emptyDims(payload []uint64) ([]int, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("want at least 2 dims, got %d", len(payload))
	}
	dims := make([]int, len(payload))
	empty := false
	for i, d := range payload {
		dims[i] = int(d)
		empty = empty || d == 0
	}
	if !empty {
		return nil, fmt.Errorf("dims %v of an empty variable have no zero extent", payload)
	}
	return dims, nil
}

type h5Variable struct {
	name  string
	class Class
	dims  []int
	empty bool
	err   error
	ds    *hdf5.Dataset
}

func (v *h5Variable) Name() string { return v.name }
func (v *h5Variable) Class() Class { return v.class }
func (v *h5Variable) Dims() []int { return append([]int(nil), v.dims...) }

func (v *h5Variable) Float64s() ([]float64, error) {
	if v.err != nil {
		return nil, v.err
	}
	if !v.class.Numeric() {
		return nil, fmt.Errorf("%q: %w (class %s)", v.name, ErrNotNumeric, v.class)
	}
	if v.empty {
		return []float64{}, nil
	}
	data, err := v.ds.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %v", v.name, ErrNotNumeric, err)
	}
	return data, nil
}
