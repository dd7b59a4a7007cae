// Package matfile reads named numeric arrays out of MATLAB-style
// containers. MATLAB v7.3 files are HDF5 files with a 512 byte user
// block, so File delegates the on-disk format to an HDF5 reader and only
// deals with MATLAB's naming, class and ordering conventions.
package matfile

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoVariable is returned by Lookup when the container has no
	// variable with the requested name.
	ErrNoVariable = errors.New("variable not found")
	// ErrMalformed marks a file that opened but is not a readable container.
	ErrMalformed = errors.New("malformed container")
	// ErrNotNumeric marks a variable whose class cannot be read as numbers.
	ErrNotNumeric = errors.New("variable is not numeric")
)

// Class is the MATLAB storage class recorded with each variable.
type Class string

const (
	ClassDouble  Class = "double"
	ClassSingle  Class = "single"
	ClassInt8    Class = "int8"
	ClassUint8   Class = "uint8"
	ClassInt16   Class = "int16"
	ClassUint16  Class = "uint16"
	ClassInt32   Class = "int32"
	ClassUint32  Class = "uint32"
	ClassInt64   Class = "int64"
	ClassUint64  Class = "uint64"
	ClassLogical Class = "logical"
	ClassChar    Class = "char"
	ClassCell    Class = "cell"
	ClassStruct  Class = "struct"
)

// Numeric reports whether values of this class can be coerced to float64.
// The empty class belongs to datasets written by plain HDF5 tools.
func (c Class) Numeric() bool {
	switch c {
	case "", ClassDouble, ClassSingle, ClassLogical,
		ClassInt8, ClassUint8, ClassInt16, ClassUint16,
		ClassInt32, ClassUint32, ClassInt64, ClassUint64:
		return true
	}
	return false
}

// Variable is one named array in a container.
type Variable interface {
	Name() string
	Class() Class
	// Dims returns the extents in MATLAB order (rows first).
	Dims() []int
	// Float64s returns the elements column-major, coerced to float64.
	Float64s() ([]float64, error)
}

// Container exposes named variables by string key.
type Container interface {
	Lookup(name string) (Variable, error)
	Names() []string
}

// Memory is an in-memory Container.
type Memory struct {
	vars map[string]memVariable
}

type memVariable struct {
	name  string
	class Class
	dims  []int
	data  []float64
	err   error
}

func (v memVariable) Name() string { return v.name }
func (v memVariable) Class() Class { return v.class }
func (v memVariable) Dims() []int  { return append([]int(nil), v.dims...) }

func (v memVariable) Float64s() ([]float64, error) {
	if v.err != nil {
		return nil, v.err
	}
	if !v.class.Numeric() {
		return nil, fmt.Errorf("%s: %w (class %s)", v.name, ErrNotNumeric, v.class)
	}
	return append([]float64(nil), v.data...), nil
}

// NewMemory returns an empty in-memory container.
func NewMemory() *Memory {
	return &Memory{vars: make(map[string]memVariable)}
}

// Set stores a copy of a as a double variable.
func (m *Memory) Set(name string, a Array) {
	a = a.Clone()
	m.vars[name] = memVariable{name: name, class: ClassDouble, dims: a.Dims, data: a.Data}
}

// SetVariable stores a variable with an explicit class. A non-nil readErr
// is returned from Float64s, which lets tests model unreadable payloads.
func (m *Memory) SetVariable(name string, class Class, dims []int, data []float64, readErr error) {
	m.vars[name] = memVariable{
		name:  name,
		class: class,
		dims:  append([]int(nil), dims...),
		data:  append([]float64(nil), data...),
		err:   readErr,
	}
}

// Delete removes a variable. Deleting a missing name is a no-op.
func (m *Memory) Delete(name string) {
	delete(m.vars, name)
}

// Clone returns an independent copy of the container.
func (m *Memory) Clone() *Memory {
	out := NewMemory()
	for name, v := range m.vars {
		out.SetVariable(name, v.class, v.dims, v.data, v.err)
	}
	return out
}

// Lookup implements Container.
func (m *Memory) Lookup(name string) (Variable, error) {
	v, ok := m.vars[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNoVariable)
	}
	return v, nil
}

// Names implements Container.
func (m *Memory) Names() []string {
	names := make([]string, 0, len(m.vars))
	for name := range m.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
