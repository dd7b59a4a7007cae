package dataset

import (
	"github.com/banshee-data/batchest/internal/matfile"
)

// LoadField reads the named variable from c as float64 values in its
// native shape. It does not check the shape; that is left to the caller.
func LoadField(c matfile.Container, name string) (matfile.Array, error) {
	v, err := c.Lookup(name)
	if err != nil {
		return matfile.Array{}, parseErr(name, err)
	}
	if class := v.Class(); !class.Numeric() {
		return matfile.Array{}, parseErrf(name, "class %s is not numeric", class)
	}

	data, err := v.Float64s()
	if err != nil {
		return matfile.Array{}, parseErr(name, err)
	}

	a := matfile.Array{Dims: v.Dims(), Data: data}
	want := 1
	for _, d := range a.Dims {
		want *= d
	}
	if len(data) != want {
		return matfile.Array{}, parseErrf(name, "%s variable holds %d elements, want %d", a.Shape(), len(data), want)
	}
	return a, nil
}
