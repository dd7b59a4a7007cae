package matfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "data.mat"))
	require.Error(t, err)

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestOpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.mat")
	content := []byte("MATLAB 5.0 MAT-file, Platform: GLNXA64, this is not an HDF5 container")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	var pathErr *fs.PathError
	assert.False(t, errors.As(err, &pathErr))
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mat")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path)
	assert.True(t, errors.Is(err, ErrMalformed))
}

const fixturePath = "testdata/run.mat"

func openFixture(t *testing.T) *File {
	t.Helper()
	f, err := Open(fixturePath)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestMatlabDims(t *testing.T) {
	tests := []struct {
		name  string
		shape []uint64
		want  []int
	}{
		{"scalar dataspace", nil, []int{1, 1}},
		{"rank 1 is a column", []uint64{4}, []int{4, 1}},
		{"matrix", []uint64{5, 3}, []int{3, 5}},
		{"row vector", []uint64{5, 1}, []int{1, 5}},
		{"three dims", []uint64{3, 5, 4}, []int{4, 5, 3}},
		{"zero extent", []uint64{0, 3}, []int{3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matlabDims(tt.shape))
		})
	}
}

func TestEmptyDims(t *testing.T) {
	tests := []struct {
		name    string
		payload []uint64
		want    []int
		wantErr bool
	}{
		{"zero rows", []uint64{0, 3}, []int{0, 3}, false},
		{"zero by zero", []uint64{0, 0}, []int{0, 0}, false},
		{"three dims", []uint64{2, 0, 4}, []int{2, 0, 4}, false},
		{"no payload", nil, nil, true},
		{"single dim", []uint64{0}, nil, true},
		{"nothing empty", []uint64{2, 3}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := emptyDims(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariableNames(t *testing.T) {
	got := variableNames([]string{"y_k_j", "#refs#", "C_c_v", "#subsystem#", "b"})
	assert.Equal(t, []string{"C_c_v", "b", "y_k_j"}, got)
	assert.Empty(t, variableNames(nil))
}

func TestParseClass(t *testing.T) {
	assert.Equal(t, ClassDouble, parseClass("double"))
	assert.Equal(t, ClassDouble, parseClass("double\x00\x00"))
	assert.Equal(t, ClassChar, parseClass("char  "))
	assert.Equal(t, Class(""), parseClass("\x00"))
}

func TestOpenFixtureNames(t *testing.T) {
	f := openFixture(t)
	assert.Equal(t, fixturePath, f.Path())
	assert.Equal(t, []string{
		"C_c_v", "b", "bad_empty", "cu", "cv", "fu", "fv", "meta", "note",
		"r_i_vk_i", "rho_i_pj_i", "rho_v_c_v", "t", "theta_vk_i", "unused",
		"v_var", "v_vk_vk_i", "w_var", "w_vk_vk_i", "y_k_j", "y_var",
	}, f.Names())
}

func TestLookupFixtureDims(t *testing.T) {
	f := openFixture(t)

	tests := []struct {
		name  string
		class Class
		dims  []int
	}{
		{"y_k_j", ClassDouble, []int{4, 5, 3}},
		{"rho_i_pj_i", ClassDouble, []int{3, 3}},
		{"t", ClassDouble, []int{1, 5}},
		{"rho_v_c_v", ClassDouble, []int{3, 1}},
		{"y_var", ClassDouble, []int{4, 1}},
		{"fu", ClassDouble, []int{1, 1}},
		{"b", ClassDouble, []int{1, 1}},
		{"note", ClassChar, []int{1, 4}},
		{"unused", ClassDouble, []int{0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, v.Name())
			assert.Equal(t, tt.class, v.Class())
			assert.Equal(t, tt.dims, v.Dims())
		})
	}
}

func TestLookupFixtureValues(t *testing.T) {
	f := openFixture(t)

	v, err := f.Lookup("C_c_v")
	require.NoError(t, err)
	got, err := v.Float64s()
	require.NoError(t, err)
	// column-major
	assert.Equal(t, []float64{0, 0, 1, -1, 0, 0, 0, -1, 0}, got)

	v, err = f.Lookup("t")
	require.NoError(t, err)
	got, err = v.Float64s()
	require.NoError(t, err)
	want := make([]float64, 5)
	for k := range want {
		want[k] = 0.1 * float64(k)
	}
	assert.Equal(t, want, got)

	v, err = f.Lookup("b")
	require.NoError(t, err)
	got, err = v.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.24}, got)
}

func TestLookupFixtureEmpty(t *testing.T) {
	f := openFixture(t)

	v, err := f.Lookup("unused")
	require.NoError(t, err)
	got, err := v.Float64s()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLookupFixtureBadEmptyDims(t *testing.T) {
	f := openFixture(t)

	v, err := f.Lookup("bad_empty")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, v.Dims())

	_, err = v.Float64s()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "bad_empty")
	assert.Contains(t, err.Error(), emptyAttr)
}

func TestLookupFixtureNonNumeric(t *testing.T) {
	f := openFixture(t)

	v, err := f.Lookup("note")
	require.NoError(t, err)
	_, err = v.Float64s()
	assert.True(t, errors.Is(err, ErrNotNumeric))

	// structs are groups, not datasets
	_, err = f.Lookup("meta")
	assert.True(t, errors.Is(err, ErrNotNumeric))
	assert.Contains(t, err.Error(), string(ClassStruct))
}

func TestLookupFixtureHiddenGroups(t *testing.T) {
	f := openFixture(t)

	for _, name := range []string{"#refs#", "#subsystem#", "missing"} {
		_, err := f.Lookup(name)
		assert.True(t, errors.Is(err, ErrNoVariable), name)
	}
}

func TestLookupDimsAreCopies(t *testing.T) {
	f := openFixture(t)

	v, err := f.Lookup("y_k_j")
	require.NoError(t, err)
	v.Dims()[0] = 99
	assert.Equal(t, []int{4, 5, 3}, v.Dims())
}
