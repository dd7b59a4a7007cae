package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/batchest/internal/matfile"
	"github.com/banshee-data/batchest/internal/testutil"
)

func TestSummary(t *testing.T) {
	d := loadFixture(t, testutil.DatasetFixture(fixtureSteps, fixtureLandmarks))
	s := d.Summary()

	assert.Equal(t, fixtureSteps, s.Steps)
	assert.Equal(t, fixtureLandmarks, s.Landmarks)
	assert.InDelta(t, 0.4, s.Duration, 1e-12)
	assert.InDelta(t, 0.1, s.MeanStep, 1e-12)
	assert.InDelta(t, 0.1, s.MinStep, 1e-12)
	assert.InDelta(t, 0.1, s.MaxStep, 1e-12)

	want := 0
	for k := 0; k < fixtureSteps; k++ {
		for j := 0; j < fixtureLandmarks; j++ {
			if testutil.Observed(k, j) {
				want++
			}
		}
	}
	assert.Equal(t, want, s.Observations)
	assert.InDelta(t, float64(want)/float64(fixtureSteps*fixtureLandmarks), s.ObservedFraction, 1e-12)
}

func TestSummaryPartialObservation(t *testing.T) {
	// a measurement with any component set counts as observed
	c := testutil.DatasetFixture(2, 1)
	c.Set(KeyMeasurements, matfile.Array{
		Dims: []int{4, 2, 1},
		Data: []float64{-1, -1, -1, -1, 320, -1, -1, -1},
	})

	s := loadFixture(t, c).Summary()
	assert.Equal(t, 1, s.Observations)
	assert.InDelta(t, 0.5, s.ObservedFraction, 1e-12)
}

func TestSummarySingleStep(t *testing.T) {
	s := loadFixture(t, testutil.DatasetFixture(1, 2)).Summary()

	assert.Equal(t, 1, s.Steps)
	assert.Zero(t, s.Duration)
	assert.Zero(t, s.MeanStep)
}

func TestSummaryString(t *testing.T) {
	c := testutil.DatasetFixture(3, 1)
	c.Set(KeyTimestamps, matfile.Array{Dims: []int{1, 3}, Data: []float64{0, 0.1, 0.3}})
	c.Set(KeyMeasurements, matfile.Array{Dims: []int{4, 3, 1}, Data: []float64{
		1, 2, 3, 4,
		-1, -1, -1, -1,
		5, 6, 7, 8,
	}})

	d := loadFixture(t, c)
	require.Equal(t, 2, d.Summary().Observations)
	assert.Equal(t,
		"3 steps over 0.300 (dt mean 0.1500, min 0.1000, max 0.2000), 1 landmarks, 2 observations (66.7%)",
		d.Summary().String())
}
