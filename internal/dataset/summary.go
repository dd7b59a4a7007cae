package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Unobserved is the value the dataset writes into all four components of
// y_k_j when landmark j is not visible at step k.
const Unobserved = -1.0

// Summary describes a dataset at a glance.
type Summary struct {
	Source    string
	Steps     int
	Landmarks int
	// Duration is t[N-1]-t[0], in the units of t.
	Duration float64
	MeanStep float64
	MinStep  float64
	MaxStep  float64
	// Observations counts (step, landmark) pairs with a measurement and
	// ObservedFraction is that count over N*M.
	Observations     int
	ObservedFraction float64
}

// Summary computes the dataset summary.
func (d *Dataset) Summary() Summary {
	t := d.fields[KeyTimestamps].Data
	s := Summary{
		Source:    d.source,
		Steps:     d.steps,
		Landmarks: d.landmarks,
		Duration:  t[len(t)-1] - t[0],
	}
	if len(d.timeSteps) > 0 {
		s.MeanStep = stat.Mean(d.timeSteps, nil)
		s.MinStep = floats.Min(d.timeSteps)
		s.MaxStep = floats.Max(d.timeSteps)
	}

	// y_k_j is column-major 4xNxM, so each measurement is four
	// contiguous values.
	y := d.fields[KeyMeasurements].Data
	for off := 0; off+4 <= len(y); off += 4 {
		if !observed(y[off : off+4]) {
			continue
		}
		s.Observations++
	}
	if total := d.steps * d.landmarks; total > 0 {
		s.ObservedFraction = float64(s.Observations) / float64(total)
	}
	return s
}

func observed(y []float64) bool {
	for _, v := range y {
		if v != Unobserved {
			return true
		}
	}
	return false
}

func (s Summary) String() string {
	return fmt.Sprintf("%d steps over %.3f (dt mean %.4f, min %.4f, max %.4f), %d landmarks, %d observations (%.1f%%)",
		s.Steps, s.Duration, s.MeanStep, s.MinStep, s.MaxStep, s.Landmarks, s.Observations, 100*s.ObservedFraction)
}
