package gradient

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroResidual is returned when a sample lies exactly on the current
	// line, where the MAE subgradient is undefined.
	ErrZeroResidual = errors.New("gradient: zero residual, MAE subgradient undefined")

	// ErrEmptyDataset is returned when the dataset has no samples.
	ErrEmptyDataset = errors.New("gradient: empty dataset")
)

// StepMAE performs one gradient-descent update of (m, b) for MAE loss over
// the dataset (x, y). For each sample the residual r = y[i] - (m*x[i] + b)
// contributes -x[i]*sign(r) to the slope derivative and -sign(r) to the
// intercept derivative; the averaged derivatives are then scaled by
// learningRate and subtracted. Summation runs in input order, so the result
// is deterministic for identical inputs.
//
// Returns ErrZeroResidual if any residual is exactly zero; the update is
// not applied in that case.
func StepMAE(m, b float64, x, y []float64, learningRate float64) (float64, float64, error) {
	if len(x) == 0 {
		return m, b, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return m, b, fmt.Errorf("gradient: len(x)=%d, len(y)=%d", len(x), len(y))
	}

	var mDeriv, bDeriv float64
	n := float64(len(x))

	for i := range x {
		r := y[i] - (m*x[i] + b)
		if r == 0 {
			return m, b, fmt.Errorf("sample %d: %w", i, ErrZeroResidual)
		}

		s := sign(r)
		mDeriv += -x[i] * s
		bDeriv += -s
	}

	m -= learningRate * (mDeriv / n)
	b -= learningRate * (bDeriv / n)
	return m, b, nil
}

// Descend applies StepMAE up to steps times, returning the parameters
// reached. It stops early with the error if a step cannot be taken; a
// zero residual partway through means some sample sits exactly on the
// fitted line.
func Descend(m, b float64, x, y []float64, learningRate float64, steps int) (float64, float64, error) {
	for i := 0; i < steps; i++ {
		var err error
		m, b, err = StepMAE(m, b, x, y, learningRate)
		if err != nil {
			return m, b, err
		}
	}
	return m, b, nil
}

func sign(r float64) float64 {
	if r > 0 {
		return 1
	}
	return -1
}
