package gradient

import (
	"errors"
	"math"
	"testing"
)

func TestStepMAE_HandComputedUpdate(t *testing.T) {
	// All residuals positive: y = 2x lies above y = 0.
	// m_deriv = -(1+2+3) = -6, b_deriv = -3, N = 3.
	// m' = 0 - 0.1*(-6/3) = 0.2, b' = 0 - 0.1*(-3/3) = 0.1.
	m, b, err := StepMAE(0, 0, []float64{1, 2, 3}, []float64{2, 4, 6}, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 0.2 {
		t.Errorf("want m' = 0.2, got %v", m)
	}
	if b != 0.1 {
		t.Errorf("want b' = 0.1, got %v", b)
	}
}

func TestStepMAE_MixedSignResiduals(t *testing.T) {
	// Residuals: 0-(1) = -1 and 4-2 = 2.
	// m_deriv = -1*(-1) + -2*(1) = -1, b_deriv = 1 - 1 = 0.
	m, b, err := StepMAE(1, 0, []float64{1, 2}, []float64{0, 4}, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantM := 1 - 0.1*(-1.0/2.0)
	if m != wantM {
		t.Errorf("want m' = %v, got %v", wantM, m)
	}
	if b != 0 {
		t.Errorf("want b' = 0, got %v", b)
	}
}

func TestStepMAE_Deterministic(t *testing.T) {
	x := []float64{0.5, 1.5, 2.5, 3.5}
	y := []float64{1.1, 2.9, 4.2, 7.3}

	m1, b1, err1 := StepMAE(0.3, -0.2, x, y, 0.01)
	m2, b2, err2 := StepMAE(0.3, -0.2, x, y, 0.01)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if m1 != m2 || b1 != b2 {
		t.Errorf("identical inputs gave different results: (%v, %v) vs (%v, %v)", m1, b1, m2, b2)
	}
}

func TestStepMAE_ZeroResidual(t *testing.T) {
	// Sample (2, 4) lies exactly on y = 2x.
	m, b, err := StepMAE(2, 0, []float64{1, 2}, []float64{3, 4}, 0.1)
	if !errors.Is(err, ErrZeroResidual) {
		t.Fatalf("want ErrZeroResidual, got %v", err)
	}
	// Parameters are untouched, and no NaN leaks out.
	if m != 2 || b != 0 {
		t.Errorf("params changed despite error: m=%v b=%v", m, b)
	}
	if math.IsNaN(m) || math.IsNaN(b) {
		t.Error("zero residual produced NaN")
	}
}

func TestStepMAE_EmptyDataset(t *testing.T) {
	_, _, err := StepMAE(0, 0, nil, nil, 0.1)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("want ErrEmptyDataset, got %v", err)
	}
}

func TestStepMAE_LengthMismatch(t *testing.T) {
	_, _, err := StepMAE(0, 0, []float64{1, 2}, []float64{1}, 0.1)
	if err == nil {
		t.Error("want error for mismatched lengths")
	}
}

func TestDescend_ConvergesTowardLine(t *testing.T) {
	// Points on y = 2x + 1, slightly perturbed so residuals never hit zero.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3.01, 4.99, 7.01, 8.99, 11.01}

	m, b, err := Descend(0, 0, x, y, 0.01, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(m-2) > 0.2 {
		t.Errorf("slope did not approach 2: %v", m)
	}
	if math.Abs(b-1) > 0.5 {
		t.Errorf("intercept did not approach 1: %v", b)
	}
}

func TestDescend_StopsOnZeroResidual(t *testing.T) {
	// Exact fit is reachable: a step that lands a sample on the line stops
	// the descent with the params reached so far.
	x := []float64{1}
	y := []float64{1}

	// From m=0, b=0 with lr=0.5: residual 1 > 0, m_deriv = -1, b_deriv = -1,
	// so m'=0.5, b'=0.5 and the next residual is 1-(0.5+0.5) = 0.
	m, b, err := Descend(0, 0, x, y, 0.5, 10)
	if !errors.Is(err, ErrZeroResidual) {
		t.Fatalf("want ErrZeroResidual, got %v", err)
	}
	if m != 0.5 || b != 0.5 {
		t.Errorf("want params reached before the bad step, got m=%v b=%v", m, b)
	}
}
