// Package gradient implements gradient-descent updates for a simple
// linear model y = m*x + b under mean-absolute-error loss.
//
// The MAE subgradient is sign(residual), which is undefined where a
// residual is exactly zero. StepMAE surfaces that case as ErrZeroResidual
// instead of producing NaN; callers that reach a perfect fit on some
// sample must decide how to proceed.
package gradient
