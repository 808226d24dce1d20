// Package irt implements item response theory curve models.
// It provides the logistic item characteristic curve (ICC) functions for the
// 1PL, 2PL, 3PL and 4PL model families, the shared ability sample grid, and
// the family descriptors that configure the reactive chart bindings.
package irt

import "math"

// Logistic computes the standard logistic function 1 / (1 + e^-x).
// It is total over the reals and saturates toward 0 and 1 for large |x|.
func Logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ICC1PL computes the one-parameter logistic ICC: P(theta) = logistic(theta - b).
func ICC1PL(theta, b float64) float64 {
	return Logistic(theta - b)
}

// ICC2PL computes the two-parameter logistic ICC with discrimination a.
func ICC2PL(theta, a, b float64) float64 {
	return Logistic(a * (theta - b))
}

// ICC3PL computes the three-parameter logistic ICC with guessing floor c.
func ICC3PL(theta, a, b, c float64) float64 {
	return c + (1-c)*Logistic(a*(theta-b))
}

// ICC4PL computes the four-parameter logistic ICC with lower asymptote c and
// upper asymptote d. Callers must guarantee d >= c; the function performs no
// clamping of its own.
func ICC4PL(theta, a, b, c, d float64) float64 {
	return c + (d-c)*Logistic(a*(theta-b))
}
