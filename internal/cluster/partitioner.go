// Package cluster groups trips into driving-pattern clusters over
// (speed, hard brakes).
package cluster

import "errors"

var (
	ErrInvalidK       = errors.New("k must be at least 1")
	ErrTooFewPoints   = errors.New("fewer points than clusters")
	ErrDimensionMixed = errors.New("points have different dimensions")
)

// Partitioner splits points into k groups and returns one label in
// [0, k) per point, in input order.
type Partitioner interface {
	Partition(points [][]float64, k int) ([]int, error)
}
