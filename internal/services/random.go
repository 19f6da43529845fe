package services

import "math/rand/v2"

// RandomSource picks the index of the assignee when a task is created without one
type RandomSource interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

type globalRandom struct{}

// IntN uses the math/rand/v2 top-level generator, which is safe for concurrent use
func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRandomSource is used when no source is injected
var DefaultRandomSource RandomSource = globalRandom{}
