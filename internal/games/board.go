package games

import (
	"fmt"
	"math/rand/v2"
)

// BoardSize is the canonical mines grid: 5x5.
const BoardSize = 25

// NewBoard returns a board of size tiles with exactly mines hazards placed
// by uniform sampling without replacement. The layout is chosen once per
// round and never altered.
func NewBoard(size, mines int) ([]bool, error) {
	if mines < 1 || mines >= size {
		return nil, fmt.Errorf("%w: mines must be in [1, %d], got %d", ErrInvalidParameter, size-1, mines)
	}
	board := make([]bool, size)
	for _, pos := range rand.Perm(size)[:mines] {
		board[pos] = true
	}
	return board, nil
}

// RollDice draws one uniform value in [0, 100).
func RollDice() float64 {
	return rand.Float64() * 100
}
