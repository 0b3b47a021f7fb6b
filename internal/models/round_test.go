package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundStatusTerminal(t *testing.T) {
	assert.False(t, RoundActive.Terminal())
	assert.True(t, RoundLost.Terminal())
	assert.True(t, RoundWon.Terminal())
	assert.True(t, RoundCashedOut.Terminal())
}

func TestClientGridHidesUnrevealedHazards(t *testing.T) {
	rs := &RoundSession{
		Hazards:  []bool{true, false, true, false, false},
		Mines:    2,
		Revealed: []int{1},
	}

	grid := rs.ClientGrid(false)
	for _, tile := range grid {
		if tile.ID == 1 {
			assert.True(t, tile.Revealed)
		} else {
			assert.False(t, tile.Revealed)
		}
		assert.False(t, tile.IsMine, "tile %d leaked a hazard", tile.ID)
	}
}

func TestClientGridExposesHazardsAfterLoss(t *testing.T) {
	rs := &RoundSession{
		Hazards:  []bool{true, false, true, false, false},
		Mines:    2,
		Revealed: []int{1, 2},
	}

	grid := rs.ClientGrid(true)
	assert.True(t, grid[0].IsMine)
	assert.True(t, grid[0].Revealed)
	assert.True(t, grid[2].IsMine)
	assert.False(t, grid[3].IsMine)
	assert.False(t, grid[3].Revealed)
}

func TestClientGridRevealedMine(t *testing.T) {
	// The tile that ended the round shows as a mine even without exposure.
	rs := &RoundSession{
		Hazards:  []bool{true, false},
		Mines:    1,
		Revealed: []int{0},
	}

	grid := rs.ClientGrid(false)
	assert.True(t, grid[0].IsMine)
	assert.True(t, grid[0].Revealed)
}

func TestSafeTiles(t *testing.T) {
	rs := &RoundSession{Hazards: make([]bool, 25), Mines: 3}
	assert.Equal(t, 22, rs.SafeTiles())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 112.0, Round2(100*1.12))
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 33.33, Round2(100.0/3))
}
