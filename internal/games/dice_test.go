package games

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-arcade-backend/internal/models"
)

func TestResolveDice(t *testing.T) {
	tests := []struct {
		name     string
		wager    float64
		target   int
		over     bool
		rolled   float64
		win      bool
		winnings float64
	}{
		{"under wins below target", 50, 50, false, 30, true, 99},
		{"under loses above target", 50, 50, false, 70, false, 0},
		{"over wins above target", 50, 50, true, 70, true, 99},
		{"over loses below target", 50, 50, true, 30, false, 0},
		{"exact hit loses under", 50, 50, false, 50, false, 0},
		{"exact hit loses over", 50, 50, true, 50, false, 0},
		{"long shot pays big", 10, 2, false, 1.5, true, 495},
		{"zero wager win pays nothing", 0, 50, false, 10, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveDice(tt.wager, tt.target, tt.over, tt.rolled)
			assert.Equal(t, tt.win, result.Win)
			assert.Equal(t, tt.winnings, result.Winnings)
			assert.Equal(t, tt.rolled, result.Rolled)
		})
	}
}

func TestDicePlayValidation(t *testing.T) {
	ledger := newFakeLedger(map[string]float64{"alice": 1000})
	engine := NewDiceEngine(ledger, nil)
	ctx := context.Background()

	_, err := engine.Play(ctx, "alice", -1, 50, false)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = engine.Play(ctx, "alice", MaxWager+1, 50, false)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = engine.Play(ctx, "alice", 100, MinDiceTarget-1, false)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = engine.Play(ctx, "alice", 100, MaxDiceTarget+1, true)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = engine.Play(ctx, "alice", 5000, 50, false)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, _ := ledger.Balance(ctx, "alice")
	assert.Equal(t, 1000.0, balance, "rejected plays must not move the balance")
	assert.Empty(t, ledger.records(), "rejected plays must not be recorded")
}

func TestDicePlayConservesBalance(t *testing.T) {
	// Whatever the roll, the final balance equals initial - wager + winnings.
	ledger := newFakeLedger(map[string]float64{"alice": 1000})
	engine := NewDiceEngine(ledger, nil)
	ctx := context.Background()

	result, err := engine.Play(ctx, "alice", 100, 50, false)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Rolled, 0.0)
	assert.Less(t, result.Rolled, 100.0)
	assert.Equal(t, 1.98, result.Multiplier)
	assert.Equal(t, 1000.0-100.0+result.Winnings, result.Balance)

	balance, _ := ledger.Balance(ctx, "alice")
	assert.Equal(t, result.Balance, balance)
}

func TestDicePlayWritesHistory(t *testing.T) {
	ledger := newFakeLedger(map[string]float64{"alice": 1000})
	engine := NewDiceEngine(ledger, nil)

	result, err := engine.Play(context.Background(), "alice", 100, 50, true)
	require.NoError(t, err)

	recs := ledger.records()
	require.Len(t, recs, 1)
	rec := recs[0]

	assert.Equal(t, "alice", rec.UserID)
	assert.Equal(t, models.GameDice, rec.Game)
	assert.Equal(t, 100.0, rec.BetAmount)
	assert.Equal(t, result.Rolled, rec.GameData["rolled"])
	assert.Equal(t, 50, rec.GameData["target"])

	if result.Win {
		assert.Equal(t, models.ResultWin, rec.Result)
		assert.Equal(t, result.Winnings, rec.CoinsWon)
		assert.Equal(t, 0.0, rec.CoinsLost)
	} else {
		assert.Equal(t, models.ResultLoss, rec.Result)
		assert.Equal(t, 0.0, rec.CoinsWon)
		assert.Equal(t, 100.0, rec.CoinsLost)
	}
}

func TestDicePlayCreditFailure(t *testing.T) {
	// Target 99 under wins 99% of rolls; repeat until the credit path runs.
	ledger := newFakeLedger(map[string]float64{"alice": 100000})
	ledger.failCredit = true
	engine := NewDiceEngine(ledger, nil)

	for i := 0; i < 100; i++ {
		_, err := engine.Play(context.Background(), "alice", 100, MaxDiceTarget, false)
		if err != nil {
			assert.ErrorIs(t, err, ErrInternal)
			return
		}
	}
	t.Fatal("never hit the payout path")
}
