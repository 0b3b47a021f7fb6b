package games

import (
	"context"
	"fmt"
	"log"
	"time"

	"coin-arcade-backend/internal/models"
)

// Dice targets live in the open interval (1, 100) so both directions always
// have a real chance of losing.
const (
	MinDiceTarget = 2
	MaxDiceTarget = 99
)

// DiceEngine runs the single-shot dice round: the wager is debited up front,
// one value is drawn, and the round settles immediately. No session state
// outlives the call.
type DiceEngine struct {
	ledger      Ledger
	broadcaster Broadcaster
}

func NewDiceEngine(ledger Ledger, broadcaster Broadcaster) *DiceEngine {
	return &DiceEngine{ledger: ledger, broadcaster: broadcaster}
}

// Play validates, stakes, rolls and settles. Debiting before the draw closes
// the balance-check race between reading the balance and paying out.
func (e *DiceEngine) Play(ctx context.Context, ownerID string, wager float64, target int, over bool) (*models.DicePlayResult, error) {
	if wager < 0 || wager > MaxWager {
		return nil, fmt.Errorf("%w: bet must be in [0, %d], got %v", ErrInvalidParameter, MaxWager, wager)
	}
	if target < MinDiceTarget || target > MaxDiceTarget {
		return nil, fmt.Errorf("%w: target must be in [%d, %d], got %d", ErrInvalidParameter, MinDiceTarget, MaxDiceTarget, target)
	}

	balance, err := e.ledger.Balance(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading balance: %v", ErrInternal, err)
	}
	if wager > 0 {
		if balance < wager {
			return nil, ErrInsufficientBalance
		}
		if balance, err = e.ledger.Debit(ctx, ownerID, wager); err != nil {
			return nil, err
		}
	}

	result := ResolveDice(wager, target, over, RollDice())

	if result.Win && result.Winnings > 0 {
		if balance, err = e.ledger.Credit(ctx, ownerID, result.Winnings); err != nil {
			// The stake is gone and the payout failed; surface loudly, the
			// operator has to reconcile by hand.
			return nil, fmt.Errorf("%w: crediting dice win of %v for %s: %v", ErrInternal, result.Winnings, ownerID, err)
		}
	}
	result.Balance = balance

	e.writeHistory(ctx, ownerID, wager, result)
	if e.broadcaster != nil {
		e.broadcaster.BalanceUpdate(ownerID, balance)
	}

	return result, nil
}

// ResolveDice computes the outcome of a roll against the player's choice.
// Pure: no ledger effects, no randomness.
func ResolveDice(wager float64, target int, over bool, rolled float64) *models.DicePlayResult {
	win := (over && rolled > float64(target)) || (!over && rolled < float64(target))
	multiplier := DiceMultiplier(target, over)

	var winnings float64
	if win {
		winnings = models.Round2(wager * multiplier)
	}

	return &models.DicePlayResult{
		Rolled:     rolled,
		Target:     target,
		Over:       over,
		Win:        win,
		Multiplier: multiplier,
		Winnings:   winnings,
	}
}

func (e *DiceEngine) writeHistory(ctx context.Context, ownerID string, wager float64, result *models.DicePlayResult) {
	outcome := models.ResultLoss
	var lost float64
	if result.Win {
		outcome = models.ResultWin
	} else {
		lost = wager
	}

	rec := &models.HistoryRecord{
		ID:        models.NewID(),
		UserID:    ownerID,
		Game:      models.GameDice,
		GameName:  "Dice Game",
		BetAmount: wager,
		Result:    outcome,
		CoinsWon:  result.Winnings,
		CoinsLost: lost,
		PlayedAt:  time.Now(),
		GameData: map[string]any{
			"target":     result.Target,
			"over":       result.Over,
			"rolled":     result.Rolled,
			"multiplier": result.Multiplier,
		},
	}
	if err := e.ledger.AppendHistory(ctx, rec); err != nil {
		log.Printf("dice: history write failed for %s: %v", ownerID, err)
	}
}
