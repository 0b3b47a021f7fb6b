package games

import (
	"context"
	"fmt"
	"log"
	"time"

	"coin-arcade-backend/internal/models"
)

const (
	// MaxWager is the policy ceiling for a single round.
	MaxWager = 10000

	// RevealCooldown is the minimum interval between reveals, rejecting
	// rapid-fire automation. Best-effort only; correctness comes from the
	// per-session hold.
	RevealCooldown = 500 * time.Millisecond
)

// MinesEngine runs the mines round state machine: start debits the wager and
// fixes the hazard layout, reveal advances or ends the round, cashout settles
// at the current multiplier. Terminal transitions always settle and evict the
// session atomically relative to other actions on the same player.
type MinesEngine struct {
	ledger      Ledger
	store       SessionStore
	broadcaster Broadcaster
}

func NewMinesEngine(ledger Ledger, store SessionStore, broadcaster Broadcaster) *MinesEngine {
	return &MinesEngine{
		ledger:      ledger,
		store:       store,
		broadcaster: broadcaster,
	}
}

// Start validates the wager and mine count, debits the wager, generates the
// board and registers the round. A zero wager is legal free play. If
// registration fails after the debit, the debit is reversed.
func (e *MinesEngine) Start(ctx context.Context, ownerID string, wager float64, mines int) (*models.MinesStartResult, error) {
	if wager < 0 || wager > MaxWager {
		return nil, fmt.Errorf("%w: bet must be in [0, %d], got %v", ErrInvalidParameter, MaxWager, wager)
	}

	board, err := NewBoard(BoardSize, mines)
	if err != nil {
		return nil, err
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

	session := &models.RoundSession{
		ID:         models.NewID(),
		OwnerID:    ownerID,
		Wager:      wager,
		Hazards:    board,
		Mines:      mines,
		Multiplier: 1.0,
		Status:     models.RoundActive,
		StartedAt:  time.Now(),
	}

	if err := e.store.Create(session); err != nil {
		// Undo the stake so a rejected start has no ledger effect.
		if wager > 0 {
			if _, crErr := e.ledger.Credit(ctx, ownerID, wager); crErr != nil {
				log.Printf("mines: failed to reverse stake %v for %s: %v", wager, ownerID, crErr)
			}
		}
		return nil, err
	}

	e.pushBalance(ownerID, balance)

	return &models.MinesStartResult{
		GameID:  session.ID,
		Grid:    session.ClientGrid(false),
		Balance: balance,
	}, nil
}

// Reveal uncovers one tile. A hazard ends the round as a loss; the last safe
// tile ends it as a win with an immediate payout; anything else leaves the
// round active with an updated multiplier.
func (e *MinesEngine) Reveal(ctx context.Context, ownerID string, tileID int) (*models.MinesRevealResult, error) {
	if err := e.store.Touch(ownerID, RevealCooldown); err != nil {
		return nil, err
	}

	session, release, err := e.store.Acquire(ownerID)
	if err != nil {
		return nil, err
	}
	defer release()

	if tileID < 0 || tileID >= len(session.Hazards) || session.IsRevealed(tileID) {
		return nil, fmt.Errorf("%w: tile %d", ErrInvalidTile, tileID)
	}

	session.Revealed = append(session.Revealed, tileID)

	if session.Hazards[tileID] {
		return e.settleLoss(ctx, session, tileID)
	}

	session.Multiplier = MinesMultiplier(len(session.Hazards), session.Mines, len(session.Revealed))

	if len(session.Revealed) == session.SafeTiles() {
		return e.settleWin(ctx, session, tileID)
	}

	balance, err := e.ledger.Balance(ctx, session.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading balance: %v", ErrInternal, err)
	}

	e.pushRound(session.OwnerID, session.ID, session.Multiplier)

	return &models.MinesRevealResult{
		GameID:     session.ID,
		TileID:     tileID,
		Multiplier: session.Multiplier,
		Grid:       session.ClientGrid(false),
		Balance:    balance,
	}, nil
}

// CashOut settles the round at the multiplier of the last successful reveal.
// With zero reveals the multiplier is 1.0, so the player gets the wager back.
func (e *MinesEngine) CashOut(ctx context.Context, ownerID string) (*models.MinesCashoutResult, error) {
	session, release, err := e.store.Acquire(ownerID)
	if err != nil {
		return nil, err
	}
	defer release()

	winnings := models.Round2(session.Wager * session.Multiplier)

	balance, err := e.ledger.Credit(ctx, session.OwnerID, winnings)
	if err != nil {
		// Credit failed: the round stays active so the player can retry.
		return nil, fmt.Errorf("%w: crediting cashout: %v", ErrInternal, err)
	}

	session.Status = models.RoundCashedOut
	e.store.Remove(session.OwnerID)

	e.writeHistory(ctx, session, models.ResultWin, winnings, 0)
	e.pushBalance(session.OwnerID, balance)

	return &models.MinesCashoutResult{
		GameID:        session.ID,
		Multiplier:    session.Multiplier,
		TilesRevealed: len(session.Revealed),
		Winnings:      winnings,
		Balance:       balance,
	}, nil
}

// SweepStale force-settles rounds idle past maxAge as cash-outs at their
// current multiplier. An abandoned round returns the stake (plus any earned
// progress) instead of silently swallowing it, and settles through the same
// audited path as a player-initiated cash-out. Returns the number settled.
func (e *MinesEngine) SweepStale(ctx context.Context, maxAge time.Duration) int {
	settled := 0
	for _, session := range e.store.SweepIdle(maxAge) {
		winnings := models.Round2(session.Wager * session.Multiplier)

		balance, err := e.ledger.Credit(ctx, session.OwnerID, winnings)
		if err != nil {
			// The session is already evicted; this needs operator attention.
			log.Printf("mines: failed to settle stale round %s for %s (%v coins): %v",
				session.ID, session.OwnerID, winnings, err)
			continue
		}

		session.Status = models.RoundCashedOut
		e.writeHistory(ctx, session, models.ResultWin, winnings, 0)
		e.pushBalance(session.OwnerID, balance)
		settled++
	}
	return settled
}

func (e *MinesEngine) settleLoss(ctx context.Context, session *models.RoundSession, tileID int) (*models.MinesRevealResult, error) {
	session.Status = models.RoundLost
	e.store.Remove(session.OwnerID)

	balance, err := e.ledger.Balance(ctx, session.OwnerID)
	if err != nil {
		log.Printf("mines: reading balance after loss for %s: %v", session.OwnerID, err)
	}

	e.writeHistory(ctx, session, models.ResultLoss, 0, session.Wager)
	e.pushBalance(session.OwnerID, balance)

	return &models.MinesRevealResult{
		GameID:     session.ID,
		IsMine:     true,
		TileID:     tileID,
		Multiplier: session.Multiplier,
		Grid:       session.ClientGrid(true),
		GameOver:   true,
		Balance:    balance,
	}, nil
}

func (e *MinesEngine) settleWin(ctx context.Context, session *models.RoundSession, tileID int) (*models.MinesRevealResult, error) {
	winnings := models.Round2(session.Wager * session.Multiplier)

	balance, err := e.ledger.Credit(ctx, session.OwnerID, winnings)
	if err != nil {
		// Keep the round active; the reveal that triggered the win has been
		// applied, so a later cashout pays the same amount.
		return nil, fmt.Errorf("%w: crediting win: %v", ErrInternal, err)
	}

	session.Status = models.RoundWon
	e.store.Remove(session.OwnerID)

	e.writeHistory(ctx, session, models.ResultWin, winnings, 0)
	e.pushBalance(session.OwnerID, balance)

	return &models.MinesRevealResult{
		GameID:     session.ID,
		TileID:     tileID,
		Multiplier: session.Multiplier,
		Grid:       session.ClientGrid(false),
		GameOver:   true,
		Win:        true,
		Winnings:   winnings,
		Balance:    balance,
	}, nil
}

// writeHistory appends the settlement record. A failure here is logged, not
// propagated: the money has already moved and audit must not roll it back.
func (e *MinesEngine) writeHistory(ctx context.Context, session *models.RoundSession, result models.GameResult, won, lost float64) {
	// Progress counts safe reveals only; on a loss the hazard tile is in
	// Revealed but never advanced the multiplier.
	safeReveals := 0
	for _, tileID := range session.Revealed {
		if !session.Hazards[tileID] {
			safeReveals++
		}
	}

	rec := &models.HistoryRecord{
		ID:        models.NewID(),
		UserID:    session.OwnerID,
		Game:      models.GameMines,
		GameName:  "Mines",
		BetAmount: session.Wager,
		Result:    result,
		CoinsWon:  won,
		CoinsLost: lost,
		GameData: map[string]any{
			"mines":         session.Mines,
			"tilesRevealed": safeReveals,
			"multiplier":    session.Multiplier,
			"status":        session.Status,
		},
		PlayedAt: time.Now(),
	}
	if err := e.ledger.AppendHistory(ctx, rec); err != nil {
		log.Printf("mines: history write failed for %s (round %s): %v", session.OwnerID, session.ID, err)
	}
}

func (e *MinesEngine) pushBalance(userID string, balance float64) {
	if e.broadcaster != nil {
		e.broadcaster.BalanceUpdate(userID, balance)
	}
}

func (e *MinesEngine) pushRound(userID, gameID string, multiplier float64) {
	if e.broadcaster != nil {
		e.broadcaster.RoundUpdate(userID, gameID, multiplier)
	}
}
