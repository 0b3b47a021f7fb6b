package games

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// HouseEdge scales fair odds down so expected payout stays below 1.
const HouseEdge = 0.99

// minesPayouts[d-1][m-1] is the payout multiplier after revealing d safe
// tiles on a 25-tile board seeded with m mines. The table is the product's
// canonical payout schedule; every valid (mines, reveals) pair on the
// standard board is covered.
var minesPayouts = [][]float64{
	// 1 diamond
	{1.03, 1.08, 1.12, 1.18, 1.24, 1.30, 1.37, 1.46, 1.55, 1.65, 1.77, 1.90, 2.06, 2.25, 2.47, 2.75, 3.09, 3.54, 4.12, 4.95, 6.19, 8.25, 12.37, 24.75},
	// 2 diamonds
	{1.08, 1.17, 1.29, 1.41, 1.56, 1.74, 1.94, 2.18, 2.47, 2.83, 3.26, 3.81, 4.50, 5.40, 6.60, 8.25, 10.61, 14.14, 19.80, 29.70, 49.50, 99, 297},
	// 3 diamonds
	{1.12, 1.29, 1.48, 1.71, 2.00, 2.35, 2.79, 3.35, 4.07, 5.00, 6.26, 7.96, 10.35, 13.80, 18.97, 27.11, 40.66, 65.06, 113.85, 227.70, 596.25, 2277},
	// 4 diamonds
	{1.18, 1.41, 1.71, 2.09, 2.58, 3.23, 4.09, 5.26, 6.88, 9.17, 12.51, 17.52, 25.30, 37.95, 59.64, 99.39, 178.91, 357.81, 834.90, 2504.70, 12523.50},
	// 5 diamonds
	{1.24, 1.56, 2.00, 2.58, 3.39, 4.52, 6.14, 8.50, 12.04, 17.52, 26.27, 40.87, 66.41, 113.85, 208.72, 417.45, 939.26, 2504.70, 8766.45, 52598.70},
	// 6 diamonds
	{1.30, 1.74, 2.35, 3.32, 4.52, 6.46, 9.44, 14.17, 21.89, 35.03, 58.38, 102.17, 189.75, 379.50, 834.90, 2087.25, 6261.75, 25047, 175329},
	// 7 diamonds
	{1.37, 1.94, 2.79, 4.09, 6.14, 9.44, 14.95, 24.47, 41.60, 73.95, 138.66, 277.33, 600.87, 1442.10, 3965.77, 13219.25, 59486.62, 475893},
	// 8 diamonds
	{1.46, 2.18, 3.35, 5.26, 8.50, 14.17, 24.47, 44.05, 83.20, 166.40, 356.56, 831.98, 2163.15, 6489.45, 23794.65, 118973.25, 1070759.25},
	// 9 diamonds
	{1.55, 2.47, 4.07, 6.88, 12.04, 21.89, 41.60, 83.20, 176.80, 404.10, 1010.26, 2828.73, 9193.39, 36773.55, 202254.52, 2022545.25},
	// 10 diamonds
	{1.65, 2.83, 5.00, 9.17, 17.52, 35.03, 73.95, 166.50, 404.10, 1077.61, 3232.84, 11314.94, 49301.40, 294188.40, 3236072.40},
	// 11 diamonds
	{1.77, 3.26, 6.26, 15.21, 26.27, 58.38, 138.66, 356.56, 1010.26, 3232.84, 12123.15, 56574.69, 367735.50, 4412826},
	// 12 diamonds
	{1.90, 3.81, 7.96, 17.52, 40.87, 102.17, 277.33, 831.98, 2828.73, 11314.94, 56574.69, 396022.85, 5148297},
	// 13 diamonds
	{2.06, 4.50, 10.35, 25.30, 66.41, 189.75, 600.87, 2163.15, 9139.39, 49031.40, 367735.50, 5148297},
	// 14 diamonds
	{2.25, 5.40, 13.80, 37.95, 113.85, 379.50, 1442.10, 6489.45, 36773.55, 294188.40, 4412826},
	// 15 diamonds
	{2.47, 6.60, 18.97, 59.64, 208.72, 834.90, 3965.77, 23794.65, 202254.52, 3236072.40},
	// 16 diamonds
	{2.75, 8.25, 27.11, 99.39, 417.45, 2087.25, 13219.25, 118973.25, 2022545.25},
	// 17 diamonds
	{3.09, 10.61, 40.66, 178.91, 939.26, 6261.75, 59486.62, 1070759.25},
	// 18 diamonds
	{3.54, 14.14, 65.06, 357.81, 2504.70, 25047, 475893},
	// 19 diamonds
	{4.12, 19.80, 113.85, 834.90, 8766.45, 175329},
	// 20 diamonds
	{4.95, 29.70, 227.70, 2504.70, 52598.70},
	// 21 diamonds
	{6.19, 49.50, 596.25, 12523.50},
	// 22 diamonds
	{8.25, 99, 2277},
	// 23 diamonds
	{12.38, 297},
	// 24 diamonds
	{24.75},
}

// MinesMultiplier returns the payout multiplier for a round with the given
// mine count after revealed safe tiles. Zero reveals always pay 1.0. Pairs
// outside the precomputed table fall back to the analytic hypergeometric
// odds; a constant fallback would silently underpay.
func MinesMultiplier(boardSize, mines, revealed int) float64 {
	if revealed <= 0 {
		return 1.0
	}
	if boardSize == BoardSize && revealed <= len(minesPayouts) {
		row := minesPayouts[revealed-1]
		if mines >= 1 && mines <= len(row) {
			return row[mines-1]
		}
	}
	return FairMinesMultiplier(boardSize, mines, revealed) * HouseEdge
}

// FairMinesMultiplier is the zero-edge multiplier: the inverse of the
// hypergeometric probability of drawing revealed safe tiles in a row,
// C(boardSize, revealed) / C(boardSize-mines, revealed). Computed in log
// space so deep rounds on large boards don't overflow.
func FairMinesMultiplier(boardSize, mines, revealed int) float64 {
	safe := boardSize - mines
	if revealed <= 0 || revealed > safe {
		return 1.0
	}
	logOdds := combin.LogGeneralizedBinomial(float64(boardSize), float64(revealed)) -
		combin.LogGeneralizedBinomial(float64(safe), float64(revealed))
	return math.Exp(logOdds)
}

// DiceWinProbability is the theoretical chance of winning a roll against
// target in the chosen direction, on a [0,100) roll.
func DiceWinProbability(target int, over bool) float64 {
	if over {
		return float64(100-target) / 100
	}
	return float64(target) / 100
}

// DiceMultiplier derives the payout multiplier from the win probability,
// scaled by the house edge.
func DiceMultiplier(target int, over bool) float64 {
	p := DiceWinProbability(target, over)
	if p <= 0 {
		return 1.0
	}
	return HouseEdge / p
}
