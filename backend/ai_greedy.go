package main

import (
	"github.com/rs/zerolog/log"
)

// GreedyAI looks one ply ahead: it tries every empty cell and keeps the one
// whose placement gains the most, counting own shapes at face value and
// opponent shapes times DefenseFactor.
type GreedyAI struct {
	tuning GreedyTuning
	size   int
	cells  []stone
	me     stone
}

func NewGreedyAI(tuning GreedyTuning) *GreedyAI {
	return &GreedyAI{tuning: tuning}
}

func (g *GreedyAI) IsHuman() bool {
	return false
}

func (g *GreedyAI) ChooseMove(board BoardView, color PlayerColor) Move {
	g.size = board.Size()
	g.me = stoneFromPlayer(color)
	g.cells = make([]stone, g.size*g.size)
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			g.cells[row*g.size+col] = normalizeCell(board.PieceAt(row, col))
		}
	}

	center := g.size / 2
	best := InvalidMove
	bestGain := 0
	bestDistance := 0
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			idx := row*g.size + col
			if g.cells[idx] != stoneEmpty {
				continue
			}
			before := g.contribution(row, col)
			g.cells[idx] = g.me
			gain := g.contribution(row, col) - before
			g.cells[idx] = stoneEmpty

			distance := absInt(row-center) + absInt(col-center)
			if best == InvalidMove || gain > bestGain || (gain == bestGain && distance < bestDistance) {
				best = NewMove(row, col)
				bestGain = gain
				bestDistance = distance
			}
		}
	}
	if best == InvalidMove {
		if board.PieceAt(center, center) == CellEmpty {
			best = NewMove(center, center)
		} else {
			best = firstEmptyCell(board)
		}
		log.Warn().Int("row", best.Row).Int("col", best.Col).Msg("greedy: no scored move, using fallback")
	}
	log.Debug().
		Str("color", playerColorName(color)).
		Int("gain", bestGain).
		Int("row", best.Row).
		Int("col", best.Col).
		Msg("greedy: move chosen")
	return best
}

// contribution scores every 5-cell window through (row, col) in the four
// directions from the greedy player's point of view.
func (g *GreedyAI) contribution(row, col int) int {
	opp := g.me.opponent()
	total := 0
	for _, d := range lineDirections {
		var segment [maxWindowLen]stone
		length := 0
		for k := -windowRadius; k <= windowRadius; k++ {
			r, c := row+k*d[0], col+k*d[1]
			if r < 0 || c < 0 || r >= g.size || c >= g.size {
				if length > 0 {
					break
				}
				continue
			}
			segment[length] = g.cells[r*g.size+c]
			length++
		}
		var counts [3]int
		for i := 0; i < length; i++ {
			counts[segment[i]]++
			if i >= winWindowLen {
				counts[segment[i-winWindowLen]]--
			}
			if i < winWindowLen-1 {
				continue
			}
			if counts[g.me] == 0 && counts[opp] > 0 {
				total -= g.tuning.DefenseFactor * int(shapeValues[counts[opp]])
			}
			if counts[opp] == 0 && counts[g.me] > 0 {
				total += int(shapeValues[counts[g.me]])
			}
		}
	}
	return total
}
