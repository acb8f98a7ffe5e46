package main

import (
	"sort"

	"golang.org/x/exp/constraints"
)

const (
	searchInf     = 1_000_000_000
	winThreshold  = 1_000_000
	occupiedScore = -1_000_000_000
)

type searchParams struct {
	Depth  int `json:"depth"`
	Branch int `json:"branch"`
}

type rankedMove struct {
	index    int
	score    int
	distance int
}

// searchContext owns the evaluator for the duration of one search. Every
// simulated placement goes through descend, which restores the cell on
// return, so the evaluator is back to the root position whenever control
// leaves a frame.
type searchContext struct {
	eval    *lineEvaluator
	root    stone
	params  searchParams
	best    Move
	nodes   int
	scratch [][]rankedMove
}

func newSearchContext(eval *lineEvaluator, root stone, params searchParams) *searchContext {
	return &searchContext{
		eval:   eval,
		root:   root,
		params: params,
		best:   InvalidMove,
	}
}

func (c *searchContext) run() int {
	return c.alphaBeta(0, -searchInf, searchInf, c.root)
}

func (c *searchContext) boardScore() int {
	return c.eval.scoreFor(c.root)
}

func (c *searchContext) alphaBeta(depth, alpha, beta int, mover stone) int {
	c.nodes++
	if score := c.boardScore(); depth == c.params.Depth || absInt(score) >= winThreshold {
		return score
	}
	size := c.eval.size
	moves := c.rankMoves(depth, mover)
	maximizing := mover == c.root
	value := beta
	if maximizing {
		value = alpha
	}
	explored := 0
	for i := 0; i < len(moves) && i < c.params.Branch; i++ {
		row, col := moves[i].index/size, moves[i].index%size
		if c.eval.at(row, col) != stoneEmpty {
			continue
		}
		score := c.descend(depth, row, col, alpha, beta, mover)
		explored++
		if maximizing {
			if depth == 0 && (score > value || !c.bestUsable()) {
				c.best = NewMove(row, col)
			}
			value = max(value, score)
			alpha = max(alpha, value)
		} else {
			value = min(value, score)
			beta = min(beta, value)
		}
		if alpha >= beta {
			break
		}
	}
	if explored == 0 {
		return c.boardScore()
	}
	return value
}

func (c *searchContext) descend(depth, row, col, alpha, beta int, mover stone) int {
	c.eval.applyCell(row, col, mover)
	defer c.eval.applyCell(row, col, stoneEmpty)
	return c.alphaBeta(depth+1, alpha, beta, mover.opponent())
}

func (c *searchContext) bestUsable() bool {
	if !c.eval.inBounds(c.best.Row, c.best.Col) {
		return false
	}
	return c.eval.at(c.best.Row, c.best.Col) == stoneEmpty
}

// rankMoves scores every cell for mover with a one-ply lookahead and sorts
// them best first. Ties go to the cell closer to the center, then to the
// earlier cell in row-major order.
func (c *searchContext) rankMoves(depth int, mover stone) []rankedMove {
	moves := c.buffer(depth)
	size := c.eval.size
	center := size / 2
	for idx := range moves {
		row, col := idx/size, idx%size
		score := occupiedScore
		if c.eval.cells[idx] == stoneEmpty {
			c.eval.applyCell(row, col, mover)
			score = c.eval.scoreFor(mover)
			c.eval.applyCell(row, col, stoneEmpty)
		}
		moves[idx] = rankedMove{
			index:    idx,
			score:    score,
			distance: absInt(row-center) + absInt(col-center),
		}
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].score != moves[j].score {
			return moves[i].score > moves[j].score
		}
		if moves[i].distance != moves[j].distance {
			return moves[i].distance < moves[j].distance
		}
		return moves[i].index < moves[j].index
	})
	return moves
}

func (c *searchContext) buffer(depth int) []rankedMove {
	for len(c.scratch) <= depth {
		c.scratch = append(c.scratch, nil)
	}
	cells := c.eval.size * c.eval.size
	if len(c.scratch[depth]) != cells {
		c.scratch[depth] = make([]rankedMove, cells)
	}
	return c.scratch[depth]
}

func absInt[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
