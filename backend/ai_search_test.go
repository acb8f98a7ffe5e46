package main

import (
	"math/rand"
	"testing"
)

// minimaxReference is a plain full-width minimax over every empty cell with
// the same cutoffs as the alpha-beta search.
func minimaxReference(e *lineEvaluator, root stone, depth, limit int, mover stone) int {
	score := e.scoreFor(root)
	if depth == limit || absInt(score) >= winThreshold {
		return score
	}
	best, explored := 0, false
	for idx, cell := range e.cells {
		if cell != stoneEmpty {
			continue
		}
		row, col := idx/e.size, idx%e.size
		e.applyCell(row, col, mover)
		value := minimaxReference(e, root, depth+1, limit, mover.opponent())
		e.applyCell(row, col, stoneEmpty)
		if !explored || (mover == root && value > best) || (mover != root && value < best) {
			best = value
		}
		explored = true
	}
	if !explored {
		return score
	}
	return best
}

func randomSmallPosition(rng *rand.Rand, size, stones int) *lineEvaluator {
	e := newLineEvaluator(engineTables(), size)
	color := stoneBlack
	for placed := 0; placed < stones; {
		row, col := rng.Intn(size), rng.Intn(size)
		if e.at(row, col) != stoneEmpty {
			continue
		}
		e.applyCell(row, col, color)
		color = color.opponent()
		placed++
	}
	return e
}

func TestAlphaBetaMatchesMinimaxOnSmallBoards(t *testing.T) {
	const size, depth = 5, 2
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 40; trial++ {
		e := randomSmallPosition(rng, size, 2+rng.Intn(8))
		if absInt(e.scoreFor(stoneBlack)) >= winThreshold {
			continue
		}
		root := stone(1 + rng.Intn(2))
		_, totals, cells := evaluatorState(e)

		ctx := newSearchContext(e, root, searchParams{Depth: depth, Branch: size * size})
		got := ctx.run()

		ranked := append([]rankedMove(nil), newSearchContext(e, root, ctx.params).rankMoves(0, root)...)
		want := minimaxReference(e, root, 0, depth, root)
		if got != want {
			t.Fatalf("trial %d: alpha-beta %d, minimax %d", trial, got, want)
		}

		wantMove, bestValue := InvalidMove, 0
		for _, m := range ranked {
			row, col := m.index/size, m.index%size
			if e.at(row, col) != stoneEmpty {
				continue
			}
			e.applyCell(row, col, root)
			value := minimaxReference(e, root, 1, depth, root.opponent())
			e.applyCell(row, col, stoneEmpty)
			if wantMove == InvalidMove || value > bestValue {
				wantMove, bestValue = NewMove(row, col), value
			}
		}
		if ctx.best != wantMove {
			t.Fatalf("trial %d: alpha-beta chose %v, minimax %v (value %d)", trial, ctx.best, wantMove, bestValue)
		}

		_, afterTotals, afterCells := evaluatorState(e)
		if afterTotals != totals {
			t.Fatalf("trial %d: totals changed by the search", trial)
		}
		for i := range cells {
			if cells[i] != afterCells[i] {
				t.Fatalf("trial %d: cell %d changed by the search", trial, i)
			}
		}
	}
}

func TestRankMovesOrdering(t *testing.T) {
	const size = 7
	e := newLineEvaluator(engineTables(), size)
	e.applyCell(0, 0, stoneWhite)
	ctx := newSearchContext(e, stoneBlack, searchParams{Depth: 1, Branch: 5})
	moves := ctx.rankMoves(0, stoneBlack)
	if len(moves) != size*size {
		t.Fatalf("expected every cell ranked, got %d", len(moves))
	}
	last := moves[len(moves)-1]
	if last.index != 0 || last.score != occupiedScore {
		t.Fatalf("occupied cell should rank last, got %+v", last)
	}
	if moves[0].index != 3*size+3 {
		t.Fatalf("expected the center first on a quiet board, got index %d", moves[0].index)
	}
	for i := 1; i < len(moves); i++ {
		a, b := moves[i-1], moves[i]
		if a.score < b.score || (a.score == b.score && a.distance > b.distance) ||
			(a.score == b.score && a.distance == b.distance && a.index > b.index) {
			t.Fatalf("moves %d and %d out of order: %+v %+v", i-1, i, a, b)
		}
	}
}

func TestSearchWithoutCandidatesReturnsBoardScore(t *testing.T) {
	const size = 5
	e := newLineEvaluator(engineTables(), size)
	// alternating pairs keep a full 5x5 board free of fives
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			s := stoneBlack
			if (col/2+row)%2 == 1 {
				s = stoneWhite
			}
			e.applyCell(row, col, s)
		}
	}
	ctx := newSearchContext(e, stoneBlack, searchParams{Depth: 3, Branch: 10})
	score := ctx.run()
	if score != e.scoreFor(stoneBlack) {
		t.Fatalf("expected static score %d, got %d", e.scoreFor(stoneBlack), score)
	}
	if ctx.best != InvalidMove {
		t.Fatalf("expected no best move on a full board, got %v", ctx.best)
	}
}

func TestAbsInt(t *testing.T) {
	if absInt(-3) != 3 || absInt(4) != 4 || absInt(int64(-9)) != 9 {
		t.Fatalf("absInt mismatch")
	}
}
