package main

import (
	"math/rand"
	"testing"
)

func evaluatorState(e *lineEvaluator) ([lineFamilies][]int, [2]int, []stone) {
	var lines [lineFamilies][]int
	for f := range e.lines {
		lines[f] = append([]int(nil), e.lines[f]...)
	}
	return lines, e.totals, append([]stone(nil), e.cells...)
}

func sameLines(a, b [lineFamilies][]int) bool {
	for f := range a {
		if len(a[f]) != len(b[f]) {
			return false
		}
		for i := range a[f] {
			if a[f][i] != b[f][i] {
				return false
			}
		}
	}
	return true
}

func TestIncrementalTotalsMatchRescan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, size := range []int{5, 9, DefaultBoardSize, maxEngineSize} {
		e := newLineEvaluator(engineTables(), size)
		for step := 0; step < 400; step++ {
			row, col := rng.Intn(size), rng.Intn(size)
			e.applyCell(row, col, stone(rng.Intn(3)))
			if got, want := e.totals, e.rescanTotals(); got != want {
				t.Fatalf("size %d step %d: incremental %v, rescan %v", size, step, got, want)
			}
		}
	}
}

func TestLinesMatchCells(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	size := DefaultBoardSize
	e := newLineEvaluator(engineTables(), size)
	for step := 0; step < 300; step++ {
		e.applyCell(rng.Intn(size), rng.Intn(size), stone(rng.Intn(3)))
	}
	pow3 := engineTables().pow3
	var want [lineFamilies][]int
	for f := range want {
		want[f] = make([]int, 2*size-1)
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			v := int(e.at(row, col))
			want[familyRow][row] += v * pow3[col]
			want[familyColumn][col] += v * pow3[row]
			want[familyDiagonal][row+col] += v * pow3[row]
			want[familyAntiDiagonal][row-col+size-1] += v * pow3[row]
		}
	}
	if !sameLines(e.lines, want) {
		t.Fatalf("packed lines drifted from the cell mirror")
	}
}

func TestApplyThenRollbackRestoresState(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	size := DefaultBoardSize
	e := newLineEvaluator(engineTables(), size)
	for i := 0; i < 60; i++ {
		e.applyCell(rng.Intn(size), rng.Intn(size), stone(1+rng.Intn(2)))
	}
	lines, totals, cells := evaluatorState(e)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if e.at(row, col) != stoneEmpty {
				continue
			}
			for _, s := range []stone{stoneBlack, stoneWhite} {
				e.applyCell(row, col, s)
				e.applyCell(row, col, stoneEmpty)
				gotLines, gotTotals, gotCells := evaluatorState(e)
				if !sameLines(gotLines, lines) || gotTotals != totals {
					t.Fatalf("(%d,%d) value %d not rolled back", row, col, s)
				}
				for i := range cells {
					if cells[i] != gotCells[i] {
						t.Fatalf("(%d,%d) cell mirror not rolled back", row, col)
					}
				}
			}
		}
	}
}

func TestOutOfBoundsApplyIsIgnored(t *testing.T) {
	e := newLineEvaluator(engineTables(), DefaultBoardSize)
	e.applyCell(-1, 3, stoneBlack)
	e.applyCell(3, DefaultBoardSize, stoneWhite)
	if e.totals != ([2]int{}) {
		t.Fatalf("expected untouched totals, got %v", e.totals)
	}
}

func hasFive(e *lineEvaluator, s stone) bool {
	for row := 0; row < e.size; row++ {
		for col := 0; col < e.size; col++ {
			for _, d := range lineDirections {
				run := 0
				for k := 0; k < winWindowLen; k++ {
					r, c := row+k*d[0], col+k*d[1]
					if !e.inBounds(r, c) || e.at(r, c) != s {
						break
					}
					run++
				}
				if run == winWindowLen {
					return true
				}
			}
		}
	}
	return false
}

func TestWinThresholdMeansFiveOnBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	size := DefaultBoardSize
	for trial := 0; trial < 200; trial++ {
		e := newLineEvaluator(engineTables(), size)
		stones := 20 + rng.Intn(120)
		for i := 0; i < stones; i++ {
			e.applyCell(rng.Intn(size), rng.Intn(size), stone(1+rng.Intn(2)))
		}
		blackFive, whiteFive := hasFive(e, stoneBlack), hasFive(e, stoneWhite)
		if blackFive && whiteFive {
			// both sides scoring fives can cancel out
			continue
		}
		five := blackFive || whiteFive
		for _, s := range []stone{stoneBlack, stoneWhite} {
			score := e.scoreFor(s)
			if (absInt(score) >= winThreshold) != five {
				t.Fatalf("trial %d: score %d for %d, five on board=%v", trial, score, s, five)
			}
		}
	}
}

func TestScoreForWeighsDefense(t *testing.T) {
	e := newLineEvaluator(engineTables(), DefaultBoardSize)
	e.applyCell(7, 7, stoneBlack)
	black := e.total(stoneBlack)
	if black != 20 {
		t.Fatalf("center stone should sit in 20 windows, got %d", black)
	}
	if got := e.scoreFor(stoneWhite); got != -defensePenalty*black {
		t.Fatalf("white score %d, want %d", got, -defensePenalty*black)
	}
	if got := e.scoreFor(stoneBlack); got != black {
		t.Fatalf("black score %d, want %d", got, black)
	}
}
