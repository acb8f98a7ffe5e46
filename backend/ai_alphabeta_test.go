package main

import "testing"

func testTuning(depth int) EngineTuning {
	tuning := DefaultConfig().Engine
	tuning.Depth = depth
	return tuning
}

func boardWith(size int, black, white []Move) Board {
	board := NewBoard(size)
	for _, m := range black {
		board.Set(m.Row, m.Col, CellBlack)
	}
	for _, m := range white {
		board.Set(m.Row, m.Col, CellWhite)
	}
	return board
}

type strangeBoard struct {
	Board
	odd Move
}

func (b strangeBoard) PieceAt(row, col int) Cell {
	if row == b.odd.Row && col == b.odd.Col {
		return Cell(7)
	}
	return b.Board.PieceAt(row, col)
}

func TestOpeningPlaysCenterWithoutSearch(t *testing.T) {
	for _, color := range []PlayerColor{PlayerBlack, PlayerWhite} {
		ai := NewAlphaBetaAI(testTuning(5))
		move := ai.ChooseMove(NewBoard(DefaultBoardSize), color)
		if move.Row != 7 || move.Col != 7 {
			t.Fatalf("%s: expected center, got %v", playerColorName(color), move)
		}
		report := ai.LastReport()
		if !report.Opening || report.Searched || report.Nodes != 0 {
			t.Fatalf("%s: expected an unsearched opening, got %+v", playerColorName(color), report)
		}
		if report.Params != (searchParams{Depth: 6, Branch: 13}) {
			t.Fatalf("expected opening tuning (6, 13), got %+v", report.Params)
		}
	}
}

func TestFirstReplyUsesReducedBranch(t *testing.T) {
	ai := NewAlphaBetaAI(testTuning(1))
	board := boardWith(DefaultBoardSize, []Move{NewMove(7, 7)}, nil)
	move := ai.ChooseMove(board, PlayerWhite)
	if !board.IsValidMove(move.Row, move.Col) {
		t.Fatalf("expected an empty cell, got %v", move)
	}
	if got := ai.LastReport().Params; got.Branch != 17 || got.Depth != 1 {
		t.Fatalf("expected first reply params (1, 17), got %+v", got)
	}
	if move.Depth != 1 {
		t.Fatalf("expected searched move to carry its depth, got %d", move.Depth)
	}
}

func TestBranchFactorPerColor(t *testing.T) {
	black := []Move{NewMove(7, 7), NewMove(8, 8)}
	white := []Move{NewMove(7, 8), NewMove(6, 6)}
	board := boardWith(DefaultBoardSize, black, white)

	ai := NewAlphaBetaAI(testTuning(1))
	ai.ChooseMove(board, PlayerBlack)
	if got := ai.LastReport().Params.Branch; got != 25 {
		t.Fatalf("black branch = %d, want 25", got)
	}
	ai.ChooseMove(board, PlayerWhite)
	if got := ai.LastReport().Params.Branch; got != 30 {
		t.Fatalf("white branch = %d, want 30", got)
	}
}

func TestCompletesOwnFour(t *testing.T) {
	black := []Move{NewMove(7, 3), NewMove(7, 4), NewMove(7, 5), NewMove(7, 6)}
	white := []Move{NewMove(0, 0), NewMove(0, 2), NewMove(14, 14), NewMove(3, 10)}
	ai := NewAlphaBetaAI(testTuning(1))
	move := ai.ChooseMove(boardWith(DefaultBoardSize, black, white), PlayerBlack)
	if !move.Equals(NewMove(7, 2)) && !move.Equals(NewMove(7, 7)) {
		t.Fatalf("expected a winning move, got %v", move)
	}
}

// The block already ranks first at one ply, so this pins the evaluator's
// defensive weight more than the search.
func TestBlocksOpponentFour(t *testing.T) {
	black := []Move{NewMove(7, 2), NewMove(0, 0), NewMove(14, 0), NewMove(0, 14)}
	white := []Move{NewMove(7, 3), NewMove(7, 4), NewMove(7, 5), NewMove(7, 6)}
	ai := NewAlphaBetaAI(testTuning(2))
	move := ai.ChooseMove(boardWith(DefaultBoardSize, black, white), PlayerBlack)
	if !move.Equals(NewMove(7, 7)) {
		t.Fatalf("expected block at (7,7), got %v", move)
	}
}

func TestFullBoardReturnsInvalidMove(t *testing.T) {
	board := NewBoard(5)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			cell := CellBlack
			if (col/2+row)%2 == 1 {
				cell = CellWhite
			}
			board.Set(row, col, cell)
		}
	}
	ai := NewAlphaBetaAI(testTuning(2))
	move := ai.ChooseMove(board, PlayerBlack)
	if move != InvalidMove {
		t.Fatalf("expected invalid sentinel, got %v", move)
	}
	if !ai.LastReport().Fallback {
		t.Fatalf("expected the fallback path to be reported")
	}
}

func TestLastEmptyCellIsPlayed(t *testing.T) {
	board := NewBoard(5)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			cell := CellBlack
			if (col/2+row)%2 == 1 {
				cell = CellWhite
			}
			board.Set(row, col, cell)
		}
	}
	board.Remove(3, 1)
	ai := NewAlphaBetaAI(testTuning(2))
	if move := ai.ChooseMove(board, PlayerWhite); !move.Equals(NewMove(3, 1)) {
		t.Fatalf("expected the only empty cell, got %v", move)
	}
}

func TestUnknownCellIsTreatedAsEmpty(t *testing.T) {
	board := strangeBoard{Board: NewBoard(DefaultBoardSize), odd: NewMove(3, 3)}
	ai := NewAlphaBetaAI(testTuning(1))
	move := ai.ChooseMove(board, PlayerBlack)
	if !move.Equals(NewMove(7, 7)) || ai.LastReport().Stones != 0 {
		t.Fatalf("expected the odd cell to count as empty, got %v stones=%d", move, ai.LastReport().Stones)
	}
}

func TestFirstEmptyCellReadsUnknownAsEmpty(t *testing.T) {
	full := NewBoard(5)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			full.Set(row, col, CellBlack)
		}
	}
	board := strangeBoard{Board: full, odd: NewMove(2, 4)}
	if move := firstEmptyCell(board); !move.Equals(NewMove(2, 4)) {
		t.Fatalf("expected the unknown cell to be picked, got %v", move)
	}
	if move := firstEmptyCell(full); move != InvalidMove {
		t.Fatalf("expected invalid sentinel on a full board, got %v", move)
	}
}

func TestSearchLeavesMirrorAtRoot(t *testing.T) {
	black := []Move{NewMove(7, 7), NewMove(8, 8), NewMove(6, 9)}
	white := []Move{NewMove(7, 8), NewMove(6, 6), NewMove(9, 9)}
	board := boardWith(DefaultBoardSize, black, white)
	ai := NewAlphaBetaAI(testTuning(2))
	first := ai.ChooseMove(board, PlayerBlack)

	for idx, s := range ai.snapshot {
		if ai.eval.cells[idx] != s {
			t.Fatalf("mirror cell %d differs from the board after search", idx)
		}
	}
	if ai.eval.totals != ai.eval.rescanTotals() {
		t.Fatalf("totals drifted during search")
	}
	if again := NewAlphaBetaAI(testTuning(2)).ChooseMove(board, PlayerBlack); again != first {
		t.Fatalf("search is not deterministic: %v then %v", first, again)
	}
	if board.PieceAt(first.Row, first.Col) != CellEmpty {
		t.Fatalf("engine chose an occupied cell %v", first)
	}
}

func TestEngineFollowsBoardSize(t *testing.T) {
	ai := NewAlphaBetaAI(testTuning(1))
	ai.ChooseMove(boardWith(DefaultBoardSize, []Move{NewMove(1, 1)}, []Move{NewMove(2, 2)}), PlayerBlack)
	move := ai.ChooseMove(boardWith(9, []Move{NewMove(4, 4)}, []Move{NewMove(4, 5)}), PlayerBlack)
	if !move.IsValid(9) {
		t.Fatalf("expected a move on the 9x9 board, got %v", move)
	}
	if ai.eval.size != 9 {
		t.Fatalf("expected evaluator resized to 9, got %d", ai.eval.size)
	}
}
