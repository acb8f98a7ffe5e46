package main

import "fmt"

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) IsLegal(state GameState, move Move) (bool, string) {
	if !move.IsValid(state.Board.Size()) {
		return false, "out of bounds"
	}
	if !state.Board.IsValidMove(move.Row, move.Col) {
		return false, "occupied"
	}
	return true, ""
}

func (r Rules) IsWin(board Board, lastMove Move) bool {
	if !lastMove.IsValid(board.Size()) {
		return false
	}
	return board.CheckWin(lastMove.Row, lastMove.Col, board.PieceAt(lastMove.Row, lastMove.Col))
}

func (r Rules) IsDraw(board Board) bool {
	return board.IsFull()
}

// FindAlignmentLine returns the run of stones through lastMove that is at
// least five long.
func (r Rules) FindAlignmentLine(board Board, lastMove Move) ([]Move, bool) {
	if !lastMove.IsValid(board.Size()) {
		return nil, false
	}
	target := board.PieceAt(lastMove.Row, lastMove.Col)
	if target != CellBlack && target != CellWhite {
		return nil, false
	}
	for _, d := range lineDirections {
		line := r.collectLine(board, lastMove, d[0], d[1], target)
		if len(line) >= winLength {
			return line, true
		}
	}
	return nil, false
}

func (r Rules) collectLine(board Board, start Move, dr, dc int, target Cell) []Move {
	row, col := start.Row, start.Col
	for board.PieceAt(row-dr, col-dc) == target {
		row -= dr
		col -= dc
	}
	line := []Move{}
	for board.PieceAt(row, col) == target {
		line = append(line, NewMove(row, col))
		row += dr
		col += dc
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{size=%d, win=%d}", r.settings.BoardSize, winLength)
}
