package main

import "fmt"

type Cell int

const (
	CellOutOfBounds Cell = iota - 1
	CellEmpty
	CellBlack
	CellWhite
)

const (
	DefaultBoardSize = 15
	winLength        = 5
)

// BoardView is the read-only surface players see.
type BoardView interface {
	Size() int
	PieceAt(row, col int) Cell
}

type Board struct {
	size  int
	cells []Cell
}

func NewBoard(boardSize int) Board {
	b := Board{}
	b.Reset(boardSize)
	return b
}

func (b *Board) Reset(boardSize int) {
	b.size = boardSize
	b.cells = make([]Cell, boardSize*boardSize)
}

// PieceAt returns CellOutOfBounds for coordinates off the board.
func (b Board) PieceAt(row, col int) Cell {
	if !b.InBounds(row, col) {
		return CellOutOfBounds
	}
	return b.cells[b.index(row, col)]
}

func (b *Board) Set(row, col int, value Cell) {
	b.cells[b.index(row, col)] = value
}

func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = CellEmpty
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b Board) IsValidMove(row, col int) bool {
	return b.InBounds(row, col) && b.cells[b.index(row, col)] == CellEmpty
}

// PlacePiece sets an empty cell and reports whether it did.
func (b *Board) PlacePiece(row, col int, value Cell) bool {
	if !b.IsValidMove(row, col) {
		return false
	}
	b.Set(row, col, value)
	return true
}

// CheckWin reports whether the stone of value at (row, col) is part of five
// or more in a row.
func (b Board) CheckWin(row, col int, value Cell) bool {
	if value != CellBlack && value != CellWhite {
		return false
	}
	for _, d := range lineDirections {
		count := 1 + b.countDirection(row, col, d[0], d[1], value) + b.countDirection(row, col, -d[0], -d[1], value)
		if count >= winLength {
			return true
		}
	}
	return false
}

func (b Board) IsFull() bool {
	return b.CountEmpty() == 0
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(row, col int) int {
	return row*b.size + col
}

var lineDirections = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (b Board) countDirection(row, col, dr, dc int, value Cell) int {
	count := 0
	for r, c := row+dr, col+dc; b.PieceAt(r, c) == value; r, c = r+dr, c+dc {
		count++
	}
	return count
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	case CellOutOfBounds:
		return "OutOfBounds"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("cell %s has no player", cell)
	}
}
