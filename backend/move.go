package main

type Move struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Depth int `json:"depth,omitempty"`
}

// InvalidMove is returned when no empty cell is left.
var InvalidMove = Move{Row: -1, Col: -1}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) IsValid(boardSize int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < boardSize && m.Col < boardSize
}

func (m Move) Equals(other Move) bool {
	return m.Row == other.Row && m.Col == other.Col
}
