package main

// IPlayer is implemented by humans and by every AI. ChooseMove must return
// an empty cell of board, or InvalidMove when there is none.
type IPlayer interface {
	IsHuman() bool
	ChooseMove(board BoardView, color PlayerColor) Move
}
