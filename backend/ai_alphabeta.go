package main

import (
	"time"

	"github.com/rs/zerolog/log"
)

// SearchReport describes how the last move was chosen.
type SearchReport struct {
	Color    PlayerColor   `json:"color"`
	Stones   int           `json:"stones"`
	Params   searchParams  `json:"params"`
	Opening  bool          `json:"opening"`
	Searched bool          `json:"searched"`
	Score    int           `json:"score"`
	Nodes    int           `json:"nodes"`
	Fallback bool          `json:"fallback"`
	Move     Move          `json:"move"`
	Elapsed  time.Duration `json:"elapsed"`
}

// AlphaBetaAI picks moves with a fixed-depth alpha-beta search over an
// incrementally evaluated mirror of the board. An instance is not safe for
// concurrent use; AIPlayer serialises calls to it.
type AlphaBetaAI struct {
	tuning   EngineTuning
	tables   *scoreTables
	eval     *lineEvaluator
	snapshot []stone
	last     SearchReport
}

func NewAlphaBetaAI(tuning EngineTuning) *AlphaBetaAI {
	tables := engineTables()
	return &AlphaBetaAI{
		tuning: tuning,
		tables: tables,
		eval:   newLineEvaluator(tables, DefaultBoardSize),
	}
}

func (a *AlphaBetaAI) IsHuman() bool {
	return false
}

func (a *AlphaBetaAI) LastReport() SearchReport {
	return a.last
}

func (a *AlphaBetaAI) ChooseMove(board BoardView, color PlayerColor) Move {
	start := time.Now()
	report := SearchReport{Color: color, Move: InvalidMove}
	size := board.Size()
	best := InvalidMove
	if size > 0 && size <= maxEngineSize {
		me := stoneFromPlayer(color)
		report.Stones = a.readBoard(board)
		switch {
		case report.Stones == 0:
			report.Opening = true
			report.Params = searchParams{Depth: a.tuning.OpeningDepth, Branch: a.tuning.OpeningBranch}
			best = NewMove(size/2, size/2)
		default:
			a.mirror(size)
			report.Params = a.paramsFor(me, report.Stones)
			ctx := newSearchContext(a.eval, me, report.Params)
			report.Score = ctx.run()
			report.Nodes = ctx.nodes
			report.Searched = true
			best = ctx.best
		}
	} else {
		log.Warn().Int("size", size).Msg("alphabeta: board size outside engine range")
	}

	move, ok := a.validate(board, best)
	if !ok {
		report.Fallback = true
		move = firstEmptyCell(board)
		log.Warn().
			Int("row", best.Row).
			Int("col", best.Col).
			Int("fallback_row", move.Row).
			Int("fallback_col", move.Col).
			Msg("alphabeta: search produced no usable cell")
	}
	if report.Searched && move.IsValid(size) {
		move.Depth = report.Params.Depth
	}
	report.Move = move
	report.Elapsed = time.Since(start)
	a.last = report
	log.Debug().
		Str("color", playerColorName(color)).
		Int("stones", report.Stones).
		Int("depth", report.Params.Depth).
		Int("branch", report.Params.Branch).
		Bool("opening", report.Opening).
		Int("score", report.Score).
		Int("nodes", report.Nodes).
		Int("row", move.Row).
		Int("col", move.Col).
		Dur("elapsed", report.Elapsed).
		Msg("alphabeta: move chosen")
	return move
}

// readBoard normalises every cell of board into the snapshot and returns the
// number of stones.
func (a *AlphaBetaAI) readBoard(board BoardView) int {
	size := board.Size()
	if cap(a.snapshot) < size*size {
		a.snapshot = make([]stone, size*size)
	}
	a.snapshot = a.snapshot[:size*size]
	stones := 0
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			s := normalizeCell(board.PieceAt(row, col))
			a.snapshot[row*size+col] = s
			if s != stoneEmpty {
				stones++
			}
		}
	}
	return stones
}

// mirror rebuilds the evaluator from the snapshot: totals and lines are
// cleared and every stone applied once.
func (a *AlphaBetaAI) mirror(size int) {
	if a.eval.size != size {
		a.eval.resize(size)
	} else {
		a.eval.reset()
	}
	for idx, s := range a.snapshot {
		if s != stoneEmpty {
			a.eval.applyCell(idx/size, idx%size, s)
		}
	}
}

func (a *AlphaBetaAI) paramsFor(me stone, stones int) searchParams {
	params := searchParams{Depth: a.tuning.Depth, Branch: a.tuning.BlackBranch}
	if me == stoneWhite {
		params.Branch = a.tuning.WhiteBranch
	}
	if stones == 1 {
		params.Branch = a.tuning.FirstReplyBranch
	}
	return params
}

func (a *AlphaBetaAI) validate(board BoardView, move Move) (Move, bool) {
	if !move.IsValid(board.Size()) {
		return InvalidMove, false
	}
	if normalizeCell(board.PieceAt(move.Row, move.Col)) != stoneEmpty {
		return InvalidMove, false
	}
	return move, true
}

// firstEmptyCell scans row-major and returns InvalidMove on a full board.
// Cells are read through normalizeCell, like the search does.
func firstEmptyCell(board BoardView) Move {
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if normalizeCell(board.PieceAt(row, col)) == stoneEmpty {
				return NewMove(row, col)
			}
		}
	}
	return InvalidMove
}

// normalizeCell maps board cells into the engine convention. Anything it
// does not recognise is logged and treated as empty.
func normalizeCell(cell Cell) stone {
	switch cell {
	case CellEmpty:
		return stoneEmpty
	case CellBlack:
		return stoneBlack
	case CellWhite:
		return stoneWhite
	default:
		log.Warn().Int("cell", int(cell)).Msg("alphabeta: unrecognized piece value treated as empty")
		return stoneEmpty
	}
}

func stoneFromPlayer(color PlayerColor) stone {
	switch color {
	case PlayerBlack:
		return stoneBlack
	case PlayerWhite:
		return stoneWhite
	default:
		log.Warn().Int("color", int(color)).Msg("alphabeta: unrecognized color, playing black")
		return stoneBlack
	}
}

func playerColorName(p PlayerColor) string {
	if p == PlayerWhite {
		return "white"
	}
	return "black"
}
