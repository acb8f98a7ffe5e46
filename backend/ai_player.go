package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// AIPlayer runs an engine on a worker goroutine so the game loop never blocks
// on a search. Only one computation runs at a time, so the engine itself is
// never entered concurrently.
type AIPlayer struct {
	kind       PlayerType
	engine     IPlayer
	engineMu   sync.Mutex
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	discard    atomic.Bool
	readyMove  Move
	readyFor   int
}

func NewAIPlayer(kind PlayerType, cfg Config) *AIPlayer {
	var engine IPlayer
	switch kind {
	case PlayerGreedy:
		engine = NewGreedyAI(cfg.Greedy)
	default:
		kind = PlayerAlphaBeta
		engine = NewAlphaBetaAI(cfg.Engine)
	}
	return &AIPlayer{kind: kind, engine: engine}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Kind() PlayerType {
	return a.kind
}

// ChooseMove runs the engine synchronously on the caller's goroutine.
func (a *AIPlayer) ChooseMove(board BoardView, color PlayerColor) Move {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.ChooseMove(board, color)
}

// StartThinking searches a private copy of board in the background. tag is
// echoed back by ReadyTag so callers can tell which position a move answers.
func (a *AIPlayer) StartThinking(board Board, color PlayerColor, tag int) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.discard.Store(false)

	boardCopy := board.Clone()
	done := make(chan struct{})
	a.workerDone = done
	logStats := GetConfig().LogSearchStats
	go func() {
		defer close(done)
		start := time.Now()
		move := a.ChooseMove(boardCopy, color)
		if logStats {
			a.logStats(color, move, time.Since(start))
		}
		if a.discard.Load() {
			a.thinking.Store(false)
			return
		}
		a.moveMutex.Lock()
		a.readyMove = move
		a.readyFor = tag
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) ReadyTag() int {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	return a.readyFor
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

// StopThinking drops the result of any computation in flight. The search
// itself cannot be interrupted and finishes in the background.
func (a *AIPlayer) StopThinking() {
	a.discard.Store(true)
	a.moveReady.Store(false)
}

// Wait blocks until the worker, if any, has returned.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func (a *AIPlayer) logStats(color PlayerColor, move Move, elapsed time.Duration) {
	event := log.Info().
		Str("engine", a.kind.String()).
		Str("color", playerColorName(color)).
		Int("row", move.Row).
		Int("col", move.Col).
		Int64("elapsed_ms", elapsed.Milliseconds())
	if ab, ok := a.engine.(*AlphaBetaAI); ok {
		a.engineMu.Lock()
		report := ab.LastReport()
		a.engineMu.Unlock()
		event = event.
			Int("depth", report.Params.Depth).
			Int("branch", report.Params.Branch).
			Int("nodes", report.Nodes).
			Int("score", report.Score).
			Bool("opening", report.Opening).
			Bool("fallback", report.Fallback)
	}
	event.Msg("ai: search stats")
}
