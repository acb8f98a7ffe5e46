package main

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Game struct {
	settings      GameSettings
	rules         Rules
	state         GameState
	history       MoveHistory
	blackPlayer   IPlayer
	whitePlayer   IPlayer
	suggestionAI  *AIPlayer
	suggestionFor int
	turnStart     time.Time
	onFinished    func(GameRecord)
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopMoveSuggestion(nil)
	g.stopAIPlayers()
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	log.Info().
		Str("game", g.state.ID).
		Str("black", settings.BlackType.String()).
		Str("white", settings.WhiteType.String()).
		Int("size", settings.BoardSize).
		Msg("game: reset")
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.state.StartedAt = time.Now()
		g.turnStart = time.Now()
		g.stopMoveSuggestion(nil)
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	if ok, reason := g.rules.IsLegal(g.state, move); !ok {
		g.state.LastMessage = "Illegal move: " + reason
		return false, g.state.LastMessage
	}
	g.stopMoveSuggestion(nil)
	g.state.LastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	mover := g.state.ToMove
	g.state.Board.PlacePiece(move.Row, move.Col, CellFromPlayer(mover))
	g.state.LastMove = NewMove(move.Row, move.Col)
	g.state.HasLastMove = true
	g.history.Push(HistoryEntry{Move: g.state.LastMove, Player: mover, ElapsedMs: elapsedMs, IsAi: isAiMove, Depth: move.Depth})
	log.Debug().
		Str("game", g.state.ID).
		Str("player", playerColorName(mover)).
		Int("row", move.Row).
		Int("col", move.Col).
		Bool("ai", isAiMove).
		Float64("elapsed_ms", elapsedMs).
		Msg("game: move played")

	if g.rules.IsWin(g.state.Board, g.state.LastMove) {
		if line, ok := g.rules.FindAlignmentLine(g.state.Board, g.state.LastMove); ok {
			g.state.WinningLine = line
		}
		if mover == PlayerBlack {
			g.finish(StatusBlackWon, "alignment")
		} else {
			g.finish(StatusWhiteWon, "alignment")
		}
		return true, ""
	}
	if g.rules.IsDraw(g.state.Board) {
		g.finish(StatusDraw, "board full")
		return true, ""
	}
	g.state.ToMove = otherPlayer(mover)
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances AI turns and human move submission. It returns true when a
// move was applied or the game ended.
func (g *Game) Tick(ghostEnabled bool, ghostSink func(ghostPayload)) bool {
	if g.state.Status != StatusRunning {
		g.stopMoveSuggestion(ghostSink)
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		if ghostEnabled && ghostSink != nil {
			g.updateMoveSuggestion(ghostSink)
		}
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			applied, _ := g.TryApplyMove(human.TakePendingMove())
			return applied
		}
		return false
	}
	g.stopMoveSuggestion(ghostSink)
	ai, ok := player.(*AIPlayer)
	if !ok {
		return g.applyAIMove(player.ChooseMove(g.state.Board, g.state.ToMove))
	}
	if ai.HasMoveReady() {
		if ai.ReadyTag() != g.history.Size() {
			ai.TakeMove()
			return false
		}
		return g.applyAIMove(ai.TakeMove())
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.state.Board, g.state.ToMove, g.history.Size())
	}
	return false
}

// applyAIMove plays move, or ends the game as a draw when the AI found no
// empty cell.
func (g *Game) applyAIMove(move Move) bool {
	if !move.IsValid(g.state.Board.Size()) {
		log.Warn().Str("game", g.state.ID).Msg("game: ai returned no move, declaring draw")
		g.finish(StatusDraw, "no move")
		return true
	}
	applied, reason := g.TryApplyMove(move)
	if !applied {
		log.Error().Str("game", g.state.ID).Str("reason", reason).Int("row", move.Row).Int("col", move.Col).Msg("game: ai move rejected")
	}
	return applied
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	if ai, ok := g.currentPlayer().(*AIPlayer); ok {
		return ai.IsThinking()
	}
	return false
}

func (g *Game) SetFinishedHandler(handler func(GameRecord)) {
	g.onFinished = handler
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	cfg := GetConfig()
	g.blackPlayer = newPlayer(g.settings.BlackType, cfg)
	g.whitePlayer = newPlayer(g.settings.WhiteType, cfg)
	if g.suggestionAI == nil {
		g.suggestionAI = NewAIPlayer(PlayerAlphaBeta, cfg)
	}
}

func newPlayer(kind PlayerType, cfg Config) IPlayer {
	if kind == PlayerHuman {
		return NewHumanPlayer()
	}
	return NewAIPlayer(kind, cfg)
}

func (g *Game) stopAIPlayers() {
	for _, p := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if ai, ok := p.(*AIPlayer); ok {
			ai.StopThinking()
		}
	}
}

func (g *Game) finish(status GameStatus, reason string) {
	g.state.Status = status
	log.Info().
		Str("game", g.state.ID).
		Str("status", statusToString(status)).
		Str("reason", reason).
		Int("moves", g.history.Size()).
		Msg("game: finished")
	if g.onFinished != nil {
		g.onFinished(g.record())
	}
}

func (g *Game) record() GameRecord {
	return GameRecord{
		ID:         g.state.ID,
		BoardSize:  g.state.Board.Size(),
		Black:      g.settings.BlackType.String(),
		White:      g.settings.WhiteType.String(),
		Status:     statusToString(g.state.Status),
		Winner:     winnerFromStatus(g.state.Status),
		Moves:      g.history.Moves(),
		StartedAt:  g.state.StartedAt,
		FinishedAt: time.Now(),
	}
}

// updateMoveSuggestion keeps a best-move hint for the human to move. The
// hint is computed for the position identified by the history length.
func (g *Game) updateMoveSuggestion(ghostSink func(ghostPayload)) {
	if g.suggestionAI == nil {
		g.suggestionAI = NewAIPlayer(PlayerAlphaBeta, GetConfig())
	}
	position := g.history.Size()
	if g.suggestionAI.HasMoveReady() && g.suggestionAI.ReadyTag() == position {
		move := g.suggestionAI.TakeMove()
		if move.IsValid(g.state.Board.Size()) {
			toMove := playerToInt(g.state.ToMove)
			ghostSink(ghostPayload{
				Mode:       "best_move",
				Best:       &ghostCell{Row: move.Row, Col: move.Col, Player: toMove},
				Depth:      move.Depth,
				NextPlayer: toMove,
				HistoryLen: position,
				Active:     true,
			})
		}
		return
	}
	if g.suggestionFor == position+1 || g.suggestionAI.IsThinking() {
		return
	}
	g.suggestionFor = position + 1
	g.suggestionAI.StartThinking(g.state.Board, g.state.ToMove, position)
}

func (g *Game) stopMoveSuggestion(ghostSink func(ghostPayload)) {
	g.suggestionFor = 0
	if g.suggestionAI != nil {
		g.suggestionAI.StopThinking()
	}
	if ghostSink != nil {
		ghostSink(ghostPayload{Mode: "best_move", Active: false})
	}
}
