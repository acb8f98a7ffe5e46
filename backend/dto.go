package main

import (
	"encoding/json"
	"net/http"
)

type StatusResponse struct {
	GameID          string            `json:"game_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Board           [][]int           `json:"board"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	WinReason       string            `json:"win_reason"`
	WinningLine     []Move            `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	Message         string            `json:"message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

// GameSettingsDTO is the wire form of GameSettings. BlackEngine and
// WhiteEngine name the engine used when that color is AI controlled.
type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	BlackEngine string `json:"black_engine,omitempty"`
	WhiteEngine string `json:"white_engine,omitempty"`
	BoardSize   int    `json:"board_size,omitempty"`
}

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	GameID          string            `json:"game_id"`
	History         []historyEntryDTO `json:"history"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	BoardSize       int               `json:"board_size"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type gamesResponse struct {
	Items  []GameRecord `json:"items"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Total  int          `json:"total"`
}

// analyzeRequest asks an engine for a move on an arbitrary position. Board
// rows hold 0 (empty), 1 (black) or 2 (white).
type analyzeRequest struct {
	Board  [][]int `json:"board"`
	Player int     `json:"player"`
	Engine string  `json:"engine"`
}

type analyzeResponse struct {
	Move   Move          `json:"move"`
	Engine string        `json:"engine"`
	Report *SearchReport `json:"report,omitempty"`
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		GameID:          state.ID,
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		BoardSize:       state.Board.Size(),
		Board:           boardToSlice(state.Board),
		Status:          statusToString(state.Status),
		History:         historyToDTO(controller.History()),
		WinReason:       winReasonFromState(state),
		WinningLine:     append([]Move(nil), state.WinningLine...),
		AiThinking:      controller.AiThinking(),
		Message:         state.LastMessage,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		GameID:          state.ID,
		History:         historyToDTO(controller.History()),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          statusToString(state.Status),
		BoardSize:       state.Board.Size(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func winReasonFromState(state GameState) string {
	switch {
	case winnerFromStatus(state.Status) != 0:
		return "alignment"
	case state.Status == StatusDraw:
		return "draw"
	default:
		return ""
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	black := engineType(dto.BlackEngine)
	white := engineType(dto.WhiteEngine)
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = black
		settings.WhiteType = white
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = black
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = white
		}
	}
	if dto.BoardSize >= winLength && dto.BoardSize <= maxEngineSize {
		settings.BoardSize = dto.BoardSize
	}
	return settings
}

// engineType maps an engine name to an AI player type, defaulting to
// alpha-beta.
func engineType(name string) PlayerType {
	kind := playerTypeFromString(name, PlayerAlphaBeta)
	if kind == PlayerHuman {
		return PlayerAlphaBeta
	}
	return kind
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	dto := GameSettingsDTO{Mode: "ai_vs_human", BoardSize: settings.BoardSize}
	blackHuman := settings.BlackType == PlayerHuman
	whiteHuman := settings.WhiteType == PlayerHuman
	switch {
	case blackHuman && whiteHuman:
		dto.Mode = "human_vs_human"
		dto.HumanPlayer = 1
	case !blackHuman && !whiteHuman:
		dto.Mode = "ai_vs_ai"
	case blackHuman:
		dto.HumanPlayer = 1
	default:
		dto.HumanPlayer = 2
	}
	if !blackHuman {
		dto.BlackEngine = settings.BlackType.String()
	}
	if !whiteHuman {
		dto.WhiteEngine = settings.WhiteType.String()
	}
	return dto
}

func boardToSlice(board Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for row := 0; row < size; row++ {
		rows[row] = make([]int, size)
		for col := 0; col < size; col++ {
			rows[row][col] = cellToInt(board.PieceAt(row, col))
		}
	}
	return rows
}

// boardFromSlice builds a square board from rows. ok is false when rows is
// not square or is larger than the engine supports.
func boardFromSlice(rows [][]int) (Board, bool) {
	size := len(rows)
	if size == 0 || size > maxEngineSize {
		return Board{}, false
	}
	board := NewBoard(size)
	for row, values := range rows {
		if len(values) != size {
			return Board{}, false
		}
		for col, value := range values {
			board.Set(row, col, intToCell(value))
		}
	}
	return board, true
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

// intToCell keeps unknown values as-is so the engine can report them.
func intToCell(value int) Cell {
	switch value {
	case 0:
		return CellEmpty
	case 1:
		return CellBlack
	case 2:
		return CellWhite
	default:
		return Cell(value)
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func intToPlayer(value int) PlayerColor {
	if value == 2 {
		return PlayerWhite
	}
	return PlayerBlack
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Row:       entry.Move.Row,
		Col:       entry.Move.Col,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
