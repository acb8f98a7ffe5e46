package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerGreedy
	PlayerAlphaBeta
)

type GameSettings struct {
	BoardSize   int        `json:"board_size"`
	BlackType   PlayerType `json:"-"`
	WhiteType   PlayerType `json:"-"`
	BlackStarts bool       `json:"black_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:   DefaultBoardSize,
		BlackType:   PlayerHuman,
		WhiteType:   PlayerAlphaBeta,
		BlackStarts: true,
	}
}

func (t PlayerType) String() string {
	switch t {
	case PlayerGreedy:
		return "greedy"
	case PlayerAlphaBeta:
		return "alphabeta"
	default:
		return "human"
	}
}

func playerTypeFromString(value string, fallback PlayerType) PlayerType {
	switch value {
	case "human":
		return PlayerHuman
	case "greedy":
		return PlayerGreedy
	case "alphabeta", "ai":
		return PlayerAlphaBeta
	default:
		return fallback
	}
}
