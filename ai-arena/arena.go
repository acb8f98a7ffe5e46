package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type arenaConfig struct {
	BaseURL      string
	APIAddr      string
	Challenger   string
	Champion     string
	Matches      int
	OpeningPlies int
	BoardSize    int
	PollInterval time.Duration
	GameTimeout  time.Duration
	EloK         float64
	Seed         int64
}

type standing struct {
	Engine string  `json:"engine"`
	Elo    float64 `json:"elo"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
}

type arenaStatus struct {
	Running     bool       `json:"running"`
	Phase       string     `json:"phase"`
	Message     string     `json:"message,omitempty"`
	GamesPlayed int        `json:"games_played"`
	GamesTotal  int        `json:"games_total"`
	LastGameID  string     `json:"last_game_id,omitempty"`
	Standings   []standing `json:"standings"`
	UpdatedAt   string     `json:"updated_at"`
}

// gameResult is from black's point of view: 1 win, 0.5 draw, 0 loss.
type gameResult float64

type arena struct {
	cfg    arenaConfig
	client *backendClient

	statusMu   sync.RWMutex
	status     arenaStatus
	challenger standing
	champion   standing
}

func newArena(cfg arenaConfig, client *backendClient) *arena {
	a := &arena{
		cfg:        cfg,
		client:     client,
		challenger: standing{Engine: cfg.Challenger, Elo: 1500},
		champion:   standing{Engine: cfg.Champion, Elo: 1500},
	}
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "idle"
		s.GamesTotal = 2 * cfg.Matches
	})
	return a
}

func (a *arena) getStatus() arenaStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	status := a.status
	status.Standings = append([]standing(nil), a.status.Standings...)
	return status
}

func (a *arena) updateStatus(mutator func(*arenaStatus)) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	mutator(&a.status)
	a.status.Standings = rankStandings(a.challenger, a.champion)
	a.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// run plays every match of the configured series. Each match is a pair of
// games on the same opening with colors swapped.
func (a *arena) run(ctx context.Context) error {
	a.updateStatus(func(s *arenaStatus) {
		s.Running = true
		s.Phase = "waiting"
		s.Message = "waiting for backend"
	})
	defer a.updateStatus(func(s *arenaStatus) { s.Running = false })

	if err := a.client.waitReady(ctx, time.Minute); err != nil {
		a.fail(err)
		return err
	}
	openings := buildOpeningSuite(a.cfg.BoardSize, a.cfg.Matches, a.cfg.OpeningPlies, a.cfg.Seed)
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "running"
		s.Message = fmt.Sprintf("%s vs %s", a.cfg.Challenger, a.cfg.Champion)
	})
	for i, opening := range openings {
		score, err := a.playHeadToHead(ctx, opening)
		if err != nil {
			a.fail(err)
			return err
		}
		log.Info().
			Int("match", i+1).
			Int("of", len(openings)).
			Float64("challenger_score", score).
			Float64("challenger_elo", a.challenger.Elo).
			Float64("champion_elo", a.champion.Elo).
			Msg("arena: match finished")
	}
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "done"
		s.Message = "series complete"
	})
	log.Info().
		Str("challenger", a.challenger.Engine).
		Int("wins", a.challenger.Wins).
		Int("losses", a.challenger.Losses).
		Int("draws", a.challenger.Draws).
		Float64("elo", a.challenger.Elo).
		Msg("arena: series complete")
	return nil
}

func (a *arena) fail(err error) {
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "error"
		s.Message = err.Error()
	})
}

// playHeadToHead returns the challenger's average score over both colors.
func (a *arena) playHeadToHead(ctx context.Context, opening []openingMove) (float64, error) {
	points := 0.0
	for _, challengerBlack := range []bool{true, false} {
		black, white := a.cfg.Challenger, a.cfg.Champion
		if !challengerBlack {
			black, white = white, black
		}
		result, gameID, err := a.playGame(ctx, black, white, opening)
		if err != nil {
			return 0, err
		}
		score := float64(result)
		if !challengerBlack {
			score = 1 - score
		}
		points += score
		a.record(score)
		a.updateStatus(func(s *arenaStatus) {
			s.GamesPlayed++
			s.LastGameID = gameID
		})
	}
	return points / 2, nil
}

func (a *arena) record(challengerScore float64) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	switch challengerScore {
	case 1:
		a.challenger.Wins++
		a.champion.Losses++
	case 0:
		a.challenger.Losses++
		a.champion.Wins++
	default:
		a.challenger.Draws++
		a.champion.Draws++
	}
	updateElo(&a.challenger, &a.champion, challengerScore, a.cfg.EloK)
}

func (a *arena) playGame(ctx context.Context, black, white string, opening []openingMove) (gameResult, string, error) {
	if err := a.client.startSeededGame(ctx, opening, black, white); err != nil {
		return 0, "", err
	}
	deadline := time.Now().Add(a.cfg.GameTimeout)
	for {
		status, err := a.client.fetchStatus(ctx)
		if err != nil {
			return 0, "", err
		}
		if status.Status != "running" {
			log.Debug().
				Str("game", status.GameID).
				Str("black", black).
				Str("white", white).
				Int("winner", status.Winner).
				Int("moves", len(status.History)).
				Msg("arena: game over")
			return resultFromWinner(status.Winner), status.GameID, nil
		}
		if a.cfg.GameTimeout > 0 && time.Now().After(deadline) {
			if err := a.client.stopGame(ctx); err != nil {
				log.Warn().Err(err).Msg("arena: stop after timeout failed")
			}
			return 0, "", fmt.Errorf("game %s timed out after %s", status.GameID, a.cfg.GameTimeout)
		}
		if !sleepWithContext(ctx, a.cfg.PollInterval) {
			return 0, "", ctx.Err()
		}
	}
}

func resultFromWinner(winner int) gameResult {
	switch winner {
	case 1:
		return 1
	case 2:
		return 0
	default:
		return 0.5
	}
}

// buildOpeningSuite returns count deterministic openings of plies distinct
// cells close to the center.
func buildOpeningSuite(boardSize, count, plies int, seed int64) [][]openingMove {
	rng := rand.New(rand.NewSource(int64(boardSize*97+plies*13) + seed))
	center := boardSize / 2
	offsets := [][2]int{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
	}
	plies = min(plies, len(offsets))
	suite := make([][]openingMove, 0, count)
	for i := 0; i < count; i++ {
		used := map[openingMove]bool{}
		opening := make([]openingMove, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			move := openingMove{Row: center + off[0], Col: center + off[1]}
			if move.Row < 0 || move.Col < 0 || move.Row >= boardSize || move.Col >= boardSize || used[move] {
				continue
			}
			used[move] = true
			opening = append(opening, move)
		}
		suite = append(suite, opening)
	}
	return suite
}

func updateElo(a, b *standing, resultForA, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

func rankStandings(list ...standing) []standing {
	out := append([]standing(nil), list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Elo > out[j].Elo })
	return out
}
