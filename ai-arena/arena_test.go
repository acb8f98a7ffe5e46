package main

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestUpdateEloIsZeroSum(t *testing.T) {
	a := standing{Elo: 1500}
	b := standing{Elo: 1600}
	updateElo(&a, &b, 1, 20)
	if a.Elo <= 1500 || b.Elo >= 1600 {
		t.Fatalf("winner should gain and loser lose, got %.2f %.2f", a.Elo, b.Elo)
	}
	if math.Abs(a.Elo+b.Elo-3100) > 1e-9 {
		t.Fatalf("elo not conserved: %.6f", a.Elo+b.Elo)
	}
}

func TestBuildOpeningSuiteIsDeterministic(t *testing.T) {
	first := buildOpeningSuite(15, 6, 4, 3)
	second := buildOpeningSuite(15, 6, 4, 3)
	if len(first) != 6 {
		t.Fatalf("expected 6 openings, got %d", len(first))
	}
	for i := range first {
		seen := map[openingMove]bool{}
		for j, move := range first[i] {
			if move != second[i][j] {
				t.Fatalf("opening %d differs between runs", i)
			}
			if seen[move] || move.Row < 5 || move.Row > 9 || move.Col < 5 || move.Col > 9 {
				t.Fatalf("opening %d has a bad move %+v", i, move)
			}
			seen[move] = true
		}
	}
}

// fakeBackend finishes every game immediately with black winning.
type fakeBackend struct {
	mu       sync.Mutex
	starts   int
	moves    []openingMove
	settings []map[string]any
}

func (f *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.starts++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var move openingMove
		_ = json.NewDecoder(r.Body).Decode(&move)
		f.mu.Lock()
		f.moves = append(f.moves, move)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings map[string]any `json:"settings"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.mu.Lock()
		f.settings = append(f.settings, payload.Settings)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{GameID: "g", Status: "black_won", Winner: 1})
	})
	return r
}

func TestSeriesSwapsColors(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	cfg := arenaConfig{
		BaseURL:      srv.URL,
		Challenger:   "greedy",
		Champion:     "alphabeta",
		Matches:      2,
		OpeningPlies: 2,
		BoardSize:    15,
		PollInterval: time.Millisecond,
		GameTimeout:  time.Second,
		EloK:         20,
		Seed:         1,
	}
	a := newArena(cfg, newBackendClient(srv.URL, time.Second))
	if err := a.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	status := a.getStatus()
	if status.GamesPlayed != 4 || status.Phase != "done" || status.Running {
		t.Fatalf("unexpected status %+v", status)
	}
	if a.challenger.Wins != 2 || a.challenger.Losses != 2 || a.champion.Wins != 2 {
		t.Fatalf("black always wins, so each side should win twice: %+v %+v", a.challenger, a.champion)
	}
	if backend.starts != 4 || len(backend.moves) != 8 || len(backend.settings) != 4 {
		t.Fatalf("unexpected backend traffic starts=%d moves=%d settings=%d", backend.starts, len(backend.moves), len(backend.settings))
	}
	if backend.settings[0]["black_engine"] != "greedy" || backend.settings[1]["black_engine"] != "alphabeta" {
		t.Fatalf("colors not swapped: %v", backend.settings[:2])
	}
}
