package main

import (
	"testing"
	"time"
)

func activeSuggestions(payloads []ghostPayload) []ghostPayload {
	var active []ghostPayload
	for _, p := range payloads {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

func TestMoveSuggestionTracksHistoryLength(t *testing.T) {
	useFastEngines(t)
	game := NewGame(humanSettings())
	t.Cleanup(func() { game.Reset(humanSettings()) })
	game.Start()
	if applied, reason := game.TryApplyMove(NewMove(7, 7)); !applied {
		t.Fatalf("expected opening move to apply: %s", reason)
	}

	var got []ghostPayload
	sink := func(p ghostPayload) { got = append(got, p) }
	deadline := time.Now().Add(5 * time.Second)
	for len(activeSuggestions(got)) == 0 && time.Now().Before(deadline) {
		game.Tick(true, sink)
		time.Sleep(time.Millisecond)
	}
	active := activeSuggestions(got)
	if len(active) != 1 {
		t.Fatalf("expected one active suggestion, got %+v", got)
	}
	hint := active[0]
	if hint.Mode != "best_move" || hint.HistoryLen != 1 || hint.NextPlayer != 2 || hint.Best == nil || hint.Best.Player != 2 {
		t.Fatalf("unexpected suggestion %+v", hint)
	}
	if game.State().Board.PieceAt(hint.Best.Row, hint.Best.Col) != CellEmpty {
		t.Fatalf("suggested an occupied cell %+v", *hint.Best)
	}

	// the same position is not suggested twice
	game.Tick(true, sink)
	if n := len(activeSuggestions(got)); n != 1 {
		t.Fatalf("expected the suggestion to be emitted once, got %d", n)
	}

	got = nil
	if applied, reason := game.TryApplyMove(NewMove(hint.Best.Row, hint.Best.Col)); !applied {
		t.Fatalf("expected suggested move to apply: %s", reason)
	}
	game.Tick(true, sink)
	if stale := activeSuggestions(got); len(stale) != 0 {
		t.Fatalf("expected no suggestion right after a move, got %+v", stale)
	}
}

func TestMoveSuggestionOffWhenGhostDisabled(t *testing.T) {
	useFastEngines(t)
	game := NewGame(humanSettings())
	t.Cleanup(func() { game.Reset(humanSettings()) })
	game.Start()
	var got []ghostPayload
	sink := func(p ghostPayload) { got = append(got, p) }
	for i := 0; i < 20; i++ {
		game.Tick(false, sink)
		time.Sleep(time.Millisecond)
	}
	if len(activeSuggestions(got)) != 0 {
		t.Fatalf("expected no suggestion while ghost mode is off, got %+v", got)
	}
}
