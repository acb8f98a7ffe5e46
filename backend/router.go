package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultGamesPage = 20
	maxGamesPage     = 100
)

type server struct {
	controller *GameController
	hub        *Hub
	ghostHub   *Hub
	archive    *GameArchive
}

func newRouter(controller *GameController, hub, ghostHub *Hub, archive *GameArchive) http.Handler {
	s := &server{controller: controller, hub: hub, ghostHub: ghostHub, archive: archive}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, controllerStatus(s.controller))
		})
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Post("/settings", s.handleSettings)
		r.Post("/move", s.handleMove)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/games", s.handleListGames)
		r.Get("/games/{id}", s.handleGetGame)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveHub(s.hub, w, r, s.sendStatus, s.handleWSMessage)
	})
	r.Get("/ws/ghost", func(w http.ResponseWriter, r *http.Request) {
		serveGhostWS(s.ghostHub, w, r)
	})
	return r
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
	s.controller.StartGame(settings)
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	s.hub.Publish("reset", resetFromController(s.controller))
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	s.hub.Publish("reset", resetFromController(s.controller))
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   json.RawMessage  `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	hasConfig := len(payload.Config) > 0 && string(payload.Config) != "null"
	if hasConfig {
		// overlay onto the current config so omitted fields keep their values
		cfg := GetConfig()
		if err := json.Unmarshal(payload.Config, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config")
			return
		}
		configStore.Update(cfg)
	}
	settings := s.controller.Settings()
	if payload.Settings != nil {
		settings = settingsFromDTO(*payload.Settings, settings)
	}
	if hasConfig || payload.Settings != nil {
		// recreating the players applies the new engine tuning
		s.controller.UpdateSettings(settings, false)
	}
	s.hub.Publish("settings", settingsPayload{
		Settings: controllerSettingsDTO(s.controller.Settings()),
		Config:   GetConfig(),
	})
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	applied, reason := s.controller.ApplyHumanMove(NewMove(payload.Row, payload.Col))
	if !applied {
		writeError(w, http.StatusBadRequest, reason)
		return
	}
	s.publishProgress()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	board, ok := boardFromSlice(payload.Board)
	if !ok {
		writeError(w, http.StatusBadRequest, "board must be square and at most 19 wide")
		return
	}
	if payload.Player != 1 && payload.Player != 2 {
		writeError(w, http.StatusBadRequest, "player must be 1 or 2")
		return
	}
	color := intToPlayer(payload.Player)
	cfg := GetConfig()
	kind := engineType(payload.Engine)
	response := analyzeResponse{Engine: kind.String()}
	switch kind {
	case PlayerGreedy:
		response.Move = NewGreedyAI(cfg.Greedy).ChooseMove(board, color)
	default:
		engine := NewAlphaBetaAI(cfg.Engine)
		response.Move = engine.ChooseMove(board, color)
		report := engine.LastReport()
		response.Report = &report
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *server) handleListGames(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultGamesPage
	}
	limit = min(limit, maxGamesPage)
	offset = max(offset, 0)
	items, total := s.archive.List(offset, limit)
	writeJSON(w, http.StatusOK, gamesResponse{Items: items, Offset: offset, Limit: limit, Total: total})
}

func (s *server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	record, err := s.archive.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, errGameNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// publishProgress pushes the latest move and the full status to websocket
// clients.
func (s *server) publishProgress() {
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	s.hub.Publish("status", controllerStatus(s.controller))
}

func (s *server) sendStatus(client *Client) {
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(s.controller))})
}

func (s *server) handleWSMessage(client *Client, msg wsMessage) {
	switch msg.Type {
	case "request_status":
		s.sendStatus(client)
	case "move":
		var move apiMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return
		}
		s.controller.OnCellClicked(move.Row, move.Col)
	}
}
