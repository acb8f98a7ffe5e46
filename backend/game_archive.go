package main

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var dockerCacheDir = "/cache_logs"

var errGameNotFound = errors.New("game not found")

type GameRecord struct {
	ID         string    `json:"id"`
	BoardSize  int       `json:"board_size"`
	Black      string    `json:"black"`
	White      string    `json:"white"`
	Status     string    `json:"status"`
	Winner     int       `json:"winner"`
	Moves      []Move    `json:"moves"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type archiveSnapshot struct {
	Records []GameRecord
}

// GameArchive keeps the most recent finished games, oldest first.
type GameArchive struct {
	mu      sync.RWMutex
	limit   int
	records []GameRecord
}

func NewGameArchive(limit int) *GameArchive {
	return &GameArchive{limit: limit}
}

func (a *GameArchive) Add(record GameRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	record.Moves = append([]Move(nil), record.Moves...)
	a.records = append(a.records, record)
	if a.limit > 0 && len(a.records) > a.limit {
		a.records = append([]GameRecord(nil), a.records[len(a.records)-a.limit:]...)
	}
}

// List returns records newest first.
func (a *GameArchive) List(offset, limit int) ([]GameRecord, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	total := len(a.records)
	out := make([]GameRecord, 0, min(max(limit, 0), total))
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.records[i])
	}
	return out, total
}

func (a *GameArchive) Get(id string) (GameRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, record := range a.records {
		if record.ID == id {
			return record, nil
		}
	}
	return GameRecord{}, fmt.Errorf("%s: %w", id, errGameNotFound)
}

func (a *GameArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

// LoadFile replaces the archive content with the snapshot at path. A missing
// file leaves the archive empty and is not an error.
func (a *GameArchive) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer file.Close()
	var snapshot archiveSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode archive %s: %w", path, err)
	}
	sort.SliceStable(snapshot.Records, func(i, j int) bool {
		return snapshot.Records[i].FinishedAt.Before(snapshot.Records[j].FinishedAt)
	})
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = snapshot.Records
	if a.limit > 0 && len(a.records) > a.limit {
		a.records = a.records[len(a.records)-a.limit:]
	}
	return nil
}

func (a *GameArchive) SaveFile(path string) error {
	a.mu.RLock()
	snapshot := archiveSnapshot{Records: append([]GameRecord(nil), a.records...)}
	a.mu.RUnlock()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	if err := gob.NewEncoder(file).Encode(&snapshot); err != nil {
		file.Close()
		return fmt.Errorf("encode archive %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", path, err)
	}
	return nil
}

func loadArchive(cfg Config, archive *GameArchive) {
	if !cfg.ArchiveEnabled || cfg.ArchivePath == "" {
		log.Info().Msg("archive: persistence disabled")
		return
	}
	path := resolveArchivePath(cfg.ArchivePath)
	if err := archive.LoadFile(path); err != nil {
		log.Error().Err(err).Msg("archive: restore failed")
		return
	}
	log.Info().Str("path", path).Int("games", archive.Len()).Msg("archive: restored")
}

func persistArchive(cfg Config, archive *GameArchive) {
	if !cfg.ArchiveEnabled || cfg.ArchivePath == "" {
		return
	}
	path := resolveArchivePath(cfg.ArchivePath)
	if err := archive.SaveFile(path); err != nil {
		log.Error().Err(err).Msg("archive: store failed")
		return
	}
	log.Info().Str("path", path).Int("games", archive.Len()).Msg("archive: stored")
}

func resolveArchivePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if stat, err := os.Stat(dockerCacheDir); err == nil && stat.IsDir() {
		return filepath.Join(dockerCacheDir, path)
	}
	return path
}
