package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type Config struct {
	ListenAddr      string       `json:"listen_addr"`
	TickIntervalMs  int          `json:"tick_interval_ms"`
	GhostMode       bool         `json:"ghost_mode"`
	LogSearchStats  bool         `json:"log_search_stats"`
	ArchiveEnabled  bool         `json:"archive_enabled"`
	ArchivePath     string       `json:"archive_path"`
	ArchiveMaxGames int          `json:"archive_max_games"`
	Engine          EngineTuning `json:"engine"`
	Greedy          GreedyTuning `json:"greedy"`
}

// EngineTuning holds the alpha-beta depth and branch factors. Players read
// it once when they are created, so changes apply from the next game.
type EngineTuning struct {
	Depth            int `json:"depth"`
	BlackBranch      int `json:"black_branch"`
	WhiteBranch      int `json:"white_branch"`
	FirstReplyBranch int `json:"first_reply_branch"`
	OpeningDepth     int `json:"opening_depth"`
	OpeningBranch    int `json:"opening_branch"`
}

type GreedyTuning struct {
	DefenseFactor int `json:"defense_factor"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":8080",
		TickIntervalMs:  50,
		GhostMode:       false,
		LogSearchStats:  false,
		ArchiveEnabled:  true,
		ArchivePath:     "games.gob",
		ArchiveMaxGames: 200,

		Engine: EngineTuning{
			Depth:            5,
			BlackBranch:      25,
			WhiteBranch:      30,
			FirstReplyBranch: 17, // the reply to a lone stone is searched narrower
			OpeningDepth:     6,
			OpeningBranch:    13,
		},
		Greedy: GreedyTuning{
			DefenseFactor: 3,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig.normalized()
	c.mu.Unlock()
}

// LoadFile overlays the JSON document at path onto the current config.
// Fields missing from the file keep their current values.
func (c *ConfigStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := c.Get()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	c.Update(cfg)
	return nil
}

func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.TickIntervalMs <= 0 {
		cfg.TickIntervalMs = def.TickIntervalMs
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.Engine.Depth <= 0 {
		cfg.Engine.Depth = def.Engine.Depth
	}
	if cfg.Engine.BlackBranch <= 0 {
		cfg.Engine.BlackBranch = def.Engine.BlackBranch
	}
	if cfg.Engine.WhiteBranch <= 0 {
		cfg.Engine.WhiteBranch = def.Engine.WhiteBranch
	}
	if cfg.Engine.FirstReplyBranch <= 0 {
		cfg.Engine.FirstReplyBranch = def.Engine.FirstReplyBranch
	}
	if cfg.Engine.OpeningDepth <= 0 {
		cfg.Engine.OpeningDepth = def.Engine.OpeningDepth
	}
	if cfg.Engine.OpeningBranch <= 0 {
		cfg.Engine.OpeningBranch = def.Engine.OpeningBranch
	}
	if cfg.Greedy.DefenseFactor <= 0 {
		cfg.Greedy.DefenseFactor = def.Greedy.DefenseFactor
	}
	return cfg
}
