package config

import (
	"errors"
	"fmt"
	"onitama/game"
	"onitama/meta"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeMatch      = "match"
	ModeTournament = "tournament"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode                string
	ThinkTime           time.Duration
	DepthLimit          int
	MaxTurns            int
	RedMode             game.EvalMode
	BlueMode            game.EvalMode
	Games               int
	LogLevel            zerolog.Level
	CacheMemoryFraction float64
	OutputDir           string
	LoadState           string
}

// flags maps each config key to its command line flag.
var flags = map[string]string{
	"mode":                  "mode",
	"think_time":            "think-time",
	"depth_limit":           "depth-limit",
	"max_turns":             "max-turns",
	"red_mode":              "red-mode",
	"blue_mode":             "blue-mode",
	"games":                 "games",
	"log_level":             "log-level",
	"cache_memory_fraction": "cache-memory-fraction",
	"output_dir":            "output-dir",
	"load_state":            "load-state",
}

// Load reads flags from args, then ONITAMA_* environment variables, then an
// optional config file, falling back to defaults.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("onitama", pflag.ContinueOnError)
	fs.String("mode", ModeMatch, "match plays one game, tournament runs every evaluation mode pairing")
	fs.Duration("think-time", meta.THINK_TIME, "search time budget per move")
	fs.Int("depth-limit", 0, "maximum search depth, 0 for none")
	fs.Int("max-turns", meta.MAX_TURNS, "moves before a match is declared a draw")
	fs.Int("red-mode", int(game.MaterialEval), "red evaluation mode: 0 material, 1 positional, 2 combined")
	fs.Int("blue-mode", int(game.MaterialEval), "blue evaluation mode: 0 material, 1 positional, 2 combined")
	fs.Int("games", meta.GAMES, "tournament games per pairing and colour")
	fs.String("log-level", "info", "zerolog level")
	fs.Float64("cache-memory-fraction", 0.05, "fraction of system memory a transposition cache may use")
	fs.String("output-dir", meta.OUTPUT_DIR, "directory for tournament CSV records")
	fs.String("load-state", "", "canonical state encoding to start the match from")
	configFile := fs.String("config", "", "optional config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	for key, flag := range flags {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("onitama")
	v.AutomaticEnv()
	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	c.Mode = v.GetString("mode")
	c.ThinkTime = v.GetDuration("think_time")
	c.DepthLimit = v.GetInt("depth_limit")
	c.MaxTurns = v.GetInt("max_turns")
	c.RedMode = game.EvalMode(v.GetInt("red_mode"))
	c.BlueMode = game.EvalMode(v.GetInt("blue_mode"))
	c.Games = v.GetInt("games")
	c.LogLevel = level
	c.CacheMemoryFraction = v.GetFloat64("cache_memory_fraction")
	c.OutputDir = v.GetString("output_dir")
	c.LoadState = v.GetString("load_state")
	return c.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Mode != ModeMatch && c.Mode != ModeTournament:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	case c.ThinkTime <= 0 && c.DepthLimit <= 0:
		return fmt.Errorf("%w: need think_time or depth_limit", ErrInvalidConfig)
	case c.DepthLimit < 0:
		return fmt.Errorf("%w: depth_limit %d", ErrInvalidConfig, c.DepthLimit)
	case !validMode(c.RedMode) || !validMode(c.BlueMode):
		return fmt.Errorf("%w: evaluation modes are 0, 1 or 2", ErrInvalidConfig)
	case c.Games <= 0:
		return fmt.Errorf("%w: games %d", ErrInvalidConfig, c.Games)
	case c.CacheMemoryFraction <= 0 || c.CacheMemoryFraction > 1:
		return fmt.Errorf("%w: cache_memory_fraction %v", ErrInvalidConfig, c.CacheMemoryFraction)
	}
	return nil
}

func validMode(m game.EvalMode) bool {
	return m >= game.MaterialEval && m <= game.CombinedEval
}
