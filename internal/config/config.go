// Package config holds the server and AI settings shared by the binaries.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/engine"
	"shadowchess/internal/server/game"
	"shadowchess/internal/shadowchess"
)

// MemoryDataDir keeps saves in memory only.
const MemoryDataDir = ":memory:"

var ErrInvalidConfig = errors.New("invalid config")

// Duration reads "1.5s"-style strings from JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ms int64
		if err2 := json.Unmarshal(b, &ms); err2 != nil {
			return err
		}
		d.Duration = time.Duration(ms) * time.Millisecond
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	Addr        string   `json:"addr"`
	WebDir      string   `json:"web_dir"`
	MobileDir   string   `json:"mobile_dir"`
	DataDir     string   `json:"data_dir"` // empty: platform data dir
	BoardSize   int      `json:"board_size"`
	Difficulty  string   `json:"difficulty"`
	MoveTimeout Duration `json:"move_timeout"` // search budget per AI move
	AIDeadline  Duration `json:"ai_deadline"`  // hard cap on one AI turn
	LogLevel    string   `json:"log_level"`
	Development bool     `json:"development"`
	Seed        uint64   `json:"seed"`
	OpenBrowser bool     `json:"open_browser"`
}

func Default() Config {
	return Config{
		Addr:        ":2888",
		WebDir:      "./web",
		BoardSize:   game.DefaultBoardSize,
		Difficulty:  string(engine.Medium),
		MoveTimeout: Duration{engine.DefaultMoveTimeout},
		AIDeadline:  Duration{10 * time.Second},
		LogLevel:    "info",
		OpenBrowser: true,
	}
}

// LoadFile overlays a JSON file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.WebDir, "web", c.WebDir, "directory with the desktop client")
	fs.StringVar(&c.MobileDir, "web-mobile", c.MobileDir, "directory with the mobile client (defaults to -web)")
	fs.StringVar(&c.DataDir, "data", c.DataDir, "save directory ("+MemoryDataDir+" keeps saves in memory)")
	fs.IntVar(&c.BoardSize, "size", c.BoardSize, "default board size")
	fs.StringVar(&c.Difficulty, "difficulty", c.Difficulty, "default AI difficulty: easy, medium or hard")
	fs.DurationVar(&c.MoveTimeout.Duration, "move-timeout", c.MoveTimeout.Duration, "AI search budget per move")
	fs.DurationVar(&c.AIDeadline.Duration, "ai-deadline", c.AIDeadline.Duration, "hard limit on one AI turn")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.Development, "dev", c.Development, "human-readable development logging")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "AI random seed (0 = from clock)")
	fs.BoolVar(&c.OpenBrowser, "open", c.OpenBrowser, "open the browser on start")
}

// Parse builds a Config from defaults, the file named by -config and then
// the remaining flags, in that order of precedence.
func Parse(name string, args []string) (Config, error) {
	probe := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "JSON config file")
	probe.bind(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *path != "" {
		if err := cfg.LoadFile(*path); err != nil {
			return Config{}, err
		}
	}
	fs = flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "JSON config file")
	cfg.bind(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.BoardSize < shadowchess.MinBoardSize {
		return fmt.Errorf("%w: board size %d (minimum %d)", ErrInvalidConfig, c.BoardSize, shadowchess.MinBoardSize)
	}
	if !engine.Difficulty(c.Difficulty).Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidConfig, c.Difficulty)
	}
	if c.MoveTimeout.Duration <= 0 {
		return fmt.Errorf("%w: move timeout must be positive", ErrInvalidConfig)
	}
	if c.AIDeadline.Duration < c.MoveTimeout.Duration {
		return fmt.Errorf("%w: ai deadline %s below move timeout %s", ErrInvalidConfig, c.AIDeadline, c.MoveTimeout)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// GameOptions are the defaults for games the server starts.
func (c Config) GameOptions() game.Options {
	return game.Options{
		BoardSize:   c.BoardSize,
		Difficulty:  engine.Difficulty(c.Difficulty),
		HumanSide:   shadowchess.White,
		MoveTimeout: c.MoveTimeout.Duration,
		Seed:        c.Seed,
	}
}

func NewLogger(c Config) (*zap.Logger, error) {
	if c.Development {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}
