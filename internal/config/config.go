package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrLogFormat = errors.New("unknown log format")

type Config struct {
	APIURL          string        `env:"TASKBOARD_API_URL" envDefault:"http://localhost:5000"`
	HTTPAddr        string        `env:"TASKBOARD_HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"TASKBOARD_REQUEST_TIMEOUT" envDefault:"10s"`
	JournalEnabled  bool          `env:"TASKBOARD_JOURNAL_ENABLED" envDefault:"true"`
	JournalPath     string        `env:"TASKBOARD_JOURNAL_PATH" envDefault:"./taskboard.db"`
	LogLevel        string        `env:"TASKBOARD_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"TASKBOARD_LOG_FORMAT" envDefault:"text"`
	ShutdownTimeout time.Duration `env:"TASKBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the optional .env files (default ".env") into the process
// environment and parses the configuration from it. Variables already set
// in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrLogFormat, c.LogFormat)
	}
}
