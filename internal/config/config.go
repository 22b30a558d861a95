package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// DataPath is the root the data file candidates are resolved against.
	DataPath string `envconfig:"DATA_PATH"`
	// DataFile, when set, names the data file directly and skips discovery.
	DataFile  string `envconfig:"DATA_FILE"`
	LogDir    string `envconfig:"LOGS_FOLDER"`
	ExportDir string `envconfig:"EXPORT_DIR"`

	CacheTTL            time.Duration `envconfig:"CACHE_TTL" default:"1h" validate:"gt=0"`
	EnableMermaidCharts bool          `envconfig:"ENABLE_MERMAID_CHARTS" default:"false"`
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:"127.0.0.1:8080" validate:"hostname_port"`

	PositionMinPlayers  int `envconfig:"POSITION_MIN_PLAYERS" default:"5" validate:"min=1"`
	TeamMinPlayers      int `envconfig:"TEAM_MIN_PLAYERS" default:"3" validate:"min=1"`
	RegressionMinSample int `envconfig:"REGRESSION_MIN_SAMPLE" default:"10" validate:"min=2"`
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir)
}

// FromEnv reads the process environment into an AppConfig. Relative directories are
// resolved against DATA_PATH, which itself defaults to exeDir (or the working directory).
func FromEnv(exeDir string) (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 3. Resolve Data Paths
	if cfg.DataPath == "" {
		if exeDir != "" {
			cfg.DataPath = exeDir
		} else {
			cfg.DataPath = "."
		}
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataPath, "logs")
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.DataPath, "exports")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
