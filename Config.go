package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultListenAddr  = ":8080"
	DefaultGridColumns = 26
	DefaultGridRows    = 100

	DefaultMaxGridColumns = 256
	DefaultMaxGridRows    = 10000
)

var ConfigError = errors.New("invalid configuration")

type Config struct {
	DatabaseFilepath string
	ListenAddr       string
	GridColumns      int
	GridRows         int
	MaxGridColumns   int
	MaxGridRows      int
	LogLevel         slog.Level
}

// LoadConfig reads DATABASE_FILEPATH, LISTEN_ADDR, GRID_COLUMNS, GRID_ROWS,
// MAX_GRID_COLUMNS, MAX_GRID_ROWS and LOG_LEVEL
func LoadConfig() (config Config, err error) {
	config = Config{
		DatabaseFilepath: os.Getenv("DATABASE_FILEPATH"),
		ListenAddr:       DefaultListenAddr,
		GridColumns:      DefaultGridColumns,
		GridRows:         DefaultGridRows,
		MaxGridColumns:   DefaultMaxGridColumns,
		MaxGridRows:      DefaultMaxGridRows,
		LogLevel:         slog.LevelInfo,
	}

	if config.DatabaseFilepath == "" {
		return config, fmt.Errorf("%w: DATABASE_FILEPATH is required", ConfigError)
	}

	if listenAddr := os.Getenv("LISTEN_ADDR"); listenAddr != "" {
		config.ListenAddr = listenAddr
	}

	if config.GridColumns, err = positiveIntFromEnv("GRID_COLUMNS", config.GridColumns); err != nil {
		return
	}

	if config.GridRows, err = positiveIntFromEnv("GRID_ROWS", config.GridRows); err != nil {
		return
	}

	if config.MaxGridColumns, err = positiveIntFromEnv("MAX_GRID_COLUMNS", config.MaxGridColumns); err != nil {
		return
	}

	if config.MaxGridRows, err = positiveIntFromEnv("MAX_GRID_ROWS", config.MaxGridRows); err != nil {
		return
	}

	if config.GridColumns > config.MaxGridColumns || config.GridRows > config.MaxGridRows {
		return config, fmt.Errorf(
			"%w: grid %dx%d is larger than its maximum %dx%d", ConfigError,
			config.GridColumns, config.GridRows, config.MaxGridColumns, config.MaxGridRows,
		)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if err = config.LogLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return config, fmt.Errorf("%w: LOG_LEVEL: %w", ConfigError, err)
		}
	}

	return
}

func positiveIntFromEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback, fmt.Errorf("%w: %s should be a positive integer, got `%s`", ConfigError, name, raw)
	}

	return value, nil
}
