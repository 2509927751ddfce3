package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const ExitCodeMainError = 1

func RunApp() error {
	gin.SetMode(gin.ReleaseMode)

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := NewLogger(os.Stderr, config.LogLevel)

	serviceContainer, err := BuildServiceContainer(config, logger)
	if err != nil {
		return err
	}

	serviceContainer.WebhookDispatcher.Start()
	defer serviceContainer.WebhookDispatcher.Close()
	defer serviceContainer.Database.Close()

	logger.Info("listening", "addr", config.ListenAddr, "database", config.DatabaseFilepath)

	return http.ListenAndServe(config.ListenAddr, serviceContainer.Router)
}

func NewLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
		return ExitCodeMainError
	}

	return 0
}
