package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const ExitCodeMainError = 1

const shutdownTimeout = 5 * time.Second

// RunApp serves the HTTP API until ctx is cancelled.
func RunApp(ctx context.Context, config Config, logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	serviceContainer, err := BuildServiceContainer(config, logger)
	if err != nil {
		return err
	}

	serviceContainer.WebhookDispatcher.Start()
	defer serviceContainer.WebhookDispatcher.Close()
	defer serviceContainer.Database.Close()

	server := &http.Server{
		Addr:    config.ListenAddr,
		Handler: serviceContainer.Router,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()
	logger.Info("listening", "addr", config.ListenAddr, "database", config.DatabaseFilepath)

	select {
	case err = <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err = <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("stopped")
	return nil
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
		return ExitCodeMainError
	}

	return 0
}
