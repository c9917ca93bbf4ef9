package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
	"github.com/glowedge/skincare-backend/internal/infra/config"
	"github.com/glowedge/skincare-backend/internal/infra/queue"
	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// App encapsulates the HTTP server lifecycle and the background job worker.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	jobs   queue.HandlerQueue
	engine *routine.Engine
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, jobs queue.HandlerQueue, engine *routine.Engine) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		server: server,
		jobs:   jobs,
		engine: engine,
	}
}

// Run starts the job worker and HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.jobs.SetHandler(a.handleJob)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) handleJob(ctx context.Context, name string, payload map[string]any) {
	switch name {
	case routine.JobRegenerateRoutines:
		userID, ok := payloadUserID(payload)
		if !ok {
			a.logger.Warn("regeneration job missing user_id", "payload", payload)
			return
		}
		report, err := a.engine.RegenerateAll(ctx, userID)
		if err != nil {
			a.logger.Warn("background regeneration failed",
				"user_id", userID, "code", apperrors.CodeOf(err), "error", err)
			return
		}
		a.logger.Info("background regeneration finished",
			"user_id", userID, "regenerated", report.Regenerated, "count", report.Count)
	default:
		a.logger.Warn("unknown job", "name", name)
	}
}

// payloadUserID tolerates both in-process payloads and ones decoded from
// JSON, where numbers arrive as float64.
func payloadUserID(payload map[string]any) (int64, bool) {
	switch v := payload["user_id"].(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case float64:
		return int64(v), v > 0
	default:
		return 0, false
	}
}
