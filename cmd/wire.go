package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	sqlitekv "github.com/bnema/coach-cli/internal/adapters/kv/sqlite"
	tomlkv "github.com/bnema/coach-cli/internal/adapters/kv/toml"
	"github.com/bnema/coach-cli/internal/adapters/remote/coachapi"
	"github.com/bnema/coach-cli/internal/application"
	"github.com/bnema/coach-cli/internal/config"
	"github.com/bnema/coach-cli/internal/ports"
	"go.uber.org/zap"
)

type app struct {
	workspace  *application.Workspace
	dispatcher *application.Dispatcher
	uploader   *application.Uploader
	closers    []func() error
}

func wireApp(logger *zap.Logger) (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := config.Load(homeDir, ".env")
	if err != nil {
		return nil, err
	}

	kv, closers, err := wireStore(cfg)
	if err != nil {
		return nil, err
	}

	clock := ports.SystemClock{}
	remote := coachapi.Client{
		BaseURL:        cfg.APIURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.RemoteTimeout,
		Logger:         logger.Named("coachapi"),
	}

	store := application.NewSessionStore(kv, clock, logger.Named("store"))
	workspace := application.NewWorkspace(store, logger.Named("workspace"))
	if _, err := workspace.Restore(context.Background()); err != nil {
		return nil, fmt.Errorf("restore sessions: %w", err)
	}

	logger.Debug("wired application",
		zap.String("api_url", cfg.APIURL),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.String("storage_path", cfg.StoragePath),
	)

	return &app{
		workspace:  workspace,
		dispatcher: application.NewDispatcher(workspace, remote, clock, logger.Named("dispatcher")),
		uploader:   application.NewUploader(workspace, remote, clock, logger.Named("uploader")),
		closers:    closers,
	}, nil
}

func wireStore(cfg *config.Config) (ports.KeyValueStore, []func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		store, err := sqlitekv.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite state store: %w", err)
		}
		return store, []func() error{store.Close}, nil
	default:
		store, err := tomlkv.NewStore(cfg.Viper)
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml state store: %w", err)
		}
		return store, nil, nil
	}
}

func (a *app) close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil

	return firstErr
}
