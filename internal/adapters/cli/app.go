package cli

import (
	"cmp"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/lecturenotes/internal/adapters/cache"
	"github.com/devbush/lecturenotes/internal/adapters/credentials"
	"github.com/devbush/lecturenotes/internal/adapters/openai"
	"github.com/devbush/lecturenotes/internal/adapters/pathresolve"
	"github.com/devbush/lecturenotes/internal/adapters/process"
	"github.com/devbush/lecturenotes/internal/adapters/whisper"
	"github.com/devbush/lecturenotes/internal/adapters/ytdlp"
	"github.com/devbush/lecturenotes/internal/application"
	"github.com/devbush/lecturenotes/internal/config"
	"github.com/devbush/lecturenotes/internal/prompts"
)

// BundledAPIKey is the default notes API key, set at build time with
// -ldflags "-X github.com/devbush/lecturenotes/internal/adapters/cli.BundledAPIKey=..."
var BundledAPIKey string

const eventBufferSize = 1000

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Runner      *process.Runner
	Resolver    *pathresolve.Resolver
	Store       *cache.FileCache
	Downloader  *ytdlp.Downloader
	Transcriber *whisper.Transcriber
	Notes       *openai.Client
	Credentials *credentials.Store
	Prompts     *prompts.Catalog

	Coordinator *application.Coordinator
	CacheSvc    *application.CacheService
}

// NewApp creates and wires up all dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	runner := process.NewRunner(logger)
	resolver := pathresolve.NewResolver(runner,
		pathresolve.WithBinDir(config.BinDir()),
		pathresolve.WithOverride(pathresolve.InterpreterName, cfg.Paths.Python),
		pathresolve.WithOverride("yt-dlp", cfg.Paths.YtDlp),
		pathresolve.WithLogger(logger),
	)

	store := cache.NewFileCache(afero.NewOsFs(), cfg.CacheDir(), logger)
	if err := store.EnsureDirs(); err != nil {
		return nil, err
	}

	scriptPath := cfg.Paths.Script
	if scriptPath == "" {
		installed, err := whisper.InstallScript(config.EngineDir())
		if err != nil {
			// Transcription reports the missing script when it runs.
			logger.Warn("failed to install transcription script", "error", err)
		}
		scriptPath = installed
	}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		logger.Warn("invalid api timeout, using default", "value", cfg.API.Timeout)
		timeout = openai.DefaultTimeout
	}
	notes := openai.NewClient(
		openai.WithBaseURL(cfg.API.BaseURL),
		openai.WithModel(cmp.Or(modelFlag, cfg.Defaults.Model)),
		openai.WithTimeout(timeout),
		openai.WithLogger(logger),
	)

	creds, err := credentials.Open(config.KeyringDir(), cmp.Or(BundledAPIKey, os.Getenv("OPENAI_API_KEY")))
	if err != nil {
		return nil, err
	}

	catalog, err := prompts.Load(filepath.Join(config.AppDir(), "prompts.yaml"))
	if err != nil {
		return nil, err
	}

	downloader := ytdlp.NewDownloader(runner, resolver, config.BinDir(), logger)
	transcriber := whisper.NewTranscriber(runner, resolver, scriptPath, logger)

	jobs := application.NewJobManager()
	coordinator := application.NewCoordinator(
		jobs,
		application.NewEventBus(eventBufferSize),
		transcriber,
		notes,
		creds,
		store,
		logger,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Runner:      runner,
		Resolver:    resolver,
		Store:       store,
		Downloader:  downloader,
		Transcriber: transcriber,
		Notes:       notes,
		Credentials: creds,
		Prompts:     catalog,
		Coordinator: coordinator,
		CacheSvc:    application.NewCacheService(store, jobs),
	}, nil
}

// SettleDelay returns the configured post-stop delay for recordings
func (a *App) SettleDelay() time.Duration {
	d, err := a.Config.GetSettleDelay()
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp() (*App, error) {
	if globalApp == nil {
		cfg, err := config.LoadDefault()
		if err != nil {
			return nil, err
		}
		app, err := NewApp(cfg, slog.Default())
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}
