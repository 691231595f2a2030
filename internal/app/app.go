package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"kalimati-price-tracker/internal/alerting"
	"kalimati-price-tracker/internal/config"
	"kalimati-price-tracker/internal/fetcher"
	"kalimati-price-tracker/internal/scheduler"
	"kalimati-price-tracker/internal/service"
	"kalimati-price-tracker/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PriceTableFetcher {
	return fetcher.NewKalimati(fetcher.KalimatiOptions{
		BaseURL:   a.Config.Source.BaseURL,
		Timeout:   a.Config.Source.RequestTimeout,
		UserAgent: a.Config.Source.UserAgent,
	}, a.Logger)
}

// newNotifiers returns the per-subscriber notifier and the optional
// broadcast channel. Either may be nil when alerting is disabled.
func (a *App) newNotifiers() (alerting.Notifier, alerting.Notifier) {
	if !a.Config.Alerting.Enabled {
		return nil, nil
	}

	var notifier alerting.Notifier
	if a.Config.Alerting.Email.Enabled {
		cfg := a.Config.Alerting.Email
		notifier = alerting.NewEmailNotifier(alerting.EmailOptions{
			Server:   cfg.Server,
			Port:     cfg.Port,
			Address:  cfg.Address,
			Password: cfg.Password,
			Sender:   cfg.Sender,
		}, a.Logger)
	}

	var broadcast alerting.Notifier
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		broadcast = alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}

	return notifier, broadcast
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn is required")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(store *storage.Store) *service.Service {
	notifier, broadcast := a.newNotifiers()
	return service.New(a.Config, a.newFetcher(), store, store, notifier, broadcast, a.Logger)
}

// Run executes one incremental tracking run and exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := a.newService(store)

	a.Logger.Info().Msg("starting tracking run")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("tracking run terminated with error")
		return err
	}

	a.Logger.Info().Msg("tracking run finished")
	return nil
}

// Watch keeps the process alive and launches one tracking run per scheduler
// cycle, picking up each new day as it is published.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := a.newService(store)

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToStart,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting watch mode")
	err = sched.Run(ctx, svc.Run)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch mode terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch mode stopped")
	return nil
}

// ExportOptions hold parameters for exporting a commodity's history.
type ExportOptions struct {
	Commodity string
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
