package app

import (
	"context"
	"fmt"

	"github.com/ndedov/coinwatch/internal/config"
	"github.com/ndedov/coinwatch/internal/delivery/health"
	"github.com/ndedov/coinwatch/internal/delivery/telegram"
	"github.com/ndedov/coinwatch/internal/infra/coingecko"
	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"github.com/ndedov/coinwatch/internal/infra/log"
	"github.com/ndedov/coinwatch/internal/infra/metrics"
	"github.com/ndedov/coinwatch/internal/repo"
	"github.com/ndedov/coinwatch/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type App struct {
	bot     *telegram.Bot
	watcher *usecase.Watcher
	health  *health.Server
	pinger  *health.Pinger

	notifier *telegram.Notifier
	ownerID  string
	store    docstore.Store
	logger   *zap.Logger
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	accessRepo := repo.NewAccessRepo(store, cfg.OwnerID, logger)
	alertRepo := repo.NewAlertRepo(store, logger)
	symbolRepo := repo.NewSymbolRepo(store, logger)

	quotes := coingecko.NewClient(cfg.CoingeckoBaseURL, cfg.CoingeckoTimeout, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	notifier := telegram.NewNotifier(api, logger)

	registryUC := usecase.NewRegistryUsecase(symbolRepo, accessRepo, quotes, logger)
	registryUC.Reload(ctx)
	accessUC := usecase.NewAccessUsecase(accessRepo, registryUC, notifier, cfg.DefaultCoin, logger)
	alertUC := usecase.NewAlertUsecase(accessRepo, alertRepo, registryUC, quotes, logger)

	m := metrics.New(prometheus.DefaultRegisterer)
	watcher := usecase.NewWatcher(alertRepo, quotes, notifier, m, logger, cfg.CheckInterval, cfg.CheckInitialDelay)

	handlers := telegram.NewHandlers(accessUC, alertUC, registryUC, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	return &App{
		bot:      bot,
		watcher:  watcher,
		health:   health.NewServer(cfg.HealthAddr, logger),
		pinger:   health.NewPinger(cfg.PingURL, cfg.PingInterval, cfg.PingTimeout, logger),
		notifier: notifier,
		ownerID:  cfg.OwnerID,
		store:    store,
		logger:   logger,
	}, nil
}

func openStore(cfg config.Config, logger *zap.Logger) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return docstore.NewFileStore(cfg.DataDir)
	case "postgres":
		return docstore.OpenPostgres(cfg, logger)
	case "redis":
		return docstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("coinwatch starting")

	a.health.Start()
	a.watcher.Start()
	go a.pinger.Run(ctx)

	if err := a.notifier.Notify(a.ownerID, "🤖 Bot started successfully!"); err != nil {
		a.logger.Warn("owner startup notification failed", zap.Error(err))
	}

	a.logger.Info("coinwatch started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("coinwatch shutting down")
	a.watcher.Stop()
	a.health.Shutdown(context.Background())
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
