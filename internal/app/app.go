// Package app wires configuration into the services shared by the command
// line tool and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/email/noop"
	"orderscan/internal/email/ses"
	"orderscan/internal/handler"
	"orderscan/internal/metrics"
	"orderscan/internal/pdfsource"
	"orderscan/internal/pdfsource/jsonpages"
	"orderscan/internal/pdfsource/ledongthuc"
	"orderscan/internal/pdfsource/tabula"
	"orderscan/internal/port"
	"orderscan/internal/repository/memory"
	"orderscan/internal/repository/postgres"
	"orderscan/internal/router"
	"orderscan/internal/service"
	s3storage "orderscan/internal/storage/s3"
	"orderscan/internal/validator"
)

var registerOnce sync.Once

// RegisterEngines makes the built-in document engines available to
// pdfsource.NewFromConfig.
func RegisterEngines() {
	registerOnce.Do(func() {
		pdfsource.RegisterEngine(tabula.EngineName, tabula.New)
		pdfsource.RegisterEngine(ledongthuc.EngineName, ledongthuc.New)
		pdfsource.RegisterEngine(jsonpages.EngineName, jsonpages.New)
	})
}

// App holds the wired components.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Repo    port.ScanRepository
	Scans   service.ScanService
	Reports service.ReportService

	closers []func() error
}

// New builds every component from cfg. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	RegisterEngines()

	a := &App{Config: cfg, Log: log, Metrics: metrics.New()}

	source, err := pdfsource.NewFromConfig(&cfg.Source, log)
	if err != nil {
		return nil, fmt.Errorf("document source: %w", err)
	}

	if err := a.openRepo(); err != nil {
		return nil, err
	}

	var storage port.ObjectStorage
	if cfg.Report.Sink.ToS3() {
		storage, err = s3storage.NewReportStore(ctx, &cfg.S3, log)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("report storage: %w", err)
		}
	}

	notifier, err := newNotifier(ctx, &cfg.Email, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	rules := validator.NewEngine(validator.NewDefaultRegistry(cfg.Pipeline.AnomalyThreshold), log)
	a.Scans = service.NewScanService(source, a.Repo, rules, a.Metrics, &cfg.Pipeline, log)
	a.Reports = service.NewReportService(&cfg.Report, &cfg.S3, storage, notifier, log)

	log.Info("app initialized",
		zap.Strings("engines", cfg.Source.Engines),
		zap.Bool("db", cfg.DB.Enabled),
		zap.String("sink", string(cfg.Report.Sink)),
		zap.String("email", cfg.Email.Provider),
	)
	return a, nil
}

func (a *App) openRepo() error {
	if !a.Config.DB.Enabled {
		a.Repo = memory.NewScanRepo()
		return nil
	}
	db, err := postgres.NewDB(&a.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.Repo = postgres.NewScanRepo(db)
	return nil
}

func newNotifier(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (port.Notifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "noop":
		return noop.NewNoopNotifier(log), nil
	case "ses":
		n, err := ses.NewSESNotifier(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("ses notifier: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// Router returns the HTTP engine for the API.
func (a *App) Router() *gin.Engine {
	if a.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.Setup(
		handler.NewScanHandler(a.Scans, a.Reports, &a.Config.Server),
		handler.NewHealthHandler(a.Repo),
		a.Metrics,
		a.Config.Server.CORSOrigins,
		a.Log,
	)
}

// InboxWorker returns a watcher over the configured inbox directory.
func (a *App) InboxWorker() *service.InboxWorker {
	return service.NewInboxWorker(a.Scans, a.Reports, &a.Config.Inbox, a.Metrics, a.Log)
}

// Close releases held resources.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
