package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/metrics"
)

// InboxWorker scans documents dropped into a directory on a cron schedule.
// Finished files move to the processed directory, failed ones to the failed
// directory.
type InboxWorker struct {
	scans   ScanService
	reports ReportService
	cfg     config.InboxConfig
	metrics *metrics.Metrics
	log     *zap.Logger

	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewInboxWorker creates a new InboxWorker.
func NewInboxWorker(scans ScanService, reports ReportService, cfg *config.InboxConfig, m *metrics.Metrics, log *zap.Logger) *InboxWorker {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &InboxWorker{
		scans:    scans,
		reports:  reports,
		cfg:      *cfg,
		metrics:  m,
		log:      log.Named("inboxWorker"),
		sem:      make(chan struct{}, concurrency),
		inFlight: make(map[string]struct{}),
	}
}

// Start runs the schedule until ctx is canceled. It blocks until all
// in-flight scans have finished.
func (w *InboxWorker) Start(ctx context.Context) error {
	if err := w.ensureDirs(); err != nil {
		return err
	}

	logger := cronLogger{w.log.Sugar()}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(w.cfg.Schedule, func() {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.log.Error("inbox poll failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("inbox schedule %q: %w", w.cfg.Schedule, err)
	}

	w.log.Info("started",
		zap.String("dir", w.cfg.Dir),
		zap.String("schedule", w.cfg.Schedule),
		zap.Int("concurrency", cap(w.sem)),
	)
	c.Start()

	<-ctx.Done()
	w.log.Info("shutting down, waiting for in-flight scans")
	<-c.Stop().Done()
	w.wg.Wait()
	w.log.Info("shutdown complete")
	return nil
}

// RunOnce dispatches pending inbox files, up to the free concurrency slots,
// and returns how many were dispatched. Use Wait to block until they finish.
func (w *InboxWorker) RunOnce(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := w.ensureDirs(); err != nil {
		return 0, err
	}

	files, err := w.pending()
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, path := range files {
		if !w.claim(path) {
			continue
		}
		select {
		case w.sem <- struct{}{}: // acquire
		default:
			w.release(path)
			return dispatched, nil
		}

		dispatched++
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.sem }() // release
			defer w.release(path)

			// Fresh context so in-flight scans complete during shutdown.
			fileCtx, cancel := context.WithTimeout(context.Background(), w.cfg.FileTimeout)
			defer cancel()
			w.process(fileCtx, path)
		}()
	}
	return dispatched, nil
}

// Wait blocks until every dispatched file has been handled.
func (w *InboxWorker) Wait() {
	w.wg.Wait()
}

func (w *InboxWorker) process(ctx context.Context, path string) {
	name := filepath.Base(path)
	log := w.log.With(zap.String("file", name))
	log.Info("dispatching")

	err := w.scanAndReport(ctx, path, name, log)
	if err != nil {
		w.metrics.InboxFilesTotal.WithLabelValues("failed").Inc()
		log.Error("inbox file failed", zap.Error(err))
		w.move(path, w.cfg.FailedDir, log)
		return
	}
	w.metrics.InboxFilesTotal.WithLabelValues("processed").Inc()
	w.move(path, w.cfg.ProcessedDir, log)
}

func (w *InboxWorker) scanAndReport(ctx context.Context, path, name string, log *zap.Logger) error {
	scan, err := w.scans.Scan(ctx, ScanInput{Path: path, SourceName: name})
	if err != nil {
		return err
	}
	out, err := w.reports.Deliver(ctx, scan)
	if err != nil {
		return fmt.Errorf("delivering report: %w", err)
	}
	log.Info("inbox file processed",
		zap.Stringer("scan_id", scan.ID),
		zap.Int("records", len(scan.Records)),
		zap.Int("anomalies", len(scan.Anomalies)),
		zap.Bool("report_written", out.Written()),
	)
	return nil
}

func (w *InboxWorker) move(path, dir string, log *zap.Logger) {
	dest := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(dest, ext), time.Now().UnixNano(), ext)
	}
	if err := os.Rename(path, dest); err != nil {
		log.Error("moving inbox file", zap.String("dest", dest), zap.Error(err))
	}
}

// pending lists inbox files with an accepted extension, oldest name first.
func (w *InboxWorker) pending() ([]string, error) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			continue
		}
		files = append(files, filepath.Join(w.cfg.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (w *InboxWorker) ensureDirs() error {
	for _, dir := range []string{w.cfg.Dir, w.cfg.ProcessedDir, w.cfg.FailedDir} {
		if dir == "" {
			return errors.New("inbox: directory not configured")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

func (w *InboxWorker) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[path]; busy {
		return false
	}
	w.inFlight[path] = struct{}{}
	return true
}

func (w *InboxWorker) release(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
