package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/metrics"
	"orderscan/internal/parser"
	"orderscan/internal/port"
	"orderscan/internal/validator"
)

// ScanInput is the DTO for a scan request.
type ScanInput struct {
	Path string
	// SourceName labels the scan. Defaults to the base name of Path.
	SourceName string
}

// ScanService defines the document scanning contract.
type ScanService interface {
	Scan(ctx context.Context, input ScanInput) (*domain.ScanResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error)
	List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error)
}

type scanService struct {
	source  port.DocumentSource
	repo    port.ScanRepository
	pages   *parser.PageParser
	rules   *validator.Engine
	metrics *metrics.Metrics
	cfg     config.PipelineConfig
	log     *zap.Logger
}

// NewScanService creates a new ScanService implementation.
func NewScanService(
	source port.DocumentSource,
	repo port.ScanRepository,
	rules *validator.Engine,
	m *metrics.Metrics,
	cfg *config.PipelineConfig,
	log *zap.Logger,
) ScanService {
	return &scanService{
		source:  source,
		repo:    repo,
		pages:   parser.NewPageParser(cfg.HeaderTokens),
		rules:   rules,
		metrics: m,
		cfg:     *cfg,
		log:     log.Named("scanService"),
	}
}

// Scan reads every page of the document and builds the record table. Page
// failures are collected on the result; only a document that cannot be
// opened, a canceled context or a failed save return an error.
func (s *scanService) Scan(ctx context.Context, input ScanInput) (*domain.ScanResult, error) {
	start := time.Now()
	name := input.SourceName
	if name == "" {
		name = filepath.Base(input.Path)
	}
	log := s.log.With(zap.String("source", name))

	reader, err := s.source.Open(ctx, input.Path)
	if err != nil {
		s.metrics.ScansTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			log.Warn("closing document", zap.Error(cerr))
		}
	}()

	pageCount := reader.PageCount()
	log.Info("scan started", zap.Int("pages", pageCount), zap.Int("concurrency", s.cfg.Concurrency))

	results := s.processPages(ctx, reader, pageCount)
	if err := ctx.Err(); err != nil {
		s.metrics.ScansTotal.WithLabelValues("canceled").Inc()
		return nil, fmt.Errorf("scanning %s: %w", name, err)
	}

	scan := &domain.ScanResult{
		ID:         uuid.New(),
		SourceName: name,
		PageCount:  pageCount,
		Records:    []domain.OrderRecord{},
		Failures:   []domain.PageFailure{},
		CreatedAt:  time.Now().UTC(),
	}
	for _, res := range results {
		if !res.OK() {
			scan.Failures = append(scan.Failures, *res.Failure)
			continue
		}
		scan.Records = append(scan.Records, res.Records...)
	}

	outcome, err := s.rules.Evaluate(ctx, scan.Records)
	if err != nil {
		return nil, fmt.Errorf("evaluating rules: %w", err)
	}
	scan.Anomalies = outcome.Anomalies
	scan.Diagnostics = outcome.Diagnostics

	if err := s.repo.Save(ctx, scan); err != nil {
		s.metrics.ScansTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("saving scan: %w", err)
	}

	s.metrics.ScansTotal.WithLabelValues("completed").Inc()
	s.metrics.RecordsTotal.Add(float64(len(scan.Records)))
	s.metrics.AnomaliesTotal.Add(float64(len(scan.Anomalies)))
	s.metrics.ScanDuration.Observe(time.Since(start).Seconds())

	if len(scan.Records) == 0 {
		log.Warn("no order records extracted",
			zap.Stringer("scan_id", scan.ID),
			zap.Int("failed_pages", len(scan.Failures)),
		)
	}
	log.Info("scan completed",
		zap.Stringer("scan_id", scan.ID),
		zap.Int("records", len(scan.Records)),
		zap.Int("anomalies", len(scan.Anomalies)),
		zap.Int("failed_pages", len(scan.Failures)),
		zap.Int("diagnostics", len(scan.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return scan, nil
}

// processPages returns one result per page, in page order.
func (s *scanService) processPages(ctx context.Context, reader port.PageReader, n int) []domain.PageResult {
	results := make([]domain.PageResult, n)
	if s.cfg.Concurrency <= 1 {
		for i := 0; i < n; i++ {
			results[i] = s.processPage(ctx, reader, i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = s.processPage(ctx, reader, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

type pageOutcome struct {
	out *parser.PageOutput
	err error
}

func (s *scanService) processPage(ctx context.Context, reader port.PageReader, index int) domain.PageResult {
	start := time.Now()
	pageCtx, cancel := context.WithTimeout(ctx, s.cfg.PageTimeout)
	defer cancel()

	done := make(chan pageOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- pageOutcome{err: fmt.Errorf("panic while parsing: %v", r)}
			}
		}()
		raw, err := reader.ReadPage(pageCtx, index)
		if err != nil {
			done <- pageOutcome{err: fmt.Errorf("reading page: %w", err)}
			return
		}
		raw.Index = index
		out, err := s.pages.Parse(*raw)
		done <- pageOutcome{out: out, err: err}
	}()

	var res pageOutcome
	select {
	case res = <-done:
	case <-pageCtx.Done():
		res.err = pageCtx.Err()
	}
	if res.err != nil && ctx.Err() == nil && errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
		res.err = fmt.Errorf("%w after %s: %w", domain.ErrPageTimeout, s.cfg.PageTimeout, res.err)
	}
	s.metrics.PageDuration.Observe(time.Since(start).Seconds())

	if res.err != nil {
		s.metrics.PagesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.log.Warn("page failed", zap.Int("page", index), zap.String("reason", res.err.Error()))
		return domain.PageResult{
			Index:   index,
			Failure: &domain.PageFailure{Index: index, Reason: res.err.Error(), Err: res.err},
		}
	}

	s.metrics.PagesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	if res.out.HeaderBlocks > 1 {
		s.log.Warn("page has several order blocks, items attached to the first",
			zap.Int("page", index), zap.Int("header_blocks", res.out.HeaderBlocks))
	}
	s.log.Debug("page parsed",
		zap.Int("page", index),
		zap.Int("items", len(res.out.Items)),
		zap.Int("records", len(res.out.Records)),
	)
	return domain.PageResult{Index: index, Records: res.out.Records}
}

func (s *scanService) Get(ctx context.Context, id uuid.UUID) (*domain.ScanResult, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *scanService) List(ctx context.Context, offset, limit int) ([]domain.ScanSummary, int, error) {
	return s.repo.List(ctx, offset, limit)
}
