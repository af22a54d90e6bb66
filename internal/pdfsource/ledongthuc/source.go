// Package ledongthuc reads purchase-order pages with github.com/ledongthuc/pdf.
// The library exposes positioned glyph runs only, so table grids are rebuilt
// by grouping runs into rows and cells.
package ledongthuc

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/pdfsource"
	"orderscan/internal/port"
)

// EngineName is the registry name of this engine.
const EngineName = "ledongthuc"

type source struct {
	log *zap.Logger
}

// New creates a ledongthuc-backed DocumentSource.
func New(_ *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error) {
	return &source{log: log.Named("pdfsource.ledongthuc")}, nil
}

func (s *source) Open(_ context.Context, path string) (pr port.PageReader, err error) {
	// The library panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = pdfsource.NewEngineError(EngineName, "open", fmt.Errorf("panic: %v", rec))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "open", err)
	}
	return &pageReader{f: f, r: r, pages: r.NumPage(), log: s.log}, nil
}

type pageReader struct {
	mu    sync.Mutex
	f     *os.File
	r     *pdf.Reader
	pages int
	log   *zap.Logger
}

func (p *pageReader) PageCount() int { return p.pages }

func (p *pageReader) ReadPage(ctx context.Context, index int) (page *domain.RawPage, err error) {
	if index < 0 || index >= p.pages {
		return nil, fmt.Errorf("%w: %d of %d", domain.ErrPageOutOfRange, index, p.pages)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = pdfsource.NewEngineError(EngineName, "read page", fmt.Errorf("panic: %v", rec))
		}
	}()

	pg := p.r.Page(index + 1)
	if pg.V.IsNull() {
		return &domain.RawPage{Index: index}, nil
	}

	texts := pg.Content().Text
	frags := make([]pdfsource.Fragment, 0, len(texts))
	for _, t := range texts {
		frags = append(frags, pdfsource.Fragment{Text: t.S, X: t.X, Y: t.Y, Width: t.W})
	}

	grid := pdfsource.GroupRows(frags)
	p.log.Debug("page read", zap.Int("page", index), zap.Int("runs", len(texts)), zap.Int("rows", len(grid)))

	return &domain.RawPage{
		Index:  index,
		Text:   pdfsource.JoinRows(grid),
		Tables: []domain.Table{grid},
	}, nil
}

func (p *pageReader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.f.Close()
}
