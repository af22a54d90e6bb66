// Package tabula reads purchase-order pages with the pure-Go tabula PDF
// engine. Tables come from its geometric detector; when none are found the
// grid is rebuilt from positioned text.
package tabula

import (
	"context"
	"fmt"
	"sync"

	tabulapdf "github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/pdfsource"
	"orderscan/internal/port"
)

// EngineName is the registry name of this engine.
const EngineName = "tabula"

type source struct {
	log *zap.Logger
}

// New creates a tabula-backed DocumentSource.
func New(_ *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error) {
	return &source{log: log.Named("pdfsource.tabula")}, nil
}

func (s *source) Open(_ context.Context, path string) (port.PageReader, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "open", err)
	}
	n, err := r.PageCount()
	if err != nil {
		_ = r.Close()
		return nil, pdfsource.NewEngineError(EngineName, "page count", err)
	}
	return &pageReader{r: r, pages: n, log: s.log}, nil
}

// pageReader serializes access to the underlying reader, which caches
// resolved objects without locking.
type pageReader struct {
	mu    sync.Mutex
	r     *reader.Reader
	pages int
	log   *zap.Logger
}

func (p *pageReader) PageCount() int { return p.pages }

func (p *pageReader) ReadPage(ctx context.Context, index int) (*domain.RawPage, error) {
	if index < 0 || index >= p.pages {
		return nil, fmt.Errorf("%w: %d of %d", domain.ErrPageOutOfRange, index, p.pages)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	page, err := p.r.GetPage(index)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "get page", err)
	}
	frags, err := p.r.ExtractTextFragments(page)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "extract text", err)
	}

	// Pages() is 1-based.
	text, warnings, err := tabulapdf.FromReader(p.r).Pages(index + 1).Text()
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "page text", err)
	}
	if len(warnings) > 0 {
		p.log.Debug("text extraction warnings", zap.Int("page", index), zap.Int("count", len(warnings)))
	}

	width, _ := page.Width()
	height, _ := page.Height()
	layout := model.NewPage(width, height)
	positioned := make([]pdfsource.Fragment, 0, len(frags))
	for _, f := range frags {
		layout.RawText = append(layout.RawText, model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
		positioned = append(positioned, pdfsource.Fragment{Text: f.Text, X: f.X, Y: f.Y, Width: f.Width})
	}

	detected, err := tables.NewGeometricDetector().Detect(layout)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "detect tables", err)
	}

	grids := make([]domain.Table, 0, len(detected))
	for _, t := range detected {
		grid := make(domain.Table, 0, len(t.Rows))
		for _, row := range t.Rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, c.Text)
			}
			grid = append(grid, cells)
		}
		grids = append(grids, grid)
	}
	if len(grids) == 0 && len(positioned) > 0 {
		p.log.Debug("no tables detected, rebuilding grid from text", zap.Int("page", index))
		grids = append(grids, pdfsource.GroupRows(positioned))
	}

	return &domain.RawPage{Index: index, Text: text, Tables: grids}, nil
}

func (p *pageReader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Close()
}
