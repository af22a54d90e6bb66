package pdfsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"orderscan/internal/domain"
	"orderscan/internal/port"
)

// Inspect validates a PDF with pdfcpu and returns its page count.
func Inspect(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, NewEngineError("pdfcpu", "validate", err)
	}
	return pdfCtx.PageCount, nil
}

// PreflightSource rejects PDFs that pdfcpu cannot validate before handing
// them to the wrapped source. Non-PDF paths pass straight through.
type PreflightSource struct {
	next port.DocumentSource
	log  *zap.Logger
}

// NewPreflightSource wraps next with a pdfcpu validation step.
func NewPreflightSource(next port.DocumentSource, log *zap.Logger) *PreflightSource {
	return &PreflightSource{next: next, log: log.Named("pdfsource.preflight")}
}

func (p *PreflightSource) Open(ctx context.Context, path string) (port.PageReader, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return p.next.Open(ctx, path)
	}

	pages, err := Inspect(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentUnreadable, err)
	}

	r, err := p.next.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if r.PageCount() != pages {
		p.log.Warn("engine page count differs from pdfcpu",
			zap.String("path", path), zap.Int("engine_pages", r.PageCount()), zap.Int("pdfcpu_pages", pages))
	}
	return r, nil
}
