package pdfsource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orderscan/internal/domain"
	"orderscan/internal/port"
)

// FallbackSource tries engines in order and returns the first reader that
// opens with at least one page. It implements port.DocumentSource.
type FallbackSource struct {
	sources []port.DocumentSource
	names   []string
	log     *zap.Logger
}

// NewFallbackSource creates a FallbackSource from an ordered list of sources
// and their names.
func NewFallbackSource(sources []port.DocumentSource, names []string, log *zap.Logger) *FallbackSource {
	return &FallbackSource{
		sources: sources,
		names:   names,
		log:     log.Named("pdfsource.fallback"),
	}
}

func (f *FallbackSource) Open(ctx context.Context, path string) (port.PageReader, error) {
	var lastErr error
	for i, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := src.Open(ctx, path)
		if err != nil {
			f.log.Warn("engine failed to open document",
				zap.String("engine", f.names[i]), zap.String("path", path), zap.Error(err))
			lastErr = err
			continue
		}
		if r.PageCount() == 0 {
			_ = r.Close()
			f.log.Warn("engine found no pages", zap.String("engine", f.names[i]), zap.String("path", path))
			lastErr = NewEngineError(f.names[i], "open", fmt.Errorf("no pages"))
			continue
		}

		f.log.Debug("document opened", zap.String("engine", f.names[i]), zap.Int("pages", r.PageCount()))
		return r, nil
	}
	return nil, fmt.Errorf("%w: all engines failed: %w", domain.ErrDocumentUnreadable, lastErr)
}
