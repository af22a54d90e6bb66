package pdfsource

import (
	"fmt"

	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/port"
)

// EngineFactory creates a DocumentSource from the source config.
type EngineFactory func(cfg *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error)

// registry of engine factories, populated explicitly via RegisterEngine.
var engines = map[string]EngineFactory{}

// RegisterEngine registers an engine factory by name.
func RegisterEngine(name string, factory EngineFactory) {
	engines[name] = factory
}

// NewEngine creates the named engine using its registered factory.
func NewEngine(name string, cfg *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error) {
	factory, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEngine, name)
	}
	return factory(cfg, log)
}

// NewFromConfig builds the configured engines in order. A single engine is
// returned as is; several are wrapped in a FallbackSource. With preflight
// enabled, PDFs are checked by pdfcpu before any engine sees them.
func NewFromConfig(cfg *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error) {
	if len(cfg.Engines) == 0 {
		return nil, fmt.Errorf("%w: none configured", domain.ErrUnknownEngine)
	}

	sources := make([]port.DocumentSource, 0, len(cfg.Engines))
	for _, name := range cfg.Engines {
		src, err := NewEngine(name, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("creating engine %s: %w", name, err)
		}
		sources = append(sources, src)
	}

	var src port.DocumentSource
	if len(sources) == 1 {
		src = sources[0]
	} else {
		src = NewFallbackSource(sources, cfg.Engines, log)
	}

	if cfg.Preflight {
		src = NewPreflightSource(src, log)
	}
	return src, nil
}
