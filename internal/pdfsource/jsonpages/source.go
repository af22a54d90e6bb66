// Package jsonpages serves pages that were extracted ahead of time and saved
// as JSON, either as {"pages": [...]} or as a bare array of pages. Null
// cells decode to empty strings.
package jsonpages

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/pdfsource"
	"orderscan/internal/port"
)

// EngineName is the registry name of this engine.
const EngineName = "jsonpages"

type document struct {
	Pages []domain.RawPage `json:"pages"`
}

type source struct {
	log *zap.Logger
}

// New creates a DocumentSource for JSON page dumps.
func New(_ *config.SourceConfig, log *zap.Logger) (port.DocumentSource, error) {
	return &source{log: log.Named("pdfsource.jsonpages")}, nil
}

func (s *source) Open(_ context.Context, path string) (port.PageReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "open", err)
	}
	pages, err := Decode(data)
	if err != nil {
		return nil, pdfsource.NewEngineError(EngineName, "decode", err)
	}
	s.log.Debug("pages loaded", zap.String("path", path), zap.Int("pages", len(pages)))
	return NewReader(pages), nil
}

// Decode parses either supported layout.
func Decode(data []byte) ([]domain.RawPage, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Pages != nil {
		return doc.Pages, nil
	}
	var pages []domain.RawPage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("expected {\"pages\": [...]} or a page array: %w", err)
	}
	return pages, nil
}

// Reader is an in-memory port.PageReader.
type Reader struct {
	pages []domain.RawPage
}

// NewReader wraps already extracted pages.
func NewReader(pages []domain.RawPage) *Reader {
	return &Reader{pages: pages}
}

func (r *Reader) PageCount() int { return len(r.pages) }

func (r *Reader) ReadPage(ctx context.Context, index int) (*domain.RawPage, error) {
	if index < 0 || index >= len(r.pages) {
		return nil, fmt.Errorf("%w: %d of %d", domain.ErrPageOutOfRange, index, len(r.pages))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page := r.pages[index]
	page.Index = index
	return &page, nil
}

func (r *Reader) Close() error { return nil }
