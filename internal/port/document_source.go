package port

import (
	"context"

	"orderscan/internal/domain"
)

// PageReader gives page-by-page access to an opened document.
type PageReader interface {
	PageCount() int
	// ReadPage returns the page at the zero-based index.
	ReadPage(ctx context.Context, index int) (*domain.RawPage, error)
	Close() error
}

// DocumentSource opens documents for page reading. Implementations wrap a
// PDF engine or a pre-extracted page dump.
type DocumentSource interface {
	Open(ctx context.Context, path string) (PageReader, error)
}
