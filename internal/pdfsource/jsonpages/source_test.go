package jsonpages_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderscan/internal/domain"
	"orderscan/internal/pdfsource"
	"orderscan/internal/pdfsource/jsonpages"
)

const wrapped = `{"pages": [
  {"text": "Customer Order #: W1", "tables": [[["Ordered By:", null, "Jane"]]]},
  {"text": "second", "tables": []}
]}`

func TestDecode_Wrapped(t *testing.T) {
	pages, err := jsonpages.Decode([]byte(wrapped))
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "Customer Order #: W1", pages[0].Text)
	assert.Equal(t, domain.Table{{"Ordered By:", "", "Jane"}}, pages[0].Tables[0])
}

func TestDecode_BareArray(t *testing.T) {
	pages, err := jsonpages.Decode([]byte(`[{"text": "only"}]`))
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "only", pages[0].Text)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := jsonpages.Decode([]byte(`{"documents": 1}`))
	assert.Error(t, err)
}

func TestSource_OpenAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	require.NoError(t, os.WriteFile(path, []byte(wrapped), 0o600))

	src, err := jsonpages.New(nil, zap.NewNop())
	require.NoError(t, err)

	r, err := src.Open(context.Background(), path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 2, r.PageCount())
	page, err := r.ReadPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, "second", page.Text)

	_, err = r.ReadPage(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrPageOutOfRange)
}

func TestSource_OpenMissingFile(t *testing.T) {
	src, err := jsonpages.New(nil, zap.NewNop())
	require.NoError(t, err)

	_, err = src.Open(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	var engErr *pdfsource.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, jsonpages.EngineName, engErr.Engine)
}
