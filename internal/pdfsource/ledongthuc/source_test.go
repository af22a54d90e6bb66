package ledongthuc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderscan/internal/pdfsource"
	"orderscan/internal/pdfsource/ledongthuc"
)

func TestOpen_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o600))

	src, err := ledongthuc.New(nil, zap.NewNop())
	require.NoError(t, err)

	_, err = src.Open(context.Background(), path)

	var engErr *pdfsource.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, ledongthuc.EngineName, engErr.Engine)
}
