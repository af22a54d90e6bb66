package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"orderscan/internal/email/noop"
	"orderscan/internal/port"
)

func TestNoopNotifier_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := noop.NewNoopNotifier(zap.New(core))

	err := n.NotifyAnomalies(context.Background(), port.AnomalyNotice{ScanID: "s1", SourceName: "a.pdf", AnomalyCount: 3})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].ContextMap()["scan_id"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["anomalies"])
}
