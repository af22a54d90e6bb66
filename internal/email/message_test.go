package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orderscan/internal/email"
	"orderscan/internal/port"
)

func TestComposeAnomalyMessage(t *testing.T) {
	msg := email.ComposeAnomalyMessage(port.AnomalyNotice{
		ScanID:       "3f1c",
		SourceName:   "march.pdf",
		AnomalyCount: 2,
		RecordCount:  40,
		FailedPages:  1,
		Report:       "| <b>Tel#</b> |",
		ReportURL:    "https://example.com/r?a=1&b=2",
	})

	assert.Equal(t, "orderscan: 2 large direct shipment(s) in march.pdf", msg.Subject)
	assert.Contains(t, msg.Text, "flagged 2 of 40")
	assert.Contains(t, msg.Text, "1 page(s) could not be parsed")
	assert.Contains(t, msg.Text, "| <b>Tel#</b> |")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Tel#&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "a=1&amp;b=2")
}

func TestComposeAnomalyMessage_Minimal(t *testing.T) {
	msg := email.ComposeAnomalyMessage(port.AnomalyNotice{SourceName: "x.pdf", AnomalyCount: 1, RecordCount: 1})

	assert.NotContains(t, msg.Text, "could not be parsed")
	assert.NotContains(t, msg.Text, "Download")
	assert.NotContains(t, msg.HTML, "<pre")
}
