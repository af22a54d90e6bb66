// Package email composes anomaly notifications. Delivery lives in the ses and
// noop subpackages.
package email

import (
	"fmt"
	"html"
	"strings"

	"orderscan/internal/port"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// ComposeAnomalyMessage renders the notice as plain text and HTML. The grid
// report is embedded verbatim in a <pre> block.
func ComposeAnomalyMessage(n port.AnomalyNotice) Message {
	subject := fmt.Sprintf("orderscan: %d large direct shipment(s) in %s", n.AnomalyCount, n.SourceName)

	var text strings.Builder
	fmt.Fprintf(&text, "Scan %s of %s flagged %d of %d order record(s).\n", n.ScanID, n.SourceName, n.AnomalyCount, n.RecordCount)
	if n.FailedPages > 0 {
		fmt.Fprintf(&text, "%d page(s) could not be parsed.\n", n.FailedPages)
	}
	if n.ReportURL != "" {
		fmt.Fprintf(&text, "\nDownload the report: %s\n", n.ReportURL)
	}
	if n.Report != "" {
		text.WriteString("\n")
		text.WriteString(n.Report)
	}

	var body strings.Builder
	body.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; margin: 0 auto; padding: 20px;">
`)
	fmt.Fprintf(&body, "  <h2 style=\"color: #333;\">%d large direct shipment(s)</h2>\n", n.AnomalyCount)
	fmt.Fprintf(&body, "  <p>Scan <code>%s</code> of <b>%s</b> flagged %d of %d order record(s).</p>\n",
		html.EscapeString(n.ScanID), html.EscapeString(n.SourceName), n.AnomalyCount, n.RecordCount)
	if n.FailedPages > 0 {
		fmt.Fprintf(&body, "  <p style=\"color: #b45309;\">%d page(s) could not be parsed.</p>\n", n.FailedPages)
	}
	if n.ReportURL != "" {
		fmt.Fprintf(&body, "  <p><a href=\"%s\">Download the report</a></p>\n", html.EscapeString(n.ReportURL))
	}
	if n.Report != "" {
		fmt.Fprintf(&body, "  <pre style=\"font-size: 12px;\">%s</pre>\n", html.EscapeString(n.Report))
	}
	body.WriteString("</body>\n</html>")

	return Message{Subject: subject, Text: text.String(), HTML: body.String()}
}
