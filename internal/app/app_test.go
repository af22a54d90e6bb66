package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderscan/internal/app"
	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/service"
)

// Two pages: a large shipment to a residence and a large shipment to a
// care-of address.
const pageDump = `{"pages": [
  {"index": 0, "text": "Customer Order #: W100\nAddress Type: Residential",
   "tables": [
     [["Ordered By:", "John Smith", "Ship To:", "John Smith 123 Main St\nCA 90001\n555-123-4567"]],
     [["Model Number", "Internet Number", "Item Description", "Qty Shipped"],
      ["12345", "67890", "Widget A", "12"],
      ["Message: thanks", "", "", ""]]
   ]},
  {"index": 1, "text": "Customer Order #: W101\nAddress Type: Commercial",
   "tables": [
     [["Ordered By:", "Ann Lee", "Ship To:", "Ann Lee C/O Dock 4 9 Pier Rd\nCA 90001\n555-987-6543"]],
     [["Model Number", "Internet Number", "Item Description", "Qty Shipped"],
      ["222", "333", "Bolt", "40"],
      ["Message: none", "", "", ""]]
   ]}
]}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{MaxUploadMB: 5},
		Source:   config.SourceConfig{Engines: []string{"jsonpages"}},
		Pipeline: config.PipelineConfig{HeaderTokens: 4, AnomalyThreshold: 10, PageTimeout: 5 * time.Second, Concurrency: 2},
		Report:   config.ReportConfig{Path: filepath.Join(dir, "large_purchase.txt"), Sink: domain.ReportSinkFile},
		Email:    config.EmailConfig{Provider: "noop"},
		Inbox: config.InboxConfig{
			Dir:          filepath.Join(dir, "inbox"),
			ProcessedDir: filepath.Join(dir, "inbox", "processed"),
			FailedDir:    filepath.Join(dir, "inbox", "failed"),
			Schedule:     "@every 1h",
			Concurrency:  1,
			FileTimeout:  5 * time.Second,
		},
	}
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_ScanAndDeliver(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	a := newApp(t, cfg)

	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(pageDump), 0o600))

	scan, err := a.Scans.Scan(context.Background(), service.ScanInput{Path: path})
	require.NoError(t, err)
	require.Len(t, scan.Records, 2)
	require.Len(t, scan.Anomalies, 1)
	assert.Equal(t, "W100", scan.Anomalies[0].CustomerOrder)

	out, err := a.Reports.Deliver(context.Background(), scan)
	require.NoError(t, err)
	assert.Equal(t, cfg.Report.Path, out.FilePath)

	report, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(report), "W100")
	assert.NotContains(t, string(report), "W101")

	stored, err := a.Repo.GetByID(context.Background(), scan.ID)
	require.NoError(t, err)
	assert.Equal(t, scan.ID, stored.ID)
}

func TestApp_HTTPUploadFetchAndReport(t *testing.T) {
	dir := t.TempDir()
	r := newApp(t, testConfig(dir)).Router()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "orders.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(pageDump))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/scans", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			Scan domain.ScanResult `json:"scan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, created.Success)
	id := created.Data.Scan.ID.String()
	assert.Len(t, created.Data.Scan.Anomalies, 1)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/scans/"+id, http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/scans/"+id+"/report", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "John Smith")
	assert.NotContains(t, w.Body.String(), "Ann Lee")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/scans?limit=5", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestApp_InboxWorker(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	a := newApp(t, cfg)
	worker := a.InboxWorker()

	require.NoError(t, os.MkdirAll(cfg.Inbox.Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Inbox.Dir, "batch.json"), []byte(pageDump), 0o600))

	n, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	worker.Wait()

	_, err = os.Stat(filepath.Join(cfg.Inbox.ProcessedDir, "batch.json"))
	assert.NoError(t, err)
	_, err = os.Stat(cfg.Report.Path)
	assert.NoError(t, err)
}

func TestNew_UnknownEngine(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Source.Engines = []string{"ocr"}

	_, err := app.New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrUnknownEngine)
}

func TestNew_UnknownEmailProvider(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Email.Provider = "carrier-pigeon"

	_, err := app.New(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "carrier-pigeon")
}
