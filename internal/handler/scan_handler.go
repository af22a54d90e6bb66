package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderscan/internal/config"
	"orderscan/internal/domain"
	"orderscan/internal/export"
	"orderscan/internal/middleware"
	"orderscan/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ScanHandler handles document scan endpoints.
type ScanHandler struct {
	scans   service.ScanService
	reports service.ReportService
	maxSize int64
	now     func() time.Time
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans service.ScanService, reports service.ReportService, cfg *config.ServerConfig) *ScanHandler {
	return &ScanHandler{
		scans:   scans,
		reports: reports,
		maxSize: cfg.MaxUploadMB * 1024 * 1024,
		now:     time.Now,
	}
}

// uploadResponse is the body of a successful upload.
type uploadResponse struct {
	Scan   *domain.ScanResult     `json:"scan"`
	Report *service.ReportOutcome `json:"report,omitempty"`
}

// Upload handles POST /api/v1/scans
// @Summary Scan a purchase-order document
// @Description Upload a PDF (or a pre-extracted JSON page dump) and extract its order records
// @Tags scans
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to scan (PDF or JSON)"
// @Param deliver formData bool false "Deliver the anomaly report to the configured sinks"
// @Success 201 {object} APIResponse "Scan completed"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Document unreadable"
// @Router /scans [post]
func (h *ScanHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		HandleError(c, domain.ErrUnsupportedFileType)
		return
	}
	if h.maxSize > 0 && header.Size > h.maxSize {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	// Engines open documents by path, so the upload is spooled to disk with
	// its extension intact.
	tmpPath, err := spool(file, ext)
	if err != nil {
		HandleError(c, fmt.Errorf("spooling upload: %w", err))
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	log := middleware.LoggerFrom(c)
	scan, err := h.scans.Scan(c.Request.Context(), service.ScanInput{
		Path:       tmpPath,
		SourceName: filepath.Base(header.Filename),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := uploadResponse{Scan: scan}
	if deliver, _ := strconv.ParseBool(c.PostForm("deliver")); deliver {
		outcome, err := h.reports.Deliver(c.Request.Context(), scan)
		if err != nil {
			HandleError(c, err)
			return
		}
		resp.Report = outcome
	}

	log.Info("scan uploaded",
		zap.Stringer("scan_id", scan.ID),
		zap.String("source", scan.SourceName),
		zap.Int("records", len(scan.Records)),
		zap.Int("anomalies", len(scan.Anomalies)),
	)
	RespondCreated(c, resp)
}

// List handles GET /api/v1/scans
// @Summary List scans
// @Tags scans
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse "List of scan summaries"
// @Router /scans [get]
func (h *ScanHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	scans, total, err := h.scans.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, scans, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/scans/:id
// @Summary Get a scan
// @Tags scans
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} APIResponse "Scan result"
// @Failure 404 {object} APIResponse "Scan not found"
// @Router /scans/{id} [get]
func (h *ScanHandler) Get(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	RespondOK(c, scan)
}

// Records handles GET /api/v1/scans/:id/records and pages through the full
// record table.
func (h *ScanHandler) Records(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)
	RespondPaginated(c, pageOf(scan.Records, offset, limit),
		PagMeta{Total: len(scan.Records), Offset: offset, Limit: limit})
}

// Anomalies handles GET /api/v1/scans/:id/anomalies
func (h *ScanHandler) Anomalies(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	RespondOK(c, scan.Anomalies)
}

// Report handles GET /api/v1/scans/:id/report
// @Summary Download the anomaly report
// @Description Returns the grid report of the scan's anomalies as a text attachment
// @Tags scans
// @Produce plain
// @Param id path string true "Scan ID"
// @Success 200 {file} file "Anomaly report"
// @Failure 404 {object} APIResponse "Scan not found"
// @Router /scans/{id}/report [get]
func (h *ScanHandler) Report(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	report, err := h.reports.Render(scan)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.attachment(c, scan, "txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// ExportCSV handles GET /api/v1/scans/:id/export.csv
func (h *ScanHandler) ExportCSV(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, scan.Records, true); err != nil {
		HandleError(c, err)
		return
	}

	h.attachment(c, scan, "csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/scans/:id/export.xlsx
func (h *ScanHandler) ExportXLSX(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, scan.Records, scan.Anomalies); err != nil {
		HandleError(c, err)
		return
	}

	h.attachment(c, scan, "xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// loadScan parses the :id param and fetches the scan. Returns false if an
// error response was already written.
func (h *ScanHandler) loadScan(c *gin.Context) (*domain.ScanResult, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid scan ID")
		return nil, false
	}

	scan, err := h.scans.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return scan, true
}

func (h *ScanHandler) attachment(c *gin.Context, scan *domain.ScanResult, ext string) {
	name := export.BuildFilename(scan.SourceName, ext, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

func spool(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "orderscan-upload-*."+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func pageOf(records []domain.OrderRecord, offset, limit int) []domain.OrderRecord {
	if offset >= len(records) {
		return []domain.OrderRecord{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
