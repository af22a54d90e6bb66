package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"orderscan/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	Source   SourceConfig
	Pipeline PipelineConfig
	Report   ReportConfig
	S3       S3Config
	Email    EmailConfig
	Inbox    InboxConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SourceConfig selects the document engines, tried in order.
type SourceConfig struct {
	Engines   []string `mapstructure:"engines"`
	Preflight bool     `mapstructure:"preflight"`
}

// PipelineConfig tunes page parsing and the anomaly rule.
type PipelineConfig struct {
	HeaderTokens     int           `mapstructure:"header_tokens"`
	AnomalyThreshold int           `mapstructure:"anomaly_threshold"`
	PageTimeout      time.Duration `mapstructure:"page_timeout"`
	Concurrency      int           `mapstructure:"concurrency"`
}

// ReportConfig controls where reports and exports are written.
type ReportConfig struct {
	Path     string            `mapstructure:"path"`
	Sink     domain.ReportSink `mapstructure:"sink"`
	CSVPath  string            `mapstructure:"csv_path"`
	XLSXPath string            `mapstructure:"xlsx_path"`
}

// S3Config holds AWS S3 settings for report upload.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds anomaly notification settings.
type EmailConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// InboxConfig holds settings for the directory watcher.
type InboxConfig struct {
	Dir          string        `mapstructure:"dir"`
	ProcessedDir string        `mapstructure:"processed_dir"`
	FailedDir    string        `mapstructure:"failed_dir"`
	Schedule     string        `mapstructure:"schedule"`
	Concurrency  int           `mapstructure:"concurrency"`
	FileTimeout  time.Duration `mapstructure:"file_timeout"`
}

// Load reads configuration from environment variables with the ORDERSCAN_
// prefix. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ORDERSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "orderscan")
	v.SetDefault("db.password", "orderscan_secret")
	v.SetDefault("db.name", "orderscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Source defaults
	v.SetDefault("source.engines", "tabula,ledongthuc")
	v.SetDefault("source.preflight", true)

	// Pipeline defaults
	v.SetDefault("pipeline.header_tokens", 4)
	v.SetDefault("pipeline.anomaly_threshold", 10)
	v.SetDefault("pipeline.page_timeout", "30s")
	v.SetDefault("pipeline.concurrency", 1)

	// Report defaults
	v.SetDefault("report.path", "large_purchase.txt")
	v.SetDefault("report.sink", string(domain.ReportSinkFile))
	v.SetDefault("report.csv_path", "")
	v.SetDefault("report.xlsx_path", "")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "orderscan-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "reports")
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@orderscan.local")
	v.SetDefault("email.from_name", "Order Scan")
	v.SetDefault("email.recipients", "")

	// Inbox defaults
	v.SetDefault("inbox.dir", "inbox")
	v.SetDefault("inbox.processed_dir", "inbox/processed")
	v.SetDefault("inbox.failed_dir", "inbox/failed")
	v.SetDefault("inbox.schedule", "@every 30s")
	v.SetDefault("inbox.concurrency", 2)
	v.SetDefault("inbox.file_timeout", "5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "ORDERSCAN_SERVER_PORT",
		"server.read_timeout":        "ORDERSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "ORDERSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":         "ORDERSCAN_SERVER_ENVIRONMENT",
		"server.max_upload_mb":       "ORDERSCAN_SERVER_MAX_UPLOAD_MB",
		"server.cors_origins":        "ORDERSCAN_SERVER_CORS_ORIGINS",
		"db.enabled":                 "ORDERSCAN_DB_ENABLED",
		"db.host":                    "ORDERSCAN_DB_HOST",
		"db.port":                    "ORDERSCAN_DB_PORT",
		"db.user":                    "ORDERSCAN_DB_USER",
		"db.password":                "ORDERSCAN_DB_PASSWORD",
		"db.name":                    "ORDERSCAN_DB_NAME",
		"db.sslmode":                 "ORDERSCAN_DB_SSLMODE",
		"db.max_open":                "ORDERSCAN_DB_MAX_OPEN",
		"db.max_idle":                "ORDERSCAN_DB_MAX_IDLE",
		"log.level":                  "ORDERSCAN_LOG_LEVEL",
		"log.format":                 "ORDERSCAN_LOG_FORMAT",
		"source.engines":             "ORDERSCAN_SOURCE_ENGINES",
		"source.preflight":           "ORDERSCAN_SOURCE_PREFLIGHT",
		"pipeline.header_tokens":     "ORDERSCAN_PIPELINE_HEADER_TOKENS",
		"pipeline.anomaly_threshold": "ORDERSCAN_PIPELINE_ANOMALY_THRESHOLD",
		"pipeline.page_timeout":      "ORDERSCAN_PIPELINE_PAGE_TIMEOUT",
		"pipeline.concurrency":       "ORDERSCAN_PIPELINE_CONCURRENCY",
		"report.path":                "ORDERSCAN_REPORT_PATH",
		"report.sink":                "ORDERSCAN_REPORT_SINK",
		"report.csv_path":            "ORDERSCAN_REPORT_CSV_PATH",
		"report.xlsx_path":           "ORDERSCAN_REPORT_XLSX_PATH",
		"s3.region":                  "ORDERSCAN_S3_REGION",
		"s3.bucket":                  "ORDERSCAN_S3_BUCKET",
		"s3.endpoint":                "ORDERSCAN_S3_ENDPOINT",
		"s3.access_key":              "ORDERSCAN_S3_ACCESS_KEY",
		"s3.secret_key":              "ORDERSCAN_S3_SECRET_KEY",
		"s3.prefix":                  "ORDERSCAN_S3_PREFIX",
		"s3.presign_expiry":          "ORDERSCAN_S3_PRESIGN_EXPIRY",
		"email.provider":             "ORDERSCAN_EMAIL_PROVIDER",
		"email.region":               "ORDERSCAN_EMAIL_REGION",
		"email.from_address":         "ORDERSCAN_EMAIL_FROM_ADDRESS",
		"email.from_name":            "ORDERSCAN_EMAIL_FROM_NAME",
		"email.recipients":           "ORDERSCAN_EMAIL_RECIPIENTS",
		"inbox.dir":                  "ORDERSCAN_INBOX_DIR",
		"inbox.processed_dir":        "ORDERSCAN_INBOX_PROCESSED_DIR",
		"inbox.failed_dir":           "ORDERSCAN_INBOX_FAILED_DIR",
		"inbox.schedule":             "ORDERSCAN_INBOX_SCHEDULE",
		"inbox.concurrency":          "ORDERSCAN_INBOX_CONCURRENCY",
		"inbox.file_timeout":         "ORDERSCAN_INBOX_FILE_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless ORDERSCAN_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ORDERSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
		CORSOrigins:  splitList(v.GetString("server.cors_origins")),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Source = SourceConfig{
		Engines:   splitList(v.GetString("source.engines")),
		Preflight: v.GetBool("source.preflight"),
	}
	cfg.Pipeline = PipelineConfig{
		HeaderTokens:     v.GetInt("pipeline.header_tokens"),
		AnomalyThreshold: v.GetInt("pipeline.anomaly_threshold"),
		PageTimeout:      v.GetDuration("pipeline.page_timeout"),
		Concurrency:      v.GetInt("pipeline.concurrency"),
	}
	cfg.Report = ReportConfig{
		Path:     v.GetString("report.path"),
		Sink:     domain.ReportSink(strings.ToLower(v.GetString("report.sink"))),
		CSVPath:  v.GetString("report.csv_path"),
		XLSXPath: v.GetString("report.xlsx_path"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        v.GetString("s3.prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Recipients:  splitList(v.GetString("email.recipients")),
	}
	cfg.Inbox = InboxConfig{
		Dir:          v.GetString("inbox.dir"),
		ProcessedDir: v.GetString("inbox.processed_dir"),
		FailedDir:    v.GetString("inbox.failed_dir"),
		Schedule:     v.GetString("inbox.schedule"),
		Concurrency:  v.GetInt("inbox.concurrency"),
		FileTimeout:  v.GetDuration("inbox.file_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case len(c.Source.Engines) == 0:
		return errors.New("config: source.engines must name at least one engine")
	case c.Pipeline.HeaderTokens < 0:
		return fmt.Errorf("config: pipeline.header_tokens must be >= 0, got %d", c.Pipeline.HeaderTokens)
	case c.Pipeline.AnomalyThreshold <= 0:
		return fmt.Errorf("config: pipeline.anomaly_threshold must be > 0, got %d", c.Pipeline.AnomalyThreshold)
	case c.Pipeline.PageTimeout <= 0:
		return fmt.Errorf("config: pipeline.page_timeout must be positive, got %s", c.Pipeline.PageTimeout)
	case c.Pipeline.Concurrency < 1:
		return fmt.Errorf("config: pipeline.concurrency must be >= 1, got %d", c.Pipeline.Concurrency)
	case !c.Report.Sink.Valid():
		return fmt.Errorf("config: unknown report.sink %q", c.Report.Sink)
	case c.Report.Sink.ToFile() && c.Report.Path == "":
		return errors.New("config: report.path is required for file sink")
	}
	return nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
