package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/plangest/internal/plan"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Output
	OutputDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL          time.Duration
	DocumentTimeout time.Duration

	// PDF
	PDFFallbackPdftotext bool
	PDFMaxPages          int

	// Extraction
	PlanSplit     string
	LayoutProfile string
	Strict        bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PLANGEST_API_KEY"),

		OutputDir: envOr("PLANGEST_OUTPUT_DIR", "data/planes"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),
		DocumentTimeout: envDuration("DOCUMENT_TIMEOUT", 2*time.Minute),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		PDFMaxPages:          envInt("PDF_MAX_PAGES", 200),

		PlanSplit:     os.Getenv("PLAN_SPLIT"),
		LayoutProfile: os.Getenv("PLAN_LAYOUT_PROFILE"),
		Strict:        envBool("PLAN_STRICT", false),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.DocumentTimeout <= 0 {
		cfg.DocumentTimeout = 2 * time.Minute
	}
	if cfg.PDFMaxPages < 0 {
		cfg.PDFMaxPages = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PLANGEST_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("PLANGEST_OUTPUT_DIR must not be empty")
	}
	if _, err := ParseSplit(c.PlanSplit); err != nil {
		return fmt.Errorf("PLAN_SPLIT: %w", err)
	}
	return nil
}

// PlanOptions builds the extraction options from the split map, the layout
// profile and the strict flag.
func (c Config) PlanOptions() (plan.Options, error) {
	split, err := ParseSplit(c.PlanSplit)
	if err != nil {
		return plan.Options{}, fmt.Errorf("PLAN_SPLIT: %w", err)
	}
	layout, err := LoadLayout(c.LayoutProfile)
	if err != nil {
		return plan.Options{}, fmt.Errorf("PLAN_LAYOUT_PROFILE: %w", err)
	}
	return plan.Options{Layout: layout, FirstHalf: split, Strict: c.Strict}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
