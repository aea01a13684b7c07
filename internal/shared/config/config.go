package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"xtra/internal/shared/telemetry"
)

const (
	defaultLogConf        = "log_conf.yaml"
	defaultMaxUploadBytes = 64 << 20
	defaultExtractTimeout = 2 * time.Minute
	defaultShutdown       = 10 * time.Second
	defaultOCRDPI         = 300
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// LogConfigPath points at the YAML log configuration. LogConfigRequired
	// is set when the path came from XTRA_LOG_CONF rather than the default.
	LogConfigPath     string
	LogConfigRequired bool

	MaxUploadBytes  int64
	ExtractTimeout  time.Duration
	ShutdownTimeout time.Duration

	OCRLanguages []string
	OCRDPI       float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	logConf, explicit := os.LookupEnv("XTRA_LOG_CONF")
	if strings.TrimSpace(logConf) == "" {
		logConf, explicit = defaultLogConf, false
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "")),
		LogConfigPath:     logConf,
		LogConfigRequired: explicit,
		MaxUploadBytes:    getInt64("XTRA_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		ExtractTimeout:    getDuration("XTRA_EXTRACT_TIMEOUT", defaultExtractTimeout),
		ShutdownTimeout:   getDuration("XTRA_SHUTDOWN_TIMEOUT", defaultShutdown),
		OCRLanguages:      splitAndTrim(getEnv("XTRA_OCR_LANGUAGES", "eng")),
		OCRDPI:            getFloat("XTRA_OCR_DPI", defaultOCRDPI),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		telemetry.Warn("config: invalid integer, using default", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		telemetry.Warn("config: invalid number, using default", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
}

// getDuration accepts Go duration strings ("90s") or plain seconds ("90").
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config: invalid duration, using default", map[string]any{"key": key, "value": raw, "default": def.String()})
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}
