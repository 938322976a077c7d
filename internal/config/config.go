package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://snapsai.blob.core.windows.net/output/previews/"

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port          int
	LogLevel      string
	Blob          BlobConfig
	WebhookURL    string
	UploadTimeout time.Duration
	StopOnError   bool
	MaxBodyBytes  int64
	AllowOrigins  []string
	RateLimit     RateLimitConfig
	JWTSecret     string
	JWTAccessTTL  time.Duration
}

// BlobConfig aponta o container padrão. O token SAS nunca tem valor embutido.
type BlobConfig struct {
	BaseURL  string
	SASToken string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// AuthEnabled indica se o endpoint de execução exige bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("LOG_LEVEL deve ser debug, info, warn ou error")
	}

	cfg.Blob.BaseURL = strings.TrimSpace(getEnv("BLOB_BASE_URL", defaultBaseURL))
	if cfg.Blob.BaseURL == "" {
		cfg.Blob.BaseURL = defaultBaseURL
	}
	cfg.Blob.SASToken = strings.TrimSpace(getEnv("BLOB_SAS_TOKEN", ""))

	cfg.WebhookURL = strings.TrimSpace(getEnv("WEBHOOK_URL", ""))

	timeout, err := parseDurationEnv("UPLOAD_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.UploadTimeout = timeout

	stop, err := parseBoolEnv("STOP_ON_ERROR", false)
	if err != nil {
		return nil, err
	}
	cfg.StopOnError = stop

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "67108864"), 10, 64)
	if err != nil || maxBody <= 0 {
		return nil, errors.New("MAX_BODY_BYTES inválido")
	}
	cfg.MaxBodyBytes = maxBody

	cfg.AllowOrigins = nil
	for _, origin := range strings.Split(getEnv("ALLOW_ORIGINS", ""), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("RATE_LIMIT_RPS inválido")
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, errors.New("RATE_LIMIT_BURST inválido")
	}
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil || dur <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
