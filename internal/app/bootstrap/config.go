package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the certification service.
// It merges file defaults and environment overrides to support both local and
// deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	JWTSecret  string
	HMACSecret string
	BcryptCost int
	TokenTTL   time.Duration

	ClassifierAPIURL  string
	ClassifierToken   string
	ClassifierTimeout time.Duration

	ResendAPIKey string
	SenderEmail  string
	FrontendURL  string

	KafkaBrokers []string

	MaxActiveAPIKeys    int
	VerificationRetries int
	QueueLimit          int
	ListLimit           int

	VerifyCacheTTL     time.Duration
	RateLimitPerWindow int
	RateLimitWindow    time.Duration

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Classifier struct {
		APIURL string `yaml:"api_url"`
	} `yaml:"classifier"`
	Notifications struct {
		SenderEmail string `yaml:"sender_email"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"notifications"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "M47-Content-Certification-Service",
		HTTPPort:            8080,
		GRPCPort:            9090,
		BcryptCost:          12,
		TokenTTL:            24 * time.Hour,
		ClassifierTimeout:   12 * time.Second,
		SenderEmail:         "certify@trustink.io",
		FrontendURL:         "http://localhost:3000",
		MaxActiveAPIKeys:    10,
		VerificationRetries: 5,
		QueueLimit:          100,
		ListLimit:           200,
		VerifyCacheTTL:      5 * time.Minute,
		RateLimitPerWindow:  60,
		RateLimitWindow:     time.Minute,
		MaxDBConns:          20,
		OutboxPollInterval:  2 * time.Second,
		OutboxBatchSize:     100,
		OutboxClaimTTL:      30 * time.Second,
		OutboxMaxRetries:    5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Classifier.APIURL != "" {
			cfg.ClassifierAPIURL = f.Classifier.APIURL
		}
		if f.Notifications.SenderEmail != "" {
			cfg.SenderEmail = f.Notifications.SenderEmail
		}
		if f.Notifications.FrontendURL != "" {
			cfg.FrontendURL = f.Notifications.FrontendURL
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.HMACSecret = envOrDefault("HMAC_SECRET", cfg.HMACSecret)
	cfg.ClassifierAPIURL = envOrDefault("HF_API_URL", cfg.ClassifierAPIURL)
	cfg.ClassifierToken = envOrDefault("HF_API_TOKEN", cfg.ClassifierToken)
	cfg.ResendAPIKey = envOrDefault("RESEND_API_KEY", cfg.ResendAPIKey)
	cfg.SenderEmail = envOrDefault("SENDER_EMAIL", cfg.SenderEmail)
	cfg.FrontendURL = strings.TrimRight(envOrDefault("FRONTEND_URL", cfg.FrontendURL), "/")
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.MaxActiveAPIKeys = envInt("MAX_ACTIVE_API_KEYS", cfg.MaxActiveAPIKeys)
	cfg.RateLimitPerWindow = envInt("API_KEY_RATE_LIMIT", cfg.RateLimitPerWindow)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.ClassifierTimeout = time.Duration(envInt("CLASSIFIER_TIMEOUT_SECONDS", int(cfg.ClassifierTimeout.Seconds()))) * time.Second
	cfg.VerifyCacheTTL = time.Duration(envInt("VERIFY_CACHE_TTL_SECONDS", int(cfg.VerifyCacheTTL.Seconds()))) * time.Second
	cfg.RateLimitWindow = time.Duration(envInt("API_KEY_RATE_WINDOW_SECONDS", int(cfg.RateLimitWindow.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.HMACSecret == "" {
		return Config{}, fmt.Errorf("missing HMAC_SECRET")
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
