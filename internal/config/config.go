package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the booking backend.
type Config struct {
	Addr           string        `env:"ADDR,default=:8080"`
	DBDSN          string        `env:"DB_DSN,required"`
	JWTSigningKey  string        `env:"JWT_SIGNING_KEY,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=12h"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL,required"`
	SMTPHost       string        `env:"SMTP_HOST"`
	SMTPPort       int           `env:"SMTP_PORT,default=587"`
	SMTPUser       string        `env:"SMTP_USER"`
	SMTPPassword   string        `env:"SMTP_PASS"`
	SMTPFrom       string        `env:"SMTP_FROM"`
	OTLPEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`

	// Optional bootstrap admin created at startup when both values are set.
	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
