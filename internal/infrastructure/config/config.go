package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	UploadDir string `env:"UPLOAD_DIR, default=uploads"`

	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Gateway  GatewayConfig
	Security SecurityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gharfindr"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=GharFindr <no-reply@gharfindr.com>"`
	ResetURL string `env:"RESET_URL, default=https://localhost:5173/reset-password"`
	Workers  int    `env:"SMTP_WORKERS, default=4"`
}

type GatewayConfig struct {
	MerchantCode string `env:"ESEWA_MERCHANT_CODE, default=EPAYTEST"`
	SecretKey    string `env:"ESEWA_SECRET_KEY"`
	CheckoutURL  string `env:"ESEWA_CHECKOUT_URL, default=https://rc-epay.esewa.com.np/api/epay/main/v2/form"`
	ReturnURL    string `env:"ESEWA_RETURN_URL,   default=https://localhost:8080/payments/verify"`
}

// SecurityConfig exposes the account-security policy as configuration; the
// lock values are policy, not constants.
type SecurityConfig struct {
	MaxFailedAttempts int64         `env:"MAX_FAILED_ATTEMPTS, default=5"`
	LockDuration      time.Duration `env:"LOCK_DURATION,       default=20s"`
	CodeTTL           time.Duration `env:"CODE_TTL,            default=10m"`
	ResetTokenTTL     time.Duration `env:"RESET_TOKEN_TTL,     default=15m"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=1h"`
	SessionTTL        time.Duration `env:"SESSION_TTL,         default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
