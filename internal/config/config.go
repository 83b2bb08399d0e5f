package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Client is the SDK-side configuration. Defaults mirror what the mobile
// app shipped with.
type Client struct {
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout        time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	RetryAttempts  int           `env:"API_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"API_RETRY_BASE_DELAY" envDefault:"1s"`
	CredentialsDSN string        `env:"CREDENTIALS_DB" envDefault:"kaambuddy.db"`
}

// Server configures the local development backend.
type Server struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"dev"`
	Addr              string        `env:"API_ADDR" envDefault:":3000"`
	DatabaseDSN       string        `env:"DATABASE_URL" envDefault:"kaambuddy_server.db"`
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL            time.Duration `env:"JWT_TTL" envDefault:"24h"`
	OTPTTL            time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"60s"`
	LogOTP            bool          `env:"LOG_OTP" envDefault:"true"`
}

func LoadClient() (Client, error) {
	var c Client
	err := env.Parse(&c)
	return c, err
}

func LoadServer() (Server, error) {
	var c Server
	err := env.Parse(&c)
	return c, err
}
