package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config/.env"

type Config struct {
	HTTPPort       int           `env:"CANDOR_HTTP_PORT" env-default:"8080"`
	BackendURL     string        `env:"CANDOR_BACKEND_URL" env-default:"http://localhost:5000"`
	BackendRetries int           `env:"CANDOR_BACKEND_RETRIES" env-default:"3"`
	JWTSecret      string        `env:"CANDOR_JWT_SECRET" env-required:"true"`
	TokenCookie    string        `env:"CANDOR_TOKEN_COOKIE" env-default:"refreshToken"`
	SessionCookie  string        `env:"CANDOR_SESSION_COOKIE" env-default:"candor_session"`
	SessionTTL     time.Duration `env:"CANDOR_SESSION_TTL" env-default:"24h"`
	RedisURL       string        `env:"CANDOR_REDIS_URL"`
	FormsCacheTTL  time.Duration `env:"CANDOR_FORMS_CACHE_TTL" env-default:"1m"`
	SQLitePath     string        `env:"CANDOR_SQLITE_PATH" env-default:"candor.sqlite"`
	AIBaseURL      string        `env:"CANDOR_AI_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	AIAPIKey       string        `env:"CANDOR_AI_API_KEY"`
	AIModel        string        `env:"CANDOR_AI_MODEL" env-default:"openai/gpt-3.5-turbo"`
	AITimeout      time.Duration `env:"CANDOR_AI_TIMEOUT" env-default:"10s"`
	StaticDir      string        `env:"CANDOR_STATIC_DIR"`
	DevFrontendURL string        `env:"CANDOR_DEV_FRONTEND_URL"`
	CORSOrigin     string        `env:"CANDOR_CORS_ORIGIN"`
	SecureCookies  bool          `env:"CANDOR_SECURE_COOKIES" env-default:"false"`
	Commit         string        `env:"CANDOR_COMMIT"`
	Debug          bool          `env:"CANDOR_DEBUG" env-default:"false"`
}

func New() (*Config, error) {
	return Load(defaultPath)
}

// Load reads path and falls back to the process environment when the file
// does not exist.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}
