package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CESTA"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"cesta.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DemoData bool   `envconfig:"DEMO_DATA" default:"false"`

	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
	CookieSecure    bool          `envconfig:"COOKIE_SECURE" default:"false"`
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, AppEnvDev)
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads CESTA_* variables, after loading envFiles (default ".env")
// when they exist. Variables already set in the environment win over the
// file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.SessionTTL <= 0:
		return fmt.Errorf("%s_SESSION_TTL must be positive", EnvPrefix)
	case c.LoginRateLimit <= 0:
		return fmt.Errorf("%s_LOGIN_RATE_LIMIT must be positive", EnvPrefix)
	case c.LoginRateWindow <= 0:
		return fmt.Errorf("%s_LOGIN_RATE_WINDOW must be positive", EnvPrefix)
	case c.DBPath == "":
		return fmt.Errorf("%s_DB_PATH is required", EnvPrefix)
	}
	return nil
}
