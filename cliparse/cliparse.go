package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/middleware"
)

type Config struct {
	Port          int           `yaml:"port"`
	DatabaseURL   string        `yaml:"database_url"`
	DatabaseType  string        `yaml:"database_type"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	LogLevel      string        `yaml:"log_level"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	RateLimit     int           `yaml:"rate_limit"`
	RateWindow    time.Duration `yaml:"rate_window"`

	// TrustedProxies lists IPs or CIDR ranges allowed to set
	// X-Forwarded-For. Empty means client IPs come from the connection.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:         3318,
		DatabaseType: "sqlite",
		SessionTTL:   24 * time.Hour,
		LogLevel:     "info",
		RateLimit:    20,
		RateWindow:   time.Minute,
	}
}

// ParseFlags builds the configuration. Precedence, highest first:
// flags, environment (including .env), YAML config file, defaults.
func ParseFlags(args []string) (Config, error) {
	var flags Config
	var configPath, envPath string

	fs := flag.NewFlagSet("polly", flag.ContinueOnError)

	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&flags.RedisAddr, "redis", "", "Redis address for sessions, rate limits and revalidation")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&configPath, "c", "", "Path to a YAML config file")
	fs.StringVar(&envPath, "env", ".env", "Path to a .env file (ignored if missing)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyFlags(&cfg, flags)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("DATABASE_TYPE"); raw != "" {
		cfg.DatabaseType = raw
	}
	if raw := os.Getenv("SESSION_SECRET"); raw != "" {
		cfg.SessionSecret = raw
	}
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return errors.New("invalid SESSION_TTL env variable")
		}
		cfg.SessionTTL = ttl
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		cfg.RedisAddr = raw
	}
	if raw := os.Getenv("REDIS_PASSWORD"); raw != "" {
		cfg.RedisPassword = raw
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("invalid COOKIE_SECURE env variable")
		}
		cfg.CookieSecure = secure
	}
	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("invalid RATE_LIMIT env variable")
		}
		cfg.RateLimit = limit
	}
	if raw := os.Getenv("RATE_WINDOW"); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil {
			return errors.New("invalid RATE_WINDOW env variable")
		}
		cfg.RateWindow = window
	}
	if raw := os.Getenv("TRUSTED_PROXIES"); raw != "" {
		cfg.TrustedProxies = strings.Split(raw, ",")
	}
	return nil
}

func applyFlags(cfg *Config, flags Config) {
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	if flags.DatabaseURL != "" {
		cfg.DatabaseURL = flags.DatabaseURL
	}
	if flags.DatabaseType != "" {
		cfg.DatabaseType = flags.DatabaseType
	}
	if flags.SessionSecret != "" {
		cfg.SessionSecret = flags.SessionSecret
	}
	if flags.RedisAddr != "" {
		cfg.RedisAddr = flags.RedisAddr
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
}

func validate(cfg Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if _, err := db.ParseDialect(cfg.DatabaseType); err != nil {
		return err
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if len(cfg.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}

	if cfg.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if cfg.RateLimit <= 0 || cfg.RateWindow <= 0 {
		return errors.New("rate limit and window must be positive")
	}
	if _, err := middleware.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		return err
	}
	return nil
}
