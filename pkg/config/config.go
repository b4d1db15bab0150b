package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config aggregates every setting the studio server and CLI read at startup.
type Config struct {
	Env string

	Server   ServerConfig
	API      APIConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Charts   ChartsConfig
	Uploads  UploadsConfig
}

type ServerConfig struct {
	Addr string
	// APIAddr serves uploads, exports, SSE and /metrics on a plain
	// net/http stack with a body limit sized for demo files.
	APIAddr      string
	BasePath     string
	ShareBaseURL string
	// Manifest is an optional widget manifest loaded at startup.
	Manifest     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APIConfig points at the content platform backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	// UseMock swaps the HTTP client for in-memory fixtures.
	UseMock bool
	// Token is the service token used when a request carries none.
	Token string
}

type AuthConfig struct {
	Secret     string
	CookieName string
	Expiration time.Duration
	Issuer     string
}

// DatabaseConfig selects the widget layout store. An empty Driver keeps the
// in-memory store.
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Channel  string
}

type LogConfig struct {
	Level  string
	Format string
}

type ChartsConfig struct {
	Renderer string
	CacheTTL time.Duration
	Theme    string
}

type UploadsConfig struct {
	MaxAvatarBytes int64
	MaxDemoBytes   int64
	AvatarTypes    []string
	DemoTypes      []string
}

// Load reads `.env` (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}
	cfg.Env = v.GetString("STUDIO_ENV")

	cfg.Server = ServerConfig{
		Addr:         v.GetString("STUDIO_ADDR"),
		APIAddr:      v.GetString("STUDIO_API_ADDR"),
		BasePath:     v.GetString("STUDIO_BASE_PATH"),
		ShareBaseURL: strings.TrimRight(v.GetString("STUDIO_SHARE_BASE_URL"), "/"),
		Manifest:     v.GetString("STUDIO_WIDGET_MANIFEST"),
		ReadTimeout:  parseDuration(v.GetString("STUDIO_READ_TIMEOUT"), 15*time.Second),
		WriteTimeout: parseDuration(v.GetString("STUDIO_WRITE_TIMEOUT"), 15*time.Second),
	}

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("STUDIO_API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("STUDIO_API_TIMEOUT"), 10*time.Second),
		UseMock: v.GetBool("STUDIO_API_MOCK"),
		Token:   v.GetString("STUDIO_API_TOKEN"),
	}

	cfg.Auth = AuthConfig{
		Secret:     v.GetString("STUDIO_JWT_SECRET"),
		CookieName: v.GetString("STUDIO_AUTH_COOKIE"),
		Expiration: parseDuration(v.GetString("STUDIO_JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("STUDIO_JWT_ISSUER"),
	}

	cfg.Database = DatabaseConfig{
		Driver:       v.GetString("STUDIO_DB_DRIVER"),
		DSN:          v.GetString("STUDIO_DB_DSN"),
		MaxOpenConns: v.GetInt("STUDIO_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("STUDIO_DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("STUDIO_REDIS_ENABLED"),
		Host:     v.GetString("STUDIO_REDIS_HOST"),
		Port:     v.GetInt("STUDIO_REDIS_PORT"),
		Password: v.GetString("STUDIO_REDIS_PASSWORD"),
		DB:       v.GetInt("STUDIO_REDIS_DB"),
		Channel:  v.GetString("STUDIO_REDIS_CHANNEL"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("STUDIO_LOG_LEVEL"),
		Format: v.GetString("STUDIO_LOG_FORMAT"),
	}

	cfg.Charts = ChartsConfig{
		Renderer: v.GetString("STUDIO_CHART_RENDERER"),
		CacheTTL: parseDuration(v.GetString("STUDIO_CHART_CACHE_TTL"), 5*time.Minute),
		Theme:    v.GetString("STUDIO_CHART_THEME"),
	}

	cfg.Uploads = UploadsConfig{
		MaxAvatarBytes: positiveInt64(v.GetInt64("STUDIO_UPLOAD_MAX_AVATAR_BYTES"), 5*1024*1024),
		MaxDemoBytes:   positiveInt64(v.GetInt64("STUDIO_UPLOAD_MAX_DEMO_BYTES"), 50*1024*1024),
		AvatarTypes:    splitAndTrim(v.GetString("STUDIO_UPLOAD_AVATAR_TYPES")),
		DemoTypes:      splitAndTrim(v.GetString("STUDIO_UPLOAD_DEMO_TYPES")),
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STUDIO_ENV", EnvDevelopment)

	v.SetDefault("STUDIO_ADDR", ":8080")
	v.SetDefault("STUDIO_API_ADDR", ":8081")
	v.SetDefault("STUDIO_BASE_PATH", "/studio")
	v.SetDefault("STUDIO_SHARE_BASE_URL", "http://localhost:3000")
	v.SetDefault("STUDIO_WIDGET_MANIFEST", "")
	v.SetDefault("STUDIO_READ_TIMEOUT", "15s")
	v.SetDefault("STUDIO_WRITE_TIMEOUT", "15s")

	v.SetDefault("STUDIO_API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("STUDIO_API_TIMEOUT", "10s")
	v.SetDefault("STUDIO_API_MOCK", false)
	v.SetDefault("STUDIO_API_TOKEN", "")

	v.SetDefault("STUDIO_JWT_SECRET", "dev_secret")
	v.SetDefault("STUDIO_AUTH_COOKIE", "studio_token")
	v.SetDefault("STUDIO_JWT_EXPIRATION", "24h")
	v.SetDefault("STUDIO_JWT_ISSUER", "go-studio")

	v.SetDefault("STUDIO_DB_DRIVER", "")
	v.SetDefault("STUDIO_DB_DSN", "")
	v.SetDefault("STUDIO_DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("STUDIO_DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("STUDIO_REDIS_ENABLED", false)
	v.SetDefault("STUDIO_REDIS_HOST", "localhost")
	v.SetDefault("STUDIO_REDIS_PORT", 6379)
	v.SetDefault("STUDIO_REDIS_PASSWORD", "")
	v.SetDefault("STUDIO_REDIS_DB", 0)
	v.SetDefault("STUDIO_REDIS_CHANNEL", "studio.widgets")

	v.SetDefault("STUDIO_LOG_LEVEL", "info")
	v.SetDefault("STUDIO_LOG_FORMAT", "json")

	v.SetDefault("STUDIO_CHART_RENDERER", "svg")
	v.SetDefault("STUDIO_CHART_CACHE_TTL", "5m")
	v.SetDefault("STUDIO_CHART_THEME", "westeros")

	v.SetDefault("STUDIO_UPLOAD_MAX_AVATAR_BYTES", 5*1024*1024)
	v.SetDefault("STUDIO_UPLOAD_MAX_DEMO_BYTES", 50*1024*1024)
	v.SetDefault("STUDIO_UPLOAD_AVATAR_TYPES", "image/jpeg,image/png,image/webp")
	v.SetDefault("STUDIO_UPLOAD_DEMO_TYPES", "audio/mpeg,audio/wav,audio/x-wav,audio/mp4")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func positiveInt64(value, fallback int64) int64 {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
