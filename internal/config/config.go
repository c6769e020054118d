package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/msgboard/msgboard/backend/go-services/internal/database"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
	"github.com/spf13/viper"
)

var (
	ErrMissingMongoURI = errors.New("MONGO_URI is required")
	ErrInvalidPort     = errors.New("invalid PORT")
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component.
type Config struct {
	Server     ServerConfig
	TLS        TLSConfig
	MongoDB    MongoDBConfig
	ParamStore ParamStoreConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type ParamStoreConfig struct {
	Enabled bool
	Region  string
	Prefix  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// Options tweak how Load resolves configuration.
type Options struct {
	// EnvFile is the local key/value file. Defaults to $ENV_FILE, then ".env".
	EnvFile string
	// Store replaces the SSM-backed parameter store. When set it is always queried.
	Store ParameterStore
}

const paramStoreTimeout = 10 * time.Second

// LoadConfig loads configuration from the environment, the local .env file
// and, when enabled, the remote parameter store.
func LoadConfig(ctx context.Context) (*Config, error) {
	return Load(ctx, Options{})
}

// Load resolves configuration with precedence
// defaults < env file < process env < parameter store.
// A failing parameter store is logged and skipped.
func Load(ctx context.Context, opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = os.Getenv("ENV_FILE")
	}
	if envFile == "" {
		envFile = ".env"
	}
	if err := mergeEnvFile(v, envFile); err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil && v.GetBool("PARAM_STORE_ENABLED") {
		s, err := NewSSMStore(ctx, v.GetString("PARAM_STORE_REGION"))
		if err != nil {
			logger.Warnf("parameter store unavailable, using local configuration: %v", err)
		} else {
			store = s
		}
	}
	if store != nil {
		applyParameterStore(ctx, v, store, v.GetString("PARAM_STORE_PREFIX"))
	}

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", 5)
	v.SetDefault("MONGO_COLLECTION", "messages")
	v.SetDefault("MONGO_TIMEOUT", 10)
	v.SetDefault("PARAM_STORE_ENABLED", false)
	v.SetDefault("PARAM_STORE_REGION", "ca-central-1")
	v.SetDefault("TLS_ENABLED", false)
	v.SetDefault("TLS_CERT_FILE", "cert.pem")
	v.SetDefault("TLS_KEY_FILE", "key.pem")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
}

// mergeEnvFile reads the env file without touching the process environment.
// A missing file is not an error.
func mergeEnvFile(v *viper.Viper, path string) error {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("env file %s not found, skipping", path)
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	m := make(map[string]any, len(vals))
	for k, val := range vals {
		m[k] = val
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("merge env file %s: %w", path, err)
	}
	logger.Debugf("loaded %d keys from %s", len(vals), path)
	return nil
}

func applyParameterStore(ctx context.Context, v *viper.Viper, store ParameterStore, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, paramStoreTimeout)
	defer cancel()

	names := ParameterNames(prefix)
	vals, err := store.GetParameters(ctx, names)
	if err != nil {
		logger.Warnf("failed to load from parameter store, falling back to local configuration: %v", err)
		return
	}
	if len(vals) == 0 {
		logger.Warnf("no parameters found in parameter store; using local configuration")
		return
	}
	for name, val := range vals {
		v.Set(ParameterKey(name), val)
	}
	logger.Infof("loaded %d parameters from parameter store", len(vals))
}

func build(v *viper.Viper) (*Config, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}

	uri := strings.TrimSpace(v.GetString("MONGO_URI"))
	if uri == "" {
		return nil, ErrMissingMongoURI
	}
	dbName := v.GetString("MONGO_DATABASE")
	if dbName == "" {
		dbName = database.NameFromURI(uri)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			Host:            v.GetString("HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT")) * time.Second,
		},
		TLS: TLSConfig{
			Enabled:  v.GetBool("TLS_ENABLED"),
			CertFile: v.GetString("TLS_CERT_FILE"),
			KeyFile:  v.GetString("TLS_KEY_FILE"),
		},
		MongoDB: MongoDBConfig{
			URI:        uri,
			Database:   dbName,
			Collection: v.GetString("MONGO_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGO_TIMEOUT")) * time.Second,
		},
		ParamStore: ParamStoreConfig{
			Enabled: v.GetBool("PARAM_STORE_ENABLED"),
			Region:  v.GetString("PARAM_STORE_REGION"),
			Prefix:  v.GetString("PARAM_STORE_PREFIX"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}
	return cfg, nil
}
