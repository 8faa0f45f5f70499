package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageDisk  = "disk"
	StorageMinio = "minio"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Janitor JanitorConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"JWT_TTL, default=24h"`
	AllowAdminSignup bool          `env:"ALLOW_ADMIN_SIGNUP, default=true"`
}

type HTTPConfig struct {
	CORSOrigins    []string `env:"CORS_ORIGINS, default=*"`
	MaxUploadFiles int      `env:"MAX_UPLOAD_FILES, default=5"`
	MaxUploadBytes int64    `env:"MAX_UPLOAD_BYTES, default=33554432"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=alayatales"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER, default=disk"`
	UploadDir string `env:"UPLOAD_DIR, default=uploads"`

	Minio MinioConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT, default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET, default=temple-images"`
	UseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

type JanitorConfig struct {
	Workers   int `env:"JANITOR_WORKERS, default=2"`
	QueueSize int `env:"JANITOR_QUEUE_SIZE, default=256"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables that are already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDisk:
	case StorageMinio:
		if c.Storage.Minio.AccessKey == "" || c.Storage.Minio.SecretKey == "" {
			return errors.New("config: MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when STORAGE_DRIVER=minio")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.HTTP.MaxUploadFiles <= 0 {
		return errors.New("config: MAX_UPLOAD_FILES must be positive")
	}
	if c.Janitor.Workers <= 0 {
		return errors.New("config: JANITOR_WORKERS must be positive")
	}
	return nil
}
