package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8090）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
	FEURL    string // フロントURL（CORSで使う）

	BackendURL     string        // 外部REST API（http://localhost:8080/api）
	BackendTimeout time.Duration // 外部APIのタイムアウト

	ShippingFee     decimal.Decimal // 固定の配送料（750）
	CartStorageKey  string          // カート保存キーのprefix（tm-gear-cart）
	CartMaxSessions int             // メモリに持つカートの最大セッション数

	StorageDriver string // memory/postgres/redis

	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string // セッションcookieの署名シークレット

	RabbitMQURL      string // 空なら注文イベントは送らない
	RabbitMQExchange string

	ShutdownTimeout time.Duration
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiOr("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	backendTimeout, err := durationOr("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := durationOr("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxSessions, err := atoiOr("CART_MAX_SESSIONS", 10000)
	if err != nil {
		return Config{}, err
	}
	shipping, err := decimalOr("SHIPPING_FEE", decimal.NewFromInt(750))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8090"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		FEURL:    getenv("FE_URL", "http://localhost:5173"),

		BackendURL:     strings.TrimRight(getenv("BACKEND_URL", "http://localhost:8080/api"), "/"),
		BackendTimeout: backendTimeout,

		ShippingFee:     shipping,
		CartStorageKey:  getenv("CART_STORAGE_KEY", "tm-gear-cart"),
		CartMaxSessions: maxSessions,

		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", StorageMemory)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "tmgear"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		SessionSecret: os.Getenv("SESSION_SECRET"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "tm-gear.orders"),

		ShutdownTimeout: shutdownTimeout,
	}

	//必須チェック
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be one of memory, postgres, redis")
	}
	if cfg.ShippingFee.IsNegative() {
		return Config{}, fmt.Errorf("SHIPPING_FEE must be >= 0")
	}
	if cfg.CartStorageKey == "" {
		return Config{}, fmt.Errorf("CART_STORAGE_KEY is required")
	}
	if cfg.CartMaxSessions <= 0 {
		return Config{}, fmt.Errorf("CART_MAX_SESSIONS must be > 0")
	}
	if cfg.SessionSecret == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = "dev_secret_change_me"
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalOr(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}
