package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	OwnerID             string `env:"OWNER_ID,required"`
	DefaultCoin         string `env:"DEFAULT_COIN,default=btc"`

	// Store backend: file (default), postgres or redis. Every backend stores
	// the same three named documents.
	StoreBackend string `env:"STORE_BACKEND,default=file"`
	DataDir      string `env:"DATA_DIR,default=data"`

	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	CoingeckoBaseURL string        `env:"COINGECKO_BASE_URL,default=https://api.coingecko.com/api/v3"`
	CoingeckoTimeout time.Duration `env:"COINGECKO_TIMEOUT,default=10s"`

	CheckInterval     time.Duration `env:"CHECK_INTERVAL,default=15s"`
	CheckInitialDelay time.Duration `env:"CHECK_INITIAL_DELAY,default=5s"`

	HealthAddr   string        `env:"HEALTH_ADDR,default=:10002"`
	PingURL      string        `env:"PING_URL"`
	PingInterval time.Duration `env:"PING_INTERVAL,default=5m"`
	PingTimeout  time.Duration `env:"PING_TIMEOUT,default=5s"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
