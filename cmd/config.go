package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8000"`

	DBHost             string        `env:"DB_HOST"              envDefault:"localhost"`
	DBPort             string        `env:"DB_PORT"              envDefault:"5432"`
	DBUser             string        `env:"DB_USER"              envDefault:"postgres"`
	DBPassword         string        `env:"DB_PASSWORD"`
	DBName             string        `env:"DB_NAME"              envDefault:"orders"`
	DBSslMode          string        `env:"DB_SSLMODE"           envDefault:"disable"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"30s"`

	RMQUser     string `env:"RMQ_USER"     envDefault:"guest"`
	RMQPassword string `env:"RMQ_PASSWORD" envDefault:"guest"`
	RMQHost     string `env:"RMQ_HOST"     envDefault:"localhost"`
	RMQPort     int    `env:"RMQ_PORT"     envDefault:"5672"`
	RMQVhost    string `env:"RMQ_VHOST"    envDefault:"/"`
	RMQParams   string `env:"RMQ_PARAMS"   envDefault:"heartbeat=60"`
	RMQExchange string `env:"RMQ_EXCHANGE" envDefault:"orders"`
	RMQQueue    string `env:"RMQ_QUEUE"    envDefault:"orders"`
	TaskQueue   string `env:"TASK_QUEUE"   envDefault:"orders.tasks"`

	RelayRequeueDelay time.Duration `env:"RELAY_REQUEUE_DELAY" envDefault:"1s"`

	RedisAddr     string        `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisUser     string        `env:"REDIS_USER"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL"      envDefault:"15s"`

	JWTSecretKey   string   `env:"JWT_SECRET_KEY,required"`
	JWTAlgorithm   string   `env:"JWT_ALGORITHM"   envDefault:"HS256"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	OrderStatusTransitions string        `env:"ORDER_STATUS_TRANSITIONS" envDefault:"unrestricted"`
	OrderProcessingDelay   time.Duration `env:"ORDER_PROCESSING_DELAY"   envDefault:"2s"`

	WorkerConcurrency  int           `env:"WORKER_CONCURRENCY"   envDefault:"1"`
	WorkerDedicated    bool          `env:"WORKER_DEDICATED"     envDefault:"false"`
	WorkerDedupe       bool          `env:"WORKER_DEDUPE"        envDefault:"false"`
	WorkerDrainTimeout time.Duration `env:"WORKER_DRAIN_TIMEOUT" envDefault:"10s"`

	ProcessedJobsRetention       time.Duration `env:"PROCESSED_JOBS_RETENTION"        envDefault:"24h"`
	ProcessedJobsCleanupSchedule string        `env:"PROCESSED_JOBS_CLEANUP_SCHEDULE" envDefault:"0 */10 * * * *"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig reads .env files when present and then the process environment.
// Variables already set in the environment win over the files.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WorkerConcurrency < 1 {
		return Config{}, fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", cfg.WorkerConcurrency)
	}
	return cfg, nil
}

// DSN is the key/value connection string for the gorm postgres driver.
// statement_timeout is passed as a runtime parameter of every connection.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s statement_timeout=%d",
		dsnValue(c.DBHost), dsnValue(c.DBPort), dsnValue(c.DBUser), dsnValue(c.DBPassword),
		dsnValue(c.DBName), dsnValue(c.DBSslMode), c.DBStatementTimeout.Milliseconds(),
	)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// dsnValue single-quotes v so spaces, quotes and backslashes survive libpq parsing.
func dsnValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

func (c Config) AMQPURL() string {
	u := url.URL{
		Scheme:   "amqp",
		User:     url.UserPassword(c.RMQUser, c.RMQPassword),
		Host:     net.JoinHostPort(c.RMQHost, strconv.Itoa(c.RMQPort)),
		Path:     "/" + c.RMQVhost,
		RawPath:  "/" + url.PathEscape(c.RMQVhost),
		RawQuery: c.RMQParams,
	}
	return u.String()
}

func (c Config) HTTPAddr() string {
	return net.JoinHostPort("0.0.0.0", c.HTTPPort)
}
