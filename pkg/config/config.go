package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "aarogyam"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Notify       NotifyConfig
	PubSub       PubSubConfig
	GCP          GCPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AAROGYAM_APP_ENV" required:"true"`
	Port         string `envconfig:"AAROGYAM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AAROGYAM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AAROGYAM_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"AAROGYAM_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AAROGYAM_DB_DSN" required:"true"`
	Driver string `envconfig:"AAROGYAM_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"AAROGYAM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AAROGYAM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AAROGYAM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AAROGYAM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AAROGYAM_REDIS_URL" required:"true"`
	Password     string        `envconfig:"AAROGYAM_REDIS_PASSWORD"`
	DB           int           `envconfig:"AAROGYAM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AAROGYAM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AAROGYAM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AAROGYAM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AAROGYAM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AAROGYAM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AAROGYAM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AAROGYAM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AAROGYAM_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"AAROGYAM_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AAROGYAM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AAROGYAM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AAROGYAM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AAROGYAM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AAROGYAM_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"AAROGYAM_CART_TTL" default:"720h"`
}

type NotifyConfig struct {
	// WhatsAppNumber is the destination of the order handoff deep link,
	// digits only with the country code.
	WhatsAppNumber string `envconfig:"AAROGYAM_NOTIFY_WHATSAPP_NUMBER" default:"917667227333"`
	Timezone       string `envconfig:"AAROGYAM_NOTIFY_TIMEZONE" default:"Asia/Kolkata"`
	// MetricsPort keeps the worker's scrape endpoint off the API port.
	MetricsPort string `envconfig:"AAROGYAM_NOTIFY_METRICS_PORT" default:"9091"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"AAROGYAM_PUBSUB_ORDERS_TOPIC" default:"order-events"`
	OrdersSubscription string `envconfig:"AAROGYAM_PUBSUB_ORDERS_SUBSCRIPTION" default:"order-events.notify-worker"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"AAROGYAM_GCP_PROJECT_ID"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AAROGYAM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AAROGYAM_AUTO_MIGRATE" default:"false"`
}
