package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "LEADFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LEADFLOW_DB_DSN"
	EnvDBHost = "LEADFLOW_DB_HOST"
	EnvDBUser = "LEADFLOW_DB_USER"
	EnvDBName = "LEADFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cron          CronConfig
	Facebook      FacebookConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEADFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"LEADFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LEADFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEADFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LEADFLOW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LEADFLOW_DB_DSN"`
	Driver string `envconfig:"LEADFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEADFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"LEADFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEADFLOW_DB_USER"`
	LegacyPassword string `envconfig:"LEADFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEADFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEADFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEADFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEADFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEADFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEADFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"LEADFLOW_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEADFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LEADFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"LEADFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEADFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEADFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEADFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEADFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEADFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEADFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LEADFLOW_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LEADFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LEADFLOW_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LEADFLOW_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LEADFLOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LEADFLOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LEADFLOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LEADFLOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LEADFLOW_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LEADFLOW_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LEADFLOW_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LEADFLOW_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"LEADFLOW_CRON_INTERVAL" default:"5m"`
	LockTTL         time.Duration `envconfig:"LEADFLOW_CRON_LOCK_TTL" default:"10m"`
	BulkConcurrency int           `envconfig:"LEADFLOW_BULK_CONCURRENCY" default:"8"`
}

type FacebookConfig struct {
	GraphBaseURL string        `envconfig:"LEADFLOW_FB_GRAPH_BASE_URL" default:"https://graph.facebook.com/v19.0"`
	SyncTimeout  time.Duration `envconfig:"LEADFLOW_FB_SYNC_TIMEOUT" default:"60s"`
	MaxRetries   int           `envconfig:"LEADFLOW_FB_MAX_RETRIES" default:"3"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LEADFLOW_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LEADFLOW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LEADFLOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	LeadEventsTopic        string `envconfig:"LEADFLOW_PUBSUB_LEAD_EVENTS_TOPIC" default:"lead-events"`
	LeadEventsSubscription string `envconfig:"LEADFLOW_PUBSUB_LEAD_EVENTS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize     int           `envconfig:"LEADFLOW_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollInterval  time.Duration `envconfig:"LEADFLOW_OUTBOX_PUBLISH_POLL_INTERVAL" default:"500ms"`
	MaxAttempts   int           `envconfig:"LEADFLOW_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays int           `envconfig:"LEADFLOW_OUTBOX_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
