package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	ReadGate      ReadGateConfig
	FeatureFlags  FeatureFlagsConfig
	CDN           CDNConfig
	Media         MediaConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Site          SiteConfig
	Cron          CronConfig
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
	Env          string `envconfig:"TEMANKEMAH_APP_ENV" required:"true"`
	Port         string `envconfig:"TEMANKEMAH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TEMANKEMAH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEMANKEMAH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TEMANKEMAH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TEMANKEMAH_DB_DSN"`
	Driver string `envconfig:"TEMANKEMAH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEMANKEMAH_DB_HOST"`
	LegacyPort     int    `envconfig:"TEMANKEMAH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEMANKEMAH_DB_USER"`
	LegacyPassword string `envconfig:"TEMANKEMAH_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEMANKEMAH_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEMANKEMAH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEMANKEMAH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEMANKEMAH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEMANKEMAH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEMANKEMAH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEMANKEMAH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEMANKEMAH_REDIS_ADDR"`
	Password     string        `envconfig:"TEMANKEMAH_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEMANKEMAH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEMANKEMAH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEMANKEMAH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEMANKEMAH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEMANKEMAH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEMANKEMAH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TEMANKEMAH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TEMANKEMAH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TEMANKEMAH_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TEMANKEMAH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TEMANKEMAH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TEMANKEMAH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TEMANKEMAH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TEMANKEMAH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TEMANKEMAH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// ReadGateConfig holds the shared Basic credentials every GET request may present
// instead of a bearer token.
type ReadGateConfig struct {
	Username string `envconfig:"TEMANKEMAH_READ_GATE_USERNAME" required:"true"`
	Password string `envconfig:"TEMANKEMAH_READ_GATE_PASSWORD" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TEMANKEMAH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TEMANKEMAH_AUTO_MIGRATE" default:"false"`
}

// CDNConfig configures the image CDN account used for uploads and deletions.
type CDNConfig struct {
	CloudName     string        `envconfig:"TEMANKEMAH_CDN_CLOUD_NAME" required:"true"`
	APIKey        string        `envconfig:"TEMANKEMAH_CDN_API_KEY" required:"true"`
	APISecret     string        `envconfig:"TEMANKEMAH_CDN_API_SECRET" required:"true"`
	UploadFolder  string        `envconfig:"TEMANKEMAH_CDN_UPLOAD_FOLDER" default:"temankemah"`
	UploadTimeout time.Duration `envconfig:"TEMANKEMAH_CDN_UPLOAD_TIMEOUT" default:"60s"`
}

type MediaConfig struct {
	MaxUploadMB         int `envconfig:"TEMANKEMAH_MAX_UPLOAD_MB" default:"10"`
	MaxAdditionalImages int `envconfig:"TEMANKEMAH_MAX_ADDITIONAL_IMAGES" default:"10"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TEMANKEMAH_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TEMANKEMAH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TEMANKEMAH_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ImageDeletionTopic        string `envconfig:"TEMANKEMAH_PUBSUB_IMAGE_DELETION_TOPIC" default:"tk-image-deletions"`
	ImageDeletionSubscription string `envconfig:"TEMANKEMAH_PUBSUB_IMAGE_DELETION_SUBSCRIPTION" default:"tk-image-deletions-worker"`
}

type SiteConfig struct {
	BaseURL string `envconfig:"TEMANKEMAH_SITE_BASE_URL" default:"https://temankemah.id"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"TEMANKEMAH_CRON_INTERVAL" default:"24h"`
	RegionRetentionDays  int           `envconfig:"TEMANKEMAH_CRON_REGION_RETENTION_DAYS" default:"30"`
	OrphanSweepBatchSize int           `envconfig:"TEMANKEMAH_CRON_ORPHAN_SWEEP_BATCH" default:"100"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
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
