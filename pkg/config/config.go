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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	Telegram      TelegramConfig
	ImgBB         ImgBBConfig
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
	Env          string `envconfig:"SIPES_APP_ENV" required:"true"`
	Port         string `envconfig:"SIPES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SIPES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SIPES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SIPES_DB_DSN"`
	Driver string `envconfig:"SIPES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SIPES_DB_HOST"`
	LegacyPort     int    `envconfig:"SIPES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SIPES_DB_USER"`
	LegacyPassword string `envconfig:"SIPES_DB_PASSWORD"`
	LegacyName     string `envconfig:"SIPES_DB_NAME"`
	LegacySSLMode  string `envconfig:"SIPES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIPES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SIPES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SIPES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIPES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SIPES_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SIPES_REDIS_PASSWORD"`
	DB           int           `envconfig:"SIPES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SIPES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIPES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIPES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIPES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIPES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SIPES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SIPES_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SIPES_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"SIPES_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the admin session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SIPES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SIPES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SIPES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SIPES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SIPES_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SIPES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SIPES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SIPES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SIPES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SIPES_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	SessionTTL    time.Duration `envconfig:"SIPES_CART_SESSION_TTL" default:"24h"`
	SweepInterval time.Duration `envconfig:"SIPES_CART_SWEEP_INTERVAL" default:"10m"`
}

type CheckoutConfig struct {
	NotifyTimeout time.Duration `envconfig:"SIPES_CHECKOUT_NOTIFY_TIMEOUT" default:"10s"`
}

type TelegramConfig struct {
	BotToken       string        `envconfig:"SIPES_TELEGRAM_BOT_TOKEN"`
	ChatID         string        `envconfig:"SIPES_TELEGRAM_CHAT_ID"`
	Enabled        bool          `envconfig:"SIPES_TELEGRAM_ENABLED" default:"false"`
	BaseURL        string        `envconfig:"SIPES_TELEGRAM_BASE_URL" default:"https://api.telegram.org"`
	RequestTimeout time.Duration `envconfig:"SIPES_TELEGRAM_REQUEST_TIMEOUT" default:"10s"`
}

type ImgBBConfig struct {
	APIKey         string        `envconfig:"SIPES_IMGBB_API_KEY"`
	BaseURL        string        `envconfig:"SIPES_IMGBB_BASE_URL" default:"https://api.imgbb.com"`
	RequestTimeout time.Duration `envconfig:"SIPES_IMGBB_REQUEST_TIMEOUT" default:"30s"`
	Expiration     int           `envconfig:"SIPES_IMGBB_EXPIRATION" default:"0"`
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
