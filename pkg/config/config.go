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
	Dashboard     DashboardConfig
	OTP           OTPConfig
	Media         MediaConfig
	Redemption    RedemptionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Dashboard.ReferenceDay(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env              string        `envconfig:"MERCHANT_APP_ENV" required:"true"`
	Port             string        `envconfig:"MERCHANT_APP_PORT" required:"true"`
	LogLevel         string        `envconfig:"MERCHANT_LOG_LEVEL" default:"info"`
	LogWarnStack     bool          `envconfig:"MERCHANT_LOG_WARN_STACK" default:"false"`
	SimulatedLatency time.Duration `envconfig:"MERCHANT_SIMULATED_LATENCY" default:"0s"`
	CORSOrigins      []string      `envconfig:"MERCHANT_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN        string `envconfig:"MERCHANT_DB_DSN"`
	SQLitePath string `envconfig:"MERCHANT_DB_SQLITE_PATH" default:"merchant-portal.db"`

	Host     string `envconfig:"MERCHANT_DB_HOST"`
	Port     int    `envconfig:"MERCHANT_DB_PORT" default:"5432"`
	User     string `envconfig:"MERCHANT_DB_USER"`
	Password string `envconfig:"MERCHANT_DB_PASSWORD"`
	Name     string `envconfig:"MERCHANT_DB_NAME"`
	SSLMode  string `envconfig:"MERCHANT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERCHANT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERCHANT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERCHANT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCHANT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCHANT_REDIS_URL"`
	Address      string        `envconfig:"MERCHANT_REDIS_ADDR"`
	Password     string        `envconfig:"MERCHANT_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCHANT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCHANT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCHANT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCHANT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCHANT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCHANT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret                 string `envconfig:"MERCHANT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MERCHANT_JWT_ISSUER" default:"merchant-portal"`
	ExpirationMinutes      int    `envconfig:"MERCHANT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"MERCHANT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"MERCHANT_PASSWORD_MIN_LENGTH" default:"8"`
	ArgonMemoryKB    int `envconfig:"MERCHANT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MERCHANT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MERCHANT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MERCHANT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MERCHANT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MERCHANT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MERCHANT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MERCHANT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MERCHANT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MERCHANT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MERCHANT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MERCHANT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MERCHANT_AUTO_MIGRATE" default:"false"`
	// UseFixtures serves dashboard series from the built-in mock dataset instead of the database.
	UseFixtures bool `envconfig:"MERCHANT_USE_FIXTURES" default:"true"`
}

type DashboardConfig struct {
	ReferenceDate string `envconfig:"MERCHANT_DASHBOARD_REFERENCE_DATE" default:"2024-12-29"`
	Currency      string `envconfig:"MERCHANT_DASHBOARD_CURRENCY" default:"LKR"`
	MaxTableRows  int    `envconfig:"MERCHANT_DASHBOARD_MAX_TABLE_ROWS" default:"200"`
}

// ReferenceDay parses the fixture anchor used in place of the wall clock.
func (d DashboardConfig) ReferenceDay() (time.Time, error) {
	value := strings.TrimSpace(d.ReferenceDate)
	if value == "" {
		value = DefaultReferenceDate
	}
	day, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", EnvDashboardReferenceDate, value, err)
	}
	return day.UTC(), nil
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"MERCHANT_OTP_TTL" default:"10m"`
	MaxAttempts int           `envconfig:"MERCHANT_OTP_MAX_ATTEMPTS" default:"5"`
}

type MediaConfig struct {
	MaxImageBytes   int `envconfig:"MERCHANT_MEDIA_MAX_IMAGE_BYTES" default:"5242880"`
	MaxOutputWidth  int `envconfig:"MERCHANT_MEDIA_MAX_OUTPUT_WIDTH" default:"1920"`
	MaxOutputHeight int `envconfig:"MERCHANT_MEDIA_MAX_OUTPUT_HEIGHT" default:"1080"`
	JPEGQuality     int `envconfig:"MERCHANT_MEDIA_JPEG_QUALITY" default:"85"`
	MaxSourcePixels int `envconfig:"MERCHANT_MEDIA_MAX_SOURCE_PIXELS" default:"25000000"`
}

type RedemptionConfig struct {
	QRSize    int    `envconfig:"MERCHANT_QR_SIZE" default:"256"`
	QRScheme  string `envconfig:"MERCHANT_QR_SCHEME" default:"dealdesk://redeem/"`
	PageLimit int    `envconfig:"MERCHANT_REDEMPTIONS_PAGE_LIMIT" default:"25"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required when %s is set", EnvDBSQLitePath, EnvUseSQLite)
		}
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
