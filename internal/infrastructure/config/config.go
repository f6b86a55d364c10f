package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Cache          CacheConfig
	ProductService ProductServiceConfig
	Log            LogConfig
	HTTP           HTTPConfig
	Telemetry      TelemetryConfig
	Swagger        SwaggerConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, or ":memory:"
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	SlowThreshold   time.Duration
	AutoMigrate     bool
	Seed            bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	Backend            string // memory, redis
	DefaultTTL         time.Duration
	Capacity           int
	NumShards          int
	EvictionPercentage int
	KeyPrefix          string
}

// ProductServiceConfig holds settings for the outbound product lookup
type ProductServiceConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryStep  time.Duration // wait before retry n is n x RetryStep
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	Enabled           bool    // export traces
	LogsEnabled       bool    // export logs through the zap bridge
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0, 1.0 = 100%
	Insecure          bool    // non-TLS collector connection (development only)
	// Database tracing options
	DBTraceEnabled    bool
	DBLogFullSQL      bool // dev only, bind variables end up in traces
	DBSlowQueryThresh time.Duration
	// Pyroscope continuous profiling
	ProfilingEnabled bool
	PyroscopeAddress string
}

// SwaggerConfig controls the /swagger UI
type SwaggerConfig struct {
	Enabled bool
}

// Load loads configuration from TOML file and environment variables.
// appName names the service and seeds the defaults that differ between
// services (application name, database name).
// Priority (highest to lowest):
// 1. Environment variables with ORDERING_ prefix (e.g., ORDERING_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load(appName string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ORDERING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			Seed:            v.GetBool("database.seed"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Backend:            v.GetString("cache.backend"),
			DefaultTTL:         v.GetDuration("cache.default_ttl"),
			Capacity:           v.GetInt("cache.capacity"),
			NumShards:          v.GetInt("cache.num_shards"),
			EvictionPercentage: v.GetInt("cache.eviction_percentage"),
			KeyPrefix:          v.GetString("cache.key_prefix"),
		},
		ProductService: ProductServiceConfig{
			BaseURL:    v.GetString("product_service.base_url"),
			Timeout:    v.GetDuration("product_service.timeout"),
			MaxRetries: v.GetInt("product_service.max_retries"),
			RetryStep:  v.GetDuration("product_service.retry_step"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
	}

	applyDefaults(cfg, appName)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, appName string) {
	if appName == "" {
		appName = "ordering"
	}
	if cfg.App.Name == "" {
		cfg.App.Name = appName
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = strings.ReplaceAll(appName, "-", "_")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = cfg.Database.DBName + ".db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 5 * time.Minute
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 10000
	}
	if cfg.Cache.NumShards == 0 {
		cfg.Cache.NumShards = 10
	}
	if cfg.Cache.EvictionPercentage == 0 {
		cfg.Cache.EvictionPercentage = 10
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = appName + ":"
	}
	if cfg.ProductService.BaseURL == "" {
		cfg.ProductService.BaseURL = "http://localhost:8081"
	}
	if cfg.ProductService.Timeout == 0 {
		cfg.ProductService.Timeout = 10 * time.Second
	}
	if cfg.ProductService.MaxRetries == 0 {
		cfg.ProductService.MaxRetries = 3
	}
	if cfg.ProductService.RetryStep == 0 {
		cfg.ProductService.RetryStep = 200 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = cfg.Database.SlowThreshold
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.Cache.Backend)
	}
	if c.Cache.EvictionPercentage < 0 || c.Cache.EvictionPercentage > 100 {
		return fmt.Errorf("cache.eviction_percentage must be between 0 and 100, got %d", c.Cache.EvictionPercentage)
	}

	if c.ProductService.MaxRetries < 0 {
		return fmt.Errorf("product_service.max_retries cannot be negative")
	}
	if _, err := url.ParseRequestURI(c.ProductService.BaseURL); err != nil {
		return fmt.Errorf("product_service.base_url is invalid: %w", err)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Driver == DriverSQLite {
			return fmt.Errorf("database.driver cannot be sqlite in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Database.Seed {
			return fmt.Errorf("database.seed must be false in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
		if c.Swagger.Enabled {
			return fmt.Errorf("swagger.enabled must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.PyroscopeAddress == "" {
		return fmt.Errorf("telemetry.pyroscope_address is required when profiling is enabled")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return sqliteDSN(d.Path)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by
// default, unless the path already sets it
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
