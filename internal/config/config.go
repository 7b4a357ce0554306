package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Log        LogConfig
	Worker     WorkerConfig
	Providers  ProvidersConfig
	Calculator CalculatorConfig
	StaticMap  StaticMapConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// HTTPConfig - настройки встраивания виджета и ограничения запросов
type HTTPConfig struct {
	AllowOrigins        []string
	EmbedAllowedOrigins []string
	RateLimitPerMinute  int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
	RouteCacheTTL   time.Duration
	TilesCacheTTL   time.Duration
	StatsCacheTTL   time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int
}

// ProvidersConfig - настройки внешних картографических API
type ProvidersConfig struct {
	MapProvider        string
	RequestTimeout     time.Duration
	LookupTimeout      time.Duration
	UserAgent          string
	NominatimBaseURL   string
	NominatimRateLimit float64
	CountryCodes       []string
	OSRMBaseURL        string
	TileBaseURL        string
	TileRateLimit      float64
	GoogleAPIKey       string
	GoogleBaseURL      string
	MapboxAccessToken  string
	MapboxBaseURL      string
}

// CalculatorConfig - ставки для расчёта экономии
type CalculatorConfig struct {
	HourlyRate                float64
	PerKmRate                 float64
	AverageSpeedKmh           float64
	TraditionalFeePerSession  float64
	OnlineSubscriptionPerYear float64
	OnlinePracticeTimeShare   float64
	ProjectionYears           int
}

type StaticMapConfig struct {
	CacheTTL        time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setRateDefaults()

	// .env опционален: в контейнере всё приходит через окружение
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		HTTP: HTTPConfig{
			AllowOrigins:        parseList(viper.GetString("CORS_ALLOW_ORIGINS")),
			EmbedAllowedOrigins: parseList(viper.GetString("EMBED_ALLOWED_ORIGINS")),
			RateLimitPerMinute:  viper.GetInt("HTTP_RATE_LIMIT_PER_MINUTE"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
			RouteCacheTTL:   time.Duration(viper.GetInt("ROUTE_CACHE_TTL")) * time.Second,
			TilesCacheTTL:   time.Duration(viper.GetInt("TILES_CACHE_TTL")) * time.Second,
			StatsCacheTTL:   time.Duration(viper.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
		},
		Providers: ProvidersConfig{
			MapProvider:        strings.ToLower(viper.GetString("MAP_PROVIDER")),
			RequestTimeout:     time.Duration(viper.GetInt("PROVIDER_REQUEST_TIMEOUT")) * time.Second,
			LookupTimeout:      time.Duration(viper.GetInt("PROVIDER_LOOKUP_TIMEOUT")) * time.Second,
			UserAgent:          viper.GetString("PROVIDER_USER_AGENT"),
			NominatimBaseURL:   viper.GetString("NOMINATIM_BASE_URL"),
			NominatimRateLimit: viper.GetFloat64("NOMINATIM_RATE_LIMIT"),
			CountryCodes:       parseList(viper.GetString("GEOCODE_COUNTRY_CODES")),
			OSRMBaseURL:        viper.GetString("OSRM_BASE_URL"),
			TileBaseURL:        viper.GetString("TILE_BASE_URL"),
			TileRateLimit:      viper.GetFloat64("TILE_RATE_LIMIT"),
			GoogleAPIKey:       viper.GetString("GOOGLE_MAPS_API_KEY"),
			GoogleBaseURL:      viper.GetString("GOOGLE_MAPS_BASE_URL"),
			MapboxAccessToken:  viper.GetString("MAPBOX_ACCESS_TOKEN"),
			MapboxBaseURL:      viper.GetString("MAPBOX_BASE_URL"),
		},
		Calculator: CalculatorConfig{
			HourlyRate:                viper.GetFloat64("CALC_HOURLY_RATE"),
			PerKmRate:                 viper.GetFloat64("CALC_PER_KM_RATE"),
			AverageSpeedKmh:           viper.GetFloat64("CALC_AVERAGE_SPEED_KMH"),
			TraditionalFeePerSession:  viper.GetFloat64("CALC_TRADITIONAL_FEE_PER_SESSION"),
			OnlineSubscriptionPerYear: viper.GetFloat64("CALC_ONLINE_SUBSCRIPTION_PER_YEAR"),
			OnlinePracticeTimeShare:   viper.GetFloat64("CALC_ONLINE_PRACTICE_TIME_SHARE"),
			ProjectionYears:           viper.GetInt("CALC_PROJECTION_YEARS"),
		},
		StaticMap: StaticMapConfig{
			CacheTTL:        time.Duration(viper.GetInt("STATIC_MAP_CACHE_TTL")) * time.Second,
			MaxEntries:      viper.GetInt("STATIC_MAP_CACHE_MAX_ENTRIES"),
			CleanupInterval: time.Duration(viper.GetInt("STATIC_MAP_CLEANUP_INTERVAL")) * time.Second,
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if len(c.HTTP.AllowOrigins) == 0 {
		c.HTTP.AllowOrigins = []string{"*"}
	}
	if len(c.HTTP.EmbedAllowedOrigins) == 0 {
		c.HTTP.EmbedAllowedOrigins = []string{"'self'"}
	}
	if c.HTTP.RateLimitPerMinute == 0 {
		c.HTTP.RateLimitPerMinute = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Cache.GeocodeCacheTTL == 0 {
		c.Cache.GeocodeCacheTTL = 7 * 24 * time.Hour
	}
	if c.Cache.RouteCacheTTL == 0 {
		c.Cache.RouteCacheTTL = 24 * time.Hour
	}
	if c.Cache.TilesCacheTTL == 0 {
		c.Cache.TilesCacheTTL = 24 * time.Hour
	}
	if c.Cache.StatsCacheTTL == 0 {
		c.Cache.StatsCacheTTL = 5 * time.Minute
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "calculation-recorders"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 50
	}

	p := &c.Providers
	if p.MapProvider == "" {
		p.MapProvider = "osm"
	}
	if p.RequestTimeout == 0 {
		p.RequestTimeout = 10 * time.Second
	}
	if p.LookupTimeout == 0 {
		p.LookupTimeout = 30 * time.Second
	}
	if p.UserAgent == "" {
		p.UserAgent = "cme-savings-service/1.0"
	}
	if p.NominatimBaseURL == "" {
		p.NominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
	// Nominatim usage policy: не более 1 запроса в секунду
	if p.NominatimRateLimit == 0 {
		p.NominatimRateLimit = 1
	}
	if len(p.CountryCodes) == 0 {
		p.CountryCodes = []string{"de", "at", "ch"}
	}
	if p.OSRMBaseURL == "" {
		p.OSRMBaseURL = "https://router.project-osrm.org"
	}
	if p.TileBaseURL == "" {
		p.TileBaseURL = "https://tile.openstreetmap.org"
	}
	if p.TileRateLimit == 0 {
		p.TileRateLimit = 10
	}
	if p.GoogleBaseURL == "" {
		p.GoogleBaseURL = "https://maps.googleapis.com"
	}
	if p.MapboxBaseURL == "" {
		p.MapboxBaseURL = "https://api.mapbox.com"
	}

	// ставки с явным 0 допустимы, их значения по умолчанию задаёт setRateDefaults;
	// скорость и горизонт должны быть положительными
	calc := &c.Calculator
	if calc.AverageSpeedKmh <= 0 {
		calc.AverageSpeedKmh = 60
	}
	if calc.ProjectionYears <= 0 {
		calc.ProjectionYears = 5
	}

	if c.StaticMap.CacheTTL == 0 {
		c.StaticMap.CacheTTL = 30 * time.Minute
	}
	if c.StaticMap.MaxEntries == 0 {
		c.StaticMap.MaxEntries = 100
	}
	if c.StaticMap.CleanupInterval == 0 {
		c.StaticMap.CleanupInterval = time.Minute
	}
}

// setRateDefaults - значения по умолчанию через viper, чтобы явный 0 в окружении сохранялся
func setRateDefaults() {
	viper.SetDefault("CALC_HOURLY_RATE", 300)
	viper.SetDefault("CALC_PER_KM_RATE", 0.30)
	viper.SetDefault("CALC_TRADITIONAL_FEE_PER_SESSION", 190)
	viper.SetDefault("CALC_ONLINE_SUBSCRIPTION_PER_YEAR", 590)
	viper.SetDefault("CALC_ONLINE_PRACTICE_TIME_SHARE", 0.25)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения для pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseGoogle - выбран ли Google Maps основным провайдером
func (c *Config) UseGoogle() bool {
	return c.Providers.MapProvider == "google" && c.Providers.GoogleAPIKey != ""
}
