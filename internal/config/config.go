// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Store    StoreConfig
	Cache    CacheConfig
	Database DatabaseConfig
	FX       FXConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// AnalysisConfig points at the external analysis engine.
type AnalysisConfig struct {
	APIBaseURL        string
	TimeoutSeconds    int
	DefaultVideoCount int
}

// StoreConfig controls the local analysis store and its snapshot slot.
type StoreConfig struct {
	Backend     string // "file", "redis" or "memory"
	DataDir     string
	Slot        string
	RecentLimit int
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	FXTTLSeconds  int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) Configured() bool {
	return c.DBName != ""
}

type FXConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type ExportConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("ANALYSIS_API_BASE_URL", "http://127.0.0.1:8000")
		viper.SetDefault("ANALYSIS_TIMEOUT_SECONDS", 120)
		viper.SetDefault("ANALYSIS_DEFAULT_VIDEO_COUNT", 8)
		viper.SetDefault("STORE_BACKEND", "file")
		viper.SetDefault("STORE_DATA_DIR", "./data")
		viper.SetDefault("STORE_SLOT", "ii.analysis.v1")
		viper.SetDefault("STORE_RECENT_LIMIT", 12)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FX_TTL_SECONDS", 600)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("FX_BASE_URL", "https://api.frankfurter.app")
		viper.SetDefault("FX_TIMEOUT_SECONDS", 10)
		viper.SetDefault("EXPORT_ENABLED", false)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "")
		viper.SetDefault("EXPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the store data directory exists
		ensureDir(viper.GetString("STORE_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Analysis: AnalysisConfig{
				APIBaseURL:        viper.GetString("ANALYSIS_API_BASE_URL"),
				TimeoutSeconds:    viper.GetInt("ANALYSIS_TIMEOUT_SECONDS"),
				DefaultVideoCount: viper.GetInt("ANALYSIS_DEFAULT_VIDEO_COUNT"),
			},
			Store: StoreConfig{
				Backend:     viper.GetString("STORE_BACKEND"),
				DataDir:     viper.GetString("STORE_DATA_DIR"),
				Slot:        viper.GetString("STORE_SLOT"),
				RecentLimit: viper.GetInt("STORE_RECENT_LIMIT"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				FXTTLSeconds:  viper.GetInt("CACHE_FX_TTL_SECONDS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			FX: FXConfig{
				BaseURL:        viper.GetString("FX_BASE_URL"),
				TimeoutSeconds: viper.GetInt("FX_TIMEOUT_SECONDS"),
			},
			Export: ExportConfig{
				Enabled:   viper.GetBool("EXPORT_ENABLED"),
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
