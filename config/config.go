package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendFirebase  = "firebase"
	BackendMinio     = "minio"

	AuthModeFirebase = "firebase"
	AuthModeHeader   = "header"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Backends BackendsConfig
	Minio    MinioConfig
	AI       AIConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	APIKey          string
	StorageBucket   string
}

// BackendsConfig selects the implementation behind each external collaborator.
type BackendsConfig struct {
	Store       string
	Modules     string
	FileStorage string
	AuthMode    string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type AIConfig struct {
	GoogleAPIKey string
	Model        string
	RateLimit    float64
	Burst        int
}

type JobsConfig struct {
	ModuleSyncSchedule string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Backends: BackendsConfig{
			Store:       getEnv("STORE_BACKEND", BackendPostgres),
			Modules:     getEnv("MODULES_BACKEND", BackendRedis),
			FileStorage: getEnv("FILE_STORAGE_BACKEND", BackendFirebase),
			AuthMode:    getEnv("AUTH_MODE", AuthModeFirebase),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "attachments"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		AI: AIConfig{
			GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			RateLimit:    getEnvAsFloat("AI_RATE_LIMIT", 1),
			Burst:        getEnvAsInt("AI_BURST", 3),
		},
		Jobs: JobsConfig{
			ModuleSyncSchedule: getEnv("MODULE_SYNC_SCHEDULE", "0 0 0 * * *"),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "user-story-generator"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Backends.Store {
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when STORE_BACKEND=postgres")
		}
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backends.Store)
	}

	switch c.Backends.Modules {
	case BackendRedis, BackendFirestore:
	default:
		return fmt.Errorf("unknown MODULES_BACKEND %q", c.Backends.Modules)
	}

	switch c.Backends.FileStorage {
	case BackendFirebase:
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required when FILE_STORAGE_BACKEND=firebase")
		}
	case BackendMinio:
		if c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when FILE_STORAGE_BACKEND=minio")
		}
	default:
		return fmt.Errorf("unknown FILE_STORAGE_BACKEND %q", c.Backends.FileStorage)
	}

	switch c.Backends.AuthMode {
	case AuthModeFirebase, AuthModeHeader:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Backends.AuthMode)
	}

	if c.NeedsFirebase() && c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	return nil
}

// NeedsFirebase reports whether any selected backend talks to Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.Backends.Store == BackendFirestore ||
		c.Backends.Modules == BackendFirestore ||
		c.Backends.FileStorage == BackendFirebase ||
		c.Backends.AuthMode == AuthModeFirebase
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
