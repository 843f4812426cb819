package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Identity  IdentityConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
	Archive   ArchiveConfig
	Ledger    LedgerConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the backend for the persistent maps: memory, mongo, redis or postgres.
type StoreConfig struct {
	Backend   string
	Namespace string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type PostgresConfig struct {
	DSN string
}

// IdentityConfig describes the OIDC identity provider used for login.
type IdentityConfig struct {
	URL           string
	Realm         string
	ClientID      string
	ClientSecret  string
	MaxSessionTTL time.Duration
	AllowInsecure bool
}

// Issuer returns the issuer URL ("<url>/realms/<realm>" when a realm is set).
func (i IdentityConfig) Issuer() string {
	base := strings.TrimRight(i.URL, "/")
	if base == "" || i.Realm == "" {
		return base
	}
	return base + "/realms/" + i.Realm
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type EventsConfig struct {
	Backend      string
	NATSURL      string
	Subject      string
	KafkaBrokers []string
	Topic        string
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LedgerConfig points at the two ledger JSON-RPC endpoints the client queries.
type LedgerConfig struct {
	ICPURL        string
	ICPCanisterID string
	ICRCURL       string
	ICRCCanister  string
	Timeout       time.Duration
}

// LoadConfig loads configuration from environment variables and an optional .env file.
// Every setting has a default so the server can start with the in-memory store.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("STORE_BACKEND", "memory")
	v.SetDefault("STORE_NAMESPACE", "dao")
	v.SetDefault("MONGODB_DATABASE", "skillshare_dao")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDENTITY_MAX_SESSION_TTL_HOURS", 7*24)
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("EVENTS_BACKEND", "none")
	v.SetDefault("EVENTS_SUBJECT", "dao")
	v.SetDefault("EVENTS_TOPIC", "dao.events")
	v.SetDefault("ARCHIVE_BUCKET", "dao-proposals")
	v.SetDefault("LEDGER_ICP_CANISTER_ID", "ryjl3-tyaaa-aaaaa-aaaba-cai")
	v.SetDefault("LEDGER_ICRC_CANISTER_ID", "mxzaz-hqaaa-aaaar-qaada-cai")
	v.SetDefault("LEDGER_TIMEOUT", 30)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(v.GetString("STORE_BACKEND")),
			Namespace: v.GetString("STORE_NAMESPACE"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Postgres: PostgresConfig{
			DSN: v.GetString("POSTGRES_DSN"),
		},
		Identity: IdentityConfig{
			URL:           v.GetString("IDENTITY_URL"),
			Realm:         v.GetString("IDENTITY_REALM"),
			ClientID:      v.GetString("IDENTITY_CLIENT_ID"),
			ClientSecret:  v.GetString("IDENTITY_CLIENT_SECRET"),
			MaxSessionTTL: time.Duration(v.GetInt("IDENTITY_MAX_SESSION_TTL_HOURS")) * time.Hour,
			AllowInsecure: v.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Events: EventsConfig{
			Backend:      v.GetString("EVENTS_BACKEND"),
			NATSURL:      v.GetString("NATS_URL"),
			Subject:      v.GetString("EVENTS_SUBJECT"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:        v.GetString("EVENTS_TOPIC"),
		},
		Archive: ArchiveConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("ARCHIVE_BUCKET"),
		},
		Ledger: LedgerConfig{
			ICPURL:        v.GetString("LEDGER_ICP_URL"),
			ICPCanisterID: v.GetString("LEDGER_ICP_CANISTER_ID"),
			ICRCURL:       v.GetString("LEDGER_ICRC_URL"),
			ICRCCanister:  v.GetString("LEDGER_ICRC_CANISTER_ID"),
			Timeout:       time.Duration(v.GetInt("LEDGER_TIMEOUT")) * time.Second,
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
