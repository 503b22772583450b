package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env      string
	HTTPPort string

	MongoURI      string
	MongoDatabase string
	StoreBackend  string
	StoreTimeout  time.Duration

	JWTIssuer    string
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool

	CORSOrigins []string

	RedisAddr        string
	QueueBackend     string
	RateLimitBackend string

	RateLimitPerMin      int
	LoginRateLimitPerMin int

	EnforceRoles              bool
	StrictGatepassTransitions bool
	UpgradeLegacyPasswords    bool
}

// Load returns application config populated from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	return App{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPPort: getEnv("PORT", "3000"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "chitkaraconnect"),
		StoreBackend:  getEnv("STORE_BACKEND", "mongo"),
		StoreTimeout:  durationEnv("STORE_TIMEOUT", 10*time.Second),

		JWTIssuer:    getEnv("JWT_ISSUER", "chitkara-connect"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-signing-secret-change"),
		TokenTTL:     durationEnv("TOKEN_TTL", time.Hour),
		CookieSecure: boolEnv("COOKIE_SECURE", false),

		CORSOrigins: listEnv("CORS_ORIGINS", []string{
			"https://chitkara-connect.onrender.com",
			"https://chitkara-connect.vercel.app",
			"http://localhost:5173",
		}),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		QueueBackend:     getEnv("QUEUE_BACKEND", "memory"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),

		RateLimitPerMin:      intEnv("RATE_LIMIT_PER_MIN", 120),
		LoginRateLimitPerMin: intEnv("LOGIN_RATE_LIMIT_PER_MIN", 10),

		EnforceRoles:              boolEnv("AUTH_ENFORCE_ROLES", false),
		StrictGatepassTransitions: boolEnv("GATEPASS_STRICT_TRANSITIONS", false),
		UpgradeLegacyPasswords:    boolEnv("UPGRADE_LEGACY_PASSWORDS", true),
	}
}

// Production reports whether the app runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

// UsesRedis reports whether any component is configured to talk to Redis.
func (a App) UsesRedis() bool {
	return a.QueueBackend == "redis" || a.RateLimitBackend == "redis"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

// listEnv splits a comma separated value, dropping blanks.
func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
