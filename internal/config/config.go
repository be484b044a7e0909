package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"time"

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Source URLs and the LLM settings have defaults so
// a development setup only needs the database and JWT values.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	LogDebug  bool   // force debug-level logging
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify operator JWTs

	GuideURL        string // programme guide PDF, or a page linking to it
	ChangesURL      string // programme changes page
	GuideHashKey    string // Redis key for the last guide content hash
	AlertWebhookURL string // chat webhook for degraded/failed runs (optional)

	LLMAPIKey  string        // empty disables the AI title path
	LLMBaseURL string        // OpenAI-compatible endpoint
	LLMModel   string
	LLMTimeout time.Duration // per-call bound for title extraction
	AICacheTTL time.Duration // how long AI title results are cached in Redis

	SchedulerEnabled bool
	FullCron         string // cron spec (with seconds) for the full import
	ChangesCron      string // cron spec (with seconds) for the changes-only import

	RabbitURL string // AMQP URL for import.completed events (optional)
}

// Load reads a .env file when present and then the environment.  Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
	// A missing .env is normal in containers; the real environment wins.
	_ = godotenv.Load()

	return Config{
		Env:       must("APP_ENV"),      // environment (dev/test/prod)
		Port:      must("APP_PORT"),     // port to bind the HTTP server
		LogDebug:  envBool("LOG_DEBUG", false),
		DBUser:    must("DB_USER"),      // database user
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:    must("DB_HOST"),      // database host
		DBPort:    must("DB_PORT"),      // database port
		DBName:    must("DB_NAME"),      // database name
		JWTSecret: must("JWT_SECRET"),   // secret used for verifying JWTs

		GuideURL:        envStr("BFI_GUIDE_URL", "https://www.bfi.org.uk/bfi-southbank/guide"),
		ChangesURL:      envStr("BFI_CHANGES_URL", "https://www.bfi.org.uk/bfi-southbank/programme-changes"),
		GuideHashKey:    envStr("BFI_GUIDE_HASH_KEY", "bfi:guide:hash"),
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMModel:   envStr("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: envDur("LLM_TIMEOUT", 8*time.Second),
		AICacheTTL: envDur("AI_TITLE_CACHE_TTL", 30*24*time.Hour),

		SchedulerEnabled: envBool("SCHEDULER_ENABLED", true),
		FullCron:         envStr("IMPORT_FULL_CRON", "0 0 6 * * *"),
		ChangesCron:      envStr("IMPORT_CHANGES_CRON", "0 15 */2 * * *"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),
	}
}

// LoadAuth reads only what is needed to mint operator tokens, so the token
// tool runs without database settings.
func LoadAuth() (secret string, ttl time.Duration) {
	_ = godotenv.Load()
	return must("JWT_SECRET"), envDur("ADMIN_TOKEN_TTL", 12*time.Hour)
}

// DSNParts returns the database connection parameters in database.Open order.
func (c Config) DSNParts() (user, pass, host, port, name string) {
	return c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
