package config

import (
	"log"
	"os"
	"quizarena/internal/game"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// High-score backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the server configuration, read once at startup
type Config struct {
	HTTPPort string

	MongoURI      string
	MongoDatabase string
	RedisAddr     string // empty disables Redis

	SQLitePath       string
	HighScoreBackend string

	QuestionAPIURL string // empty uses Gemini, or the offline generator when Gemini is off
	RewardAPIURL   string // empty skips reward reports
	FetchTimeout   time.Duration
	GeneratorKey   string

	JWTSecret string

	BroadcastHz        int // snapshot rate; the simulation itself always runs at game.TickHz
	DefaultTotalRounds int
	IdleTimeout        time.Duration

	AI *AIConfig
}

// Load reads .env (if present) and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:           getEnvOrDefault("PORT", "8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      getEnvOrDefault("MONGO_DATABASE", "quizarena"),
		RedisAddr:          strings.TrimPrefix(os.Getenv("REDIS_URI"), "redis://"),
		SQLitePath:         getEnvOrDefault("SQLITE_PATH", "highscores.db"),
		HighScoreBackend:   strings.ToLower(getEnvOrDefault("HIGHSCORE_BACKEND", BackendSQLite)),
		QuestionAPIURL:     os.Getenv("QUESTION_API_URL"),
		RewardAPIURL:       os.Getenv("REWARD_API_URL"),
		FetchTimeout:       time.Duration(getEnvInt("QUESTION_FETCH_TIMEOUT_MS", 4000)) * time.Millisecond,
		GeneratorKey:       os.Getenv("GENERATOR_KEY"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		BroadcastHz:        getEnvInt("BROADCAST_HZ", 20),
		DefaultTotalRounds: getEnvInt("DEFAULT_TOTAL_ROUNDS", 10),
		IdleTimeout:        time.Duration(getEnvInt("SESSION_IDLE_TIMEOUT_SEC", 600)) * time.Second,
		AI:                 DefaultAIConfig(),
	}

	if cfg.HighScoreBackend != BackendRedis && cfg.HighScoreBackend != BackendSQLite {
		log.Printf("Warning: unknown HIGHSCORE_BACKEND %q, using %s", cfg.HighScoreBackend, BackendSQLite)
		cfg.HighScoreBackend = BackendSQLite
	}
	if cfg.HighScoreBackend == BackendRedis && cfg.RedisAddr == "" {
		log.Println("Warning: HIGHSCORE_BACKEND=redis without REDIS_URI, using sqlite")
		cfg.HighScoreBackend = BackendSQLite
	}
	if cfg.BroadcastHz <= 0 || cfg.BroadcastHz > game.TickHz {
		cfg.BroadcastHz = game.TickHz
	}
	return cfg
}

// BroadcastEvery is the number of ticks between snapshot broadcasts
func (c *Config) BroadcastEvery() int {
	return game.TickHz / c.BroadcastHz
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}
