package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

type Config struct {
	GeminiAPIKey          string
	TranslationModel      string
	EmbeddingModel        string
	EmbeddingDimensions   int
	MemoryTopK            int
	MemoryMinScore        float64
	DatabaseURL           string
	Neo4jURI              string
	Neo4jUser             string
	Neo4jPassword         string
	WorkerCount           int
	BatchSize             int
	BatchMaxChars         int
	MaxConcurrentAPICalls int
	TargetLanguage        string
	CharacterQuota        int
	LogLevel              string
	LogFile               string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		TranslationModel:      getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		EmbeddingModel:        getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		EmbeddingDimensions:   getEnvInt("EMBEDDING_DIMENSIONS", 768),
		MemoryTopK:            getEnvInt("MEMORY_TOP_K", 3),
		MemoryMinScore:        getEnvFloat("MEMORY_MIN_SCORE", 0.75),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Neo4jURI:              getEnv("NEO4J_URI", ""),
		Neo4jUser:             getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:         getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:           getEnvInt("WORKER_COUNT", 8),
		BatchSize:             getEnvInt("BATCH_SIZE", 50),
		BatchMaxChars:         getEnvInt("BATCH_MAX_CHARS", 4000),
		MaxConcurrentAPICalls: getEnvInt("MAX_CONCURRENT_API_CALLS", 4),
		TargetLanguage:        NormalizeLanguage(getEnv("TARGET_LANGUAGE", "fr")),
		CharacterQuota:        getEnvInt("CHARACTER_QUOTA", 500000),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", ""),
	}
}

// NormalizeLanguage canonicalises a BCP 47 tag ("pt_br" -> "pt-BR"). Values
// that do not parse are returned unchanged so Ren'Py language names such as
// "french" keep working.
func NormalizeLanguage(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
