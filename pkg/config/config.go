package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Qdrant   QdrantConfig
	Crawler  CrawlerConfig
	RAG      RAGConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	MaxTokens      int
}

type QdrantConfig struct {
	Host       string
	Port       int
	Collection string
	VectorSize uint64
}

type CrawlerConfig struct {
	MaxDepth       int
	MaxPages       int
	RequestTimeout time.Duration
	RenderTimeout  time.Duration
	RenderSettle   time.Duration
	UserAgent      string
}

type RAGConfig struct {
	TopK            int
	PayloadMaxChars int
	FallbackChars   int
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables are used directly
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))

	qdrantPort, _ := strconv.Atoi(getEnv("QDRANT_PORT", "6334"))
	vectorSize, _ := strconv.Atoi(getEnv("QDRANT_VECTOR_SIZE", "1536"))
	maxTokens, _ := strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "500"))

	maxDepth, _ := strconv.Atoi(getEnv("CRAWLER_MAX_DEPTH", "2"))
	maxPages, _ := strconv.Atoi(getEnv("CRAWLER_MAX_PAGES", "50"))
	requestTimeout, _ := strconv.Atoi(getEnv("CRAWLER_REQUEST_TIMEOUT", "10"))
	renderTimeout, _ := strconv.Atoi(getEnv("CRAWLER_RENDER_TIMEOUT", "30"))
	renderSettleMs, _ := strconv.Atoi(getEnv("CRAWLER_RENDER_SETTLE_MS", "2000"))

	ragTopK, _ := strconv.Atoi(getEnv("RAG_TOP_K", "5"))
	payloadMax, _ := strconv.Atoi(getEnv("RAG_PAYLOAD_MAX_CHARS", "1000"))
	fallbackChars, _ := strconv.Atoi(getEnv("RAG_FALLBACK_CHARS", "500"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sitechat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
			MaxTokens:      maxTokens,
		},
		Qdrant: QdrantConfig{
			Host:       getEnv("QDRANT_HOST", "localhost"),
			Port:       qdrantPort,
			Collection: getEnv("QDRANT_COLLECTION", "documents"),
			VectorSize: uint64(vectorSize),
		},
		Crawler: CrawlerConfig{
			MaxDepth:       maxDepth,
			MaxPages:       maxPages,
			RequestTimeout: time.Duration(requestTimeout) * time.Second,
			RenderTimeout:  time.Duration(renderTimeout) * time.Second,
			RenderSettle:   time.Duration(renderSettleMs) * time.Millisecond,
			UserAgent:      getEnv("CRAWLER_USER_AGENT", "sitechat-crawler/1.0"),
		},
		RAG: RAGConfig{
			TopK:            ragTopK,
			PayloadMaxChars: payloadMax,
			FallbackChars:   fallbackChars,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
