package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost string
	ServerPort string

	// DataDir holds the CSV backing files, one per table.
	DataDir string

	JWTSecret []byte

	AllowedOrigin string
}

// Load reads .env if present, then the environment, falling back to local
// defaults.
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		ServerHost:    getenv("SERVER_HOST", ""),
		ServerPort:    getenv("SERVER_PORT", "8080"),
		DataDir:       getenv("DATA_DIR", "data"),
		JWTSecret:     []byte(getenv("JWT_SECRET", "secretKey")),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:8081"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
