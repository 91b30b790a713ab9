package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	CORSOrigin string
	SQLitePath string
	LogFile    string
	LogLevel   string
	BcryptCost int

	WAEnabled       bool
	GroupID         string
	BotPhone        string
	ReplyDelayMinMs int  // Minimum delay before reply (milliseconds)
	ReplyDelayMaxMs int  // Maximum delay before reply (milliseconds), 0 = use min as fixed
	ShowTyping      bool // Show typing indicator during delay

	// RecapSchedule is a six-field cron expression (seconds first). "off" disables the recap job.
	RecapSchedule string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults/environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", "127.0.0.1:8080"),
		CORSOrigin:      getenv("CORS_ORIGIN", "http://localhost:5173"),
		SQLitePath:      getenv("SQLITE_PATH", "./data/dailyreport.db"),
		LogFile:         getenv("LOG_FILE", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		BcryptCost:      getenvInt("BCRYPT_COST", 10),
		WAEnabled:       getenvBool("WA_ENABLED", false),
		GroupID:         getenv("GROUP_ID", ""),
		BotPhone:        getenv("BOT_PHONE", ""),
		ReplyDelayMinMs: getenvInt("REPLY_DELAY_MIN_MS", 0),
		ReplyDelayMaxMs: getenvInt("REPLY_DELAY_MAX_MS", 0),
		ShowTyping:      getenvBool("SHOW_TYPING", false),
		RecapSchedule:   getenv("RECAP_SCHEDULE", "0 0 18 * * 1-5"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
