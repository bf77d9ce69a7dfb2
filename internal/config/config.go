package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Library
		Chat
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Library struct {
		BooksDir  string // Directory holding processed book folders
		CacheSize int    // Max books kept in memory at once
	}
	Chat struct {
		ProxyTimeout time.Duration // Timeout for outbound LLM provider calls
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8123)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("books_dir", "./books")
	v.SetDefault("book_cache_size", 10)
	v.SetDefault("chat_proxy_timeout", "60s")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Library: Library{
			BooksDir:  v.GetString("BOOKS_DIR"),
			CacheSize: v.GetInt("BOOK_CACHE_SIZE"),
		},
		Chat: Chat{
			ProxyTimeout: v.GetDuration("CHAT_PROXY_TIMEOUT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
