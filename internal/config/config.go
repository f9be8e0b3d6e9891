// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ローカル開発用のフォールバック値。
// 本番環境では必ず環境変数で上書きすること。
const (
	DefaultAdminUsername     = "admin"
	DefaultAdminPassword     = "admin123"
	DefaultAdminSessionToken = "local-dev-admin-session-token"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Admin
	AdminUsername     string
	AdminPassword     string
	AdminSessionToken string

	// Session
	SessionMaxAge int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// 管理者資格情報とセッショントークンはローカル開発用の既定値に
// フォールバックする。UsesInsecureDefaultsで既定値の使用有無を確認できる。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.AdminUsername = getEnvString("ADMIN_USERNAME", DefaultAdminUsername)
	cfg.AdminPassword = getEnvString("ADMIN_PASSWORD", DefaultAdminPassword)
	cfg.AdminSessionToken = getEnvString("ADMIN_SESSION_TOKEN", DefaultAdminSessionToken)

	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// UsesInsecureDefaults はローカル開発用フォールバックのまま動いている
// 管理者関連の環境変数名を返す。起動時の警告ログに使う。
func (c *Config) UsesInsecureDefaults() []string {
	var insecure []string
	if os.Getenv("ADMIN_USERNAME") == "" {
		insecure = append(insecure, "ADMIN_USERNAME")
	}
	if os.Getenv("ADMIN_PASSWORD") == "" {
		insecure = append(insecure, "ADMIN_PASSWORD")
	}
	if os.Getenv("ADMIN_SESSION_TOKEN") == "" {
		insecure = append(insecure, "ADMIN_SESSION_TOKEN")
	}
	return insecure
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
