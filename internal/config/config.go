// Package config はアプリケーション設定を読み込みます。
//
// 優先順位は 環境変数 > .env > TOMLファイル > デフォルト値 です。
// TOMLファイル（CONFIG_FILE、未指定時は存在すれば todo.toml）のキーは
// 環境変数名の小文字表記（例: db_driver = "sqlite"）で、未設定の環境変数の既定値として適用されます。
// 各プラットフォームパッケージの LoadConfig / LoadConfigFromEnv はその後の環境変数を読みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultConfigFile はCONFIG_FILE未指定時に探すTOMLファイルです。
	DefaultConfigFile = "todo.toml"

	DefaultPort          = "8080"
	DefaultJWTExpiration = 30 * time.Minute
	DefaultRefreshTTL    = 7 * 24 * time.Hour
	DefaultTodoCacheTTL  = 5 * time.Minute
	DefaultAIRateLimit   = 30
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultMCPAddr       = "localhost:4200"
	DefaultMCPPath       = "/todo-mcp/http"
)

// knownKeys はTOMLファイルで指定できるキー（環境変数名）です。
var knownKeys = map[string]struct{}{
	"PORT": {}, "GIN_MODE": {},
	"DB_DRIVER": {}, "DB_USER": {}, "DB_PASSWORD": {}, "DB_HOST": {}, "DB_PORT": {}, "DB_NAME": {},
	"INSTANCE_CONNECTION_NAME": {}, "SQLITE_PATH": {}, "RUN_MIGRATIONS": {},
	"JWT_SECRET": {}, "JWT_EXPIRATION": {}, "REFRESH_TOKEN_TTL": {}, "MAX_SESSIONS": {},
	"REDIS_HOST": {}, "REDIS_PORT": {}, "REDIS_PASSWORD": {}, "TODO_CACHE_TTL": {},
	"FRONTEND_URL": {}, "ALB_DNS_NAME": {},
	"MQTT_BROKER": {}, "MQTT_TOPIC": {}, "MQTT_CLIENT_ID": {}, "MQTT_USERNAME": {}, "MQTT_PASSWORD": {},
	"GOOGLE_GENAI_USE_VERTEXAI": {}, "GOOGLE_CLOUD_PROJECT": {}, "GOOGLE_CLOUD_LOCATION": {},
	"GEMINI_API_KEY": {}, "GEMINI_MODEL": {},
	"OPENAI_BASE_URL": {}, "OPENAI_MODEL": {}, "AI_RATE_LIMIT": {},
	"LOG_LEVEL": {}, "LOG_FORMAT": {},
	"MCP_ADDR": {}, "MCP_PATH": {},
}

// Config はサーバー全体で使う設定値です。DB・Redis・MQTTの接続設定は各パッケージが環境変数から読みます。
type Config struct {
	Port          string
	GinMode       string
	JWTSecret     string
	JWTExpiration time.Duration
	RefreshTTL    time.Duration
	MaxSessions   int
	TodoCacheTTL  time.Duration
	FrontendURL   string
	ALBDNSName    string
	LogLevel      string
	LogFormat     string
	AI            AIConfig
	MCP           MCPConfig
}

// MCPConfig はcmd/mcpの待ち受け設定です。
type MCPConfig struct {
	Addr string // 例: localhost:4200
	Path string // Streamable HTTPのエンドポイント
}

// AIConfig はサブタスク生成の設定です。
type AIConfig struct {
	GeminiAPIKey  string
	UseVertexAI   bool
	GeminiModel   string
	OpenAIBaseURL string
	OpenAIModel   string
	RateLimit     int // 1分あたりの呼び出し上限
}

// GeminiEnabled はサーバー側の資格情報でGeminiを呼び出せるかを返します。
func (c AIConfig) GeminiEnabled() bool {
	return c.GeminiAPIKey != "" || c.UseVertexAI
}

// Load は .env とTOMLファイルを環境変数に反映してから設定を読み込みます。
func Load() (*Config, error) {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	if err := ApplyFile(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file not found", "path", path)
		} else {
			return nil, err
		}
	}
	return FromEnv()
}

// ApplyFile はTOMLファイルの値を、未設定の環境変数にのみ設定します。
func ApplyFile(path string) error {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	for k, v := range raw {
		key := strings.ToUpper(k)
		if _, ok := knownKeys[key]; !ok {
			return fmt.Errorf("config file %s: unknown key %q", path, k)
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(v)); err != nil {
			return fmt.Errorf("config file %s: setting %s: %w", path, key, err)
		}
	}
	return nil
}

// FromEnv は環境変数から設定を読み込みます。数値や期間の形式が不正な場合はエラーを返します。
func FromEnv() (*Config, error) {
	var errs []error
	cfg := &Config{
		Port:          envOr("PORT", DefaultPort),
		GinMode:       os.Getenv("GIN_MODE"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: durationEnv("JWT_EXPIRATION", DefaultJWTExpiration, &errs),
		RefreshTTL:    durationEnv("REFRESH_TOKEN_TTL", DefaultRefreshTTL, &errs),
		MaxSessions:   intEnv("MAX_SESSIONS", 0, &errs),
		TodoCacheTTL:  durationEnv("TODO_CACHE_TTL", DefaultTodoCacheTTL, &errs),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		ALBDNSName:    os.Getenv("ALB_DNS_NAME"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LogFormat:     envOr("LOG_FORMAT", "text"),
		AI: AIConfig{
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
			UseVertexAI:   boolEnv("GOOGLE_GENAI_USE_VERTEXAI", &errs),
			GeminiModel:   envOr("GEMINI_MODEL", DefaultGeminiModel),
			OpenAIBaseURL: strings.TrimRight(envOr("OPENAI_BASE_URL", DefaultOpenAIBaseURL), "/"),
			OpenAIModel:   envOr("OPENAI_MODEL", DefaultOpenAIModel),
			RateLimit:     intEnv("AI_RATE_LIMIT", DefaultAIRateLimit, &errs),
		},
		MCP: MCPConfig{
			Addr: envOr("MCP_ADDR", DefaultMCPAddr),
			Path: envOr("MCP_PATH", DefaultMCPPath),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationEnv は "30m" のような期間表記に加え、整数を分として受け付けます。
func durationEnv(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func intEnv(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func boolEnv(key string, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return false
	}
	return b
}
