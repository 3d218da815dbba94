package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver    string // postgres / mysql
	DatabaseURL string // あればPOSTGRES_*/MYSQL_*より優先

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	MySQLUser     string
	MySQLPassword string
	MySQLDB       string
	MySQLHost     string
	MySQLPort     int

	JWTSecret string // ストアオーナーのBearerトークン検証用

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	FrontendStoreURL string   // 決済後の戻り先（/cart?success=1 など）
	CORSAllowOrigins []string // 空なら *

	RedisAddr       string   // 空ならwebhookの重複チェックはDBだけ
	KafkaBrokers    []string // 空ならイベント送信しない
	KafkaOrderTopic string
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	myPort, err := atoiDefault("MYSQL_PORT", 3306)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "app"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		MySQLUser:     getenv("MYSQL_USER", "app"),
		MySQLPassword: getenv("MYSQL_PASSWORD", "app"),
		MySQLDB:       getenv("MYSQL_DATABASE", "app"),
		MySQLHost:     getenv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:     myPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:      strings.ToLower(getenv("STRIPE_CURRENCY", "usd")),

		FrontendStoreURL: strings.TrimRight(os.Getenv("FRONTEND_STORE_URL"), "/"),
		CORSAllowOrigins: splitCSV(os.Getenv("CORS_ALLOW_ORIGINS")),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "store.orders"),
	}

	switch cfg.DBDriver {
	case "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or mysql: %q", cfg.DBDriver)
	}

	return cfg, nil
}

// APIサーバーとして起動するときの必須チェック
func (c Config) RequireServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.FrontendStoreURL == "" {
		return fmt.Errorf("FRONTEND_STORE_URL is required")
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
