package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"store-service/internal/database"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port  string
	DB    DB
	JWT   JWT
	Store Store
	Redis Redis
	Kafka Kafka
	SMTP  SMTP

	NotificationRetention time.Duration
	CartRetention         time.Duration
	CheckoutCooldown      time.Duration
}

type DB struct {
	database.Config
}

type JWT struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessExp time.Duration
}

type Store struct {
	Currency       string
	DefaultCarrier string
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

type Kafka struct {
	Brokers     []string
	OrdersTopic string
	EmailTopic  string
	GroupID     string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	TMPLDir  string
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Load reads required settings strictly and optional ones through viper
// defaults. Callers are expected to have run godotenv.Load already.
func Load(log *zap.Logger) *Config {
	v := optional()

	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		JWT: JWT{
			Secret:    getEnv("JWT_SECRET", log),
			Issuer:    getEnv("JWT_ISSUER", log),
			Audience:  getEnv("JWT_AUDIENCE", log),
			AccessExp: parseDurationWithDays(v.GetString("ACCESS_EXP")),
		},
		Store: Store{
			Currency:       strings.ToUpper(v.GetString("STORE_CURRENCY")),
			DefaultCarrier: v.GetString("DEFAULT_CARRIER"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       atoiDefault(v.GetString("REDIS_DB"), 0),
			CartTTL:  parseDurationWithDays(v.GetString("CART_CACHE_TTL")),
		},
		Kafka: Kafka{
			Brokers:     splitAndTrim(v.GetString("KAFKA_BROKERS")),
			OrdersTopic: v.GetString("KAFKA_TOPIC_ORDERS"),
			EmailTopic:  v.GetString("KAFKA_TOPIC_EMAIL"),
			GroupID:     v.GetString("KAFKA_GROUP_ID"),
		},
		SMTP: SMTP{
			Host:     v.GetString("SMTP_HOST"),
			Port:     atoiDefault(v.GetString("SMTP_PORT"), 465),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			TMPLDir:  v.GetString("TMPL_DIR"),
		},
		NotificationRetention: parseDurationWithDays(v.GetString("NOTIFICATION_RETENTION")),
		CartRetention:         parseDurationWithDays(v.GetString("CART_RETENTION")),
		CheckoutCooldown:      parseDurationWithDays(v.GetString("CHECKOUT_COOLDOWN")),
	}
}

// LoadNotifier reads only what the mail worker needs.
func LoadNotifier(log *zap.Logger) *Config {
	v := optional()

	cfg := &Config{
		Kafka: Kafka{
			Brokers:     splitAndTrim(getEnv("KAFKA_BROKERS", log)),
			OrdersTopic: v.GetString("KAFKA_TOPIC_ORDERS"),
			EmailTopic:  v.GetString("KAFKA_TOPIC_EMAIL"),
			GroupID:     v.GetString("KAFKA_GROUP_ID"),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", log),
			Port:     getEnvInt("SMTP_PORT", log),
			User:     getEnv("SMTP_USER", log),
			Password: getEnv("SMTP_PASSWORD", log),
			From:     getEnv("SMTP_FROM", log),
			TMPLDir:  v.GetString("TMPL_DIR"),
		},
	}
	return cfg
}

// LoadJWT reads only the token settings, for tools that never touch the database.
func LoadJWT(log *zap.Logger) JWT {
	v := optional()
	return JWT{
		Secret:    getEnv("JWT_SECRET", log),
		Issuer:    getEnv("JWT_ISSUER", log),
		Audience:  getEnv("JWT_AUDIENCE", log),
		AccessExp: parseDurationWithDays(v.GetString("ACCESS_EXP")),
	}
}

func optional() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ACCESS_EXP", "24h")
	v.SetDefault("STORE_CURRENCY", "USD")
	v.SetDefault("DEFAULT_CARRIER", "Default Carrier")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("CART_CACHE_TTL", "5m")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC_ORDERS", "store.orders")
	v.SetDefault("KAFKA_TOPIC_EMAIL", "store.email")
	v.SetDefault("KAFKA_GROUP_ID", "store-notifier")

	v.SetDefault("SMTP_PORT", "465")
	v.SetDefault("TMPL_DIR", "templates")

	v.SetDefault("NOTIFICATION_RETENTION", "90d")
	v.SetDefault("CART_RETENTION", "30d")
	v.SetDefault("CHECKOUT_COOLDOWN", "2s")
	return v
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvInt(key string, log *zap.Logger) int {
	valStr := getEnv(key, log)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Error("environment variable is not an int", zap.String("key", key), zap.Error(err))
		panic("invalid int value for environment variable: " + key)
	}
	return val
}

// parseDurationWithDays accepts time.ParseDuration input plus an "Nd" form.
func parseDurationWithDays(s string) time.Duration {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
