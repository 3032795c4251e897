package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Admin    AdminConfig    `yaml:"admin"`
	Session  SessionConfig  `yaml:"session"`
	Upload   UploadConfig   `yaml:"upload"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Shop     ShopConfig     `yaml:"shop"`
}

type ServerConfig struct {
	AppEnv   string `yaml:"app_env"`
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`
	NodeID   int64  `yaml:"node_id"` // snowflake node for ledger sequences
}

type LoggerConfig struct {
	Level             string `yaml:"level"`
	Encoding          string `yaml:"encoding"`
	DisableCaller     bool   `yaml:"disable_caller"`
	DisableStacktrace bool   `yaml:"disable_stacktrace"`
	FileEnable        bool   `yaml:"file_enable"`
	Filename          string `yaml:"filename"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // postgres, mysql or memory
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"db_name"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime int    `yaml:"conn_max_idle_time"`
	Seed            bool   `yaml:"seed"`
}

// PricingConfig holds the fallbacks used while a ledger is still empty.
type PricingConfig struct {
	DefaultGoldRate   string `yaml:"default_gold_rate"`
	DefaultSilverRate string `yaml:"default_silver_rate"`
	DefaultGST        string `yaml:"default_gst"`
	Currency          string `yaml:"currency"`
}

type AdminConfig struct {
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`      // plaintext, hashed at startup when PasswordHash is empty
	PasswordHash       string `yaml:"password_hash"` // bcrypt
	APIKey             string `yaml:"api_key"`       // gRPC mutations
	LoginRatePerMinute int    `yaml:"login_rate_per_minute"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
	Secure bool   `yaml:"secure"`
	MaxAge int    `yaml:"max_age"`
}

type UploadConfig struct {
	Dir          string   `yaml:"dir"`
	MaxBytes     int64    `yaml:"max_bytes"`
	MaxDimension int      `yaml:"max_dimension"`
	AllowedExt   []string `yaml:"allowed_ext"`
}

type KafkaConfig struct {
	Brokers   []string `yaml:"brokers"`
	RateTopic string   `yaml:"rate_topic"`
	GroupID   string   `yaml:"group_id"`
}

type ShopConfig struct {
	Name     string `yaml:"name"`
	Area     string `yaml:"area"`
	Phone    string `yaml:"phone"`
	WhatsApp string `yaml:"whatsapp"`
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":5000"),
			GRPCPort: getEnv("GRPC_PORT", ":8082"),
			NodeID:   int64(getEnvInt("NODE_ID", 1)),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
			FileEnable:        getEnvBool("LOGGER_FILE_ENABLE", false),
			Filename:          getEnv("LOGGER_FILENAME", "logs/jewellery.log"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "jewellery_user"),
			Password:        getEnv("DB_PASSWORD", "jewellery_pass123"),
			DBName:          getEnv("DB_NAME", "jewellery_shop"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 3600),
			ConnMaxIdleTime: getEnvInt("DB_CONN_MAX_IDLE_TIME", 60),
			Seed:            getEnvBool("DB_SEED", true),
		},
		Pricing: PricingConfig{
			DefaultGoldRate:   getEnv("DEFAULT_GOLD_RATE", "6450"),
			DefaultSilverRate: getEnv("DEFAULT_SILVER_RATE", "78"),
			DefaultGST:        getEnv("DEFAULT_GST", "3"),
			Currency:          getEnv("PRICE_CURRENCY", "INR"),
		},
		Admin: AdminConfig{
			Username:           getEnv("ADMIN_USERNAME", "admin"),
			Password:           getEnv("ADMIN_PASSWORD", ""),
			PasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
			APIKey:             getEnv("ADMIN_API_KEY", ""),
			LoginRatePerMinute: getEnvInt("ADMIN_LOGIN_RATE", 5),
		},
		Session: SessionConfig{
			Secret: getEnv("SECRET_KEY", "jewellery-shop-secret-key-change-this"),
			Secure: getEnvBool("SESSION_COOKIE_SECURE", false),
			MaxAge: getEnvInt("SESSION_MAX_AGE", 86400),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "static/uploads"),
			MaxBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 16*1024*1024)),
			MaxDimension: getEnvInt("UPLOAD_MAX_DIMENSION", 800),
			AllowedExt:   getEnvSlice("UPLOAD_ALLOWED_EXT", []string{"png", "jpg", "jpeg", "gif"}),
		},
		Kafka: KafkaConfig{
			Brokers:   getEnvSlice("KAFKA_BROKERS", nil),
			RateTopic: getEnv("KAFKA_RATE_TOPIC", "rates.published"),
			GroupID:   getEnv("KAFKA_GROUP_RATES", "jewellery-rates"),
		},
		Shop: ShopConfig{
			Name:     getEnv("SHOP_NAME", "মানালী জুয়েলার্স"),
			Area:     getEnv("SHOP_AREA", "কুথানগর, নজিরা"),
			Phone:    getEnv("SHOP_PHONE", "+919876543210"),
			WhatsApp: getEnv("SHOP_WHATSAPP", "919876543210"),
		},
	}
}

// Load reads the optional YAML file named by CONFIG_FILE and lets environment
// variables that are explicitly set override it.
func Load() (*Config, error) {
	cfg := LoadEnv()
	path, ok := os.LookupEnv("CONFIG_FILE")
	if !ok || path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	fromFile := &Config{}
	if err := yaml.Unmarshal(data, fromFile); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	return merge(fromFile, cfg), nil
}

// merge fills zero fields of file from env, then re-applies env vars that are set.
func merge(file, env *Config) *Config {
	out := *env
	if file.Server.AppEnv != "" && !isSet("APP_ENV") {
		out.Server.AppEnv = file.Server.AppEnv
	}
	if file.Server.HTTPPort != "" && !isSet("HTTP_PORT") {
		out.Server.HTTPPort = file.Server.HTTPPort
	}
	if file.Server.GRPCPort != "" && !isSet("GRPC_PORT") {
		out.Server.GRPCPort = file.Server.GRPCPort
	}
	if file.Database.Driver != "" && !isSet("DB_DRIVER") {
		out.Database.Driver = file.Database.Driver
	}
	if file.Database.Host != "" && !isSet("DB_HOST") {
		out.Database.Host = file.Database.Host
	}
	if file.Database.Port != "" && !isSet("DB_PORT") {
		out.Database.Port = file.Database.Port
	}
	if file.Database.User != "" && !isSet("DB_USER") {
		out.Database.User = file.Database.User
	}
	if file.Database.Password != "" && !isSet("DB_PASSWORD") {
		out.Database.Password = file.Database.Password
	}
	if file.Database.DBName != "" && !isSet("DB_NAME") {
		out.Database.DBName = file.Database.DBName
	}
	if file.Pricing.DefaultGoldRate != "" && !isSet("DEFAULT_GOLD_RATE") {
		out.Pricing.DefaultGoldRate = file.Pricing.DefaultGoldRate
	}
	if file.Pricing.DefaultSilverRate != "" && !isSet("DEFAULT_SILVER_RATE") {
		out.Pricing.DefaultSilverRate = file.Pricing.DefaultSilverRate
	}
	if file.Pricing.DefaultGST != "" && !isSet("DEFAULT_GST") {
		out.Pricing.DefaultGST = file.Pricing.DefaultGST
	}
	if file.Admin.Username != "" && !isSet("ADMIN_USERNAME") {
		out.Admin.Username = file.Admin.Username
	}
	if file.Admin.PasswordHash != "" && !isSet("ADMIN_PASSWORD_HASH") {
		out.Admin.PasswordHash = file.Admin.PasswordHash
	}
	if file.Admin.APIKey != "" && !isSet("ADMIN_API_KEY") {
		out.Admin.APIKey = file.Admin.APIKey
	}
	if file.Upload.Dir != "" && !isSet("UPLOAD_DIR") {
		out.Upload.Dir = file.Upload.Dir
	}
	if len(file.Kafka.Brokers) > 0 && !isSet("KAFKA_BROKERS") {
		out.Kafka.Brokers = file.Kafka.Brokers
	}
	if file.Shop.Name != "" && !isSet("SHOP_NAME") {
		out.Shop.Name = file.Shop.Name
	}
	if file.Shop.Area != "" && !isSet("SHOP_AREA") {
		out.Shop.Area = file.Shop.Area
	}
	if file.Shop.Phone != "" && !isSet("SHOP_PHONE") {
		out.Shop.Phone = file.Shop.Phone
	}
	if file.Shop.WhatsApp != "" && !isSet("SHOP_WHATSAPP") {
		out.Shop.WhatsApp = file.Shop.WhatsApp
	}
	return &out
}

func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := cast.ToIntE(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := cast.ToBoolE(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		if value == "" {
			return nil
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
