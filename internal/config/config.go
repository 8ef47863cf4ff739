// Package config reads the service settings from the environment.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Env string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	XRayURL          string
	XRayTimeout      time.Duration
	AvatarArchiveURL string

	KafkaBrokers      string
	KafkaMentionTopic string
	KafkaEventTopic   string
	KafkaGroupID      string

	Workers  int
	HTTPPort string
	GRPCPort string
	LogLevel string

	CaptureEncoding  string
	CaptureRetention time.Duration
	StatsRetention   time.Duration
	JobSchedule      string
}

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:               v.GetString("ENV"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DBDSN:             v.GetString("DB_DSN"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		XRayURL:           v.GetString("XRAY_URL"),
		XRayTimeout:       v.GetDuration("XRAY_TIMEOUT"),
		AvatarArchiveURL:  v.GetString("AVATAR_ARCHIVE_URL"),
		KafkaBrokers:      v.GetString("KAFKA_BROKERS"),
		KafkaMentionTopic: v.GetString("KAFKA_MENTION_TOPIC"),
		KafkaEventTopic:   v.GetString("KAFKA_EVENT_TOPIC"),
		KafkaGroupID:      v.GetString("KAFKA_GROUP_ID"),
		Workers:           v.GetInt("WORKERS"),
		HTTPPort:          v.GetString("HTTP_PORT"),
		GRPCPort:          v.GetString("GRPC_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		CaptureEncoding:   v.GetString("CAPTURE_ENCODING"),
		CaptureRetention:  v.GetDuration("CAPTURE_RETENTION"),
		StatsRetention:    v.GetDuration("STATS_RETENTION"),
		JobSchedule:       v.GetString("JOB_SCHEDULE"),
	}

	SetupLogger(cfg)

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", ".tmp/db/webmention.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("XRAY_URL", "http://localhost:8000")
	v.SetDefault("XRAY_TIMEOUT", "30s")
	v.SetDefault("KAFKA_MENTION_TOPIC", "webmention.incoming")
	v.SetDefault("KAFKA_EVENT_TOPIC", "webmention.events")
	v.SetDefault("KAFKA_GROUP_ID", "webmention")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("HTTP_PORT", "4001")
	v.SetDefault("GRPC_PORT", "4000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CAPTURE_ENCODING", "gzip")
	v.SetDefault("CAPTURE_RETENTION", "168h")
	v.SetDefault("STATS_RETENTION", "720h")
	v.SetDefault("JOB_SCHEDULE", "@every 1h")
}

// SetupLogger applies the log level, and a json formatter outside dev.
func SetupLogger(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Env != "dev" && cfg.Env != "test" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// GetDb opens the configured database. It panics when the database cannot
// be opened, as there is nothing to run without it.
func GetDb(cfg *Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		logrus.Fatalf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Env == "test" {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		panic(err)
	}

	return db
}
