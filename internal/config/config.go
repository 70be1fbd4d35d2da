package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fathima-sithara/chatdb-init/internal/utils"
)

var ErrInvalid = errors.New("invalid config")

type AppConf struct {
	Env string `mapstructure:"env"`
}

type MongoConf struct {
	URI                     string `mapstructure:"uri"`
	Database                string `mapstructure:"database"`
	ConnectTimeoutSeconds   int    `mapstructure:"connect_timeout_seconds"`
	OperationTimeoutSeconds int    `mapstructure:"operation_timeout_seconds"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type MetricsConf struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	Mongo   MongoConf   `mapstructure:"mongodb"`
	Log     LogConf     `mapstructure:"log"`
	Metrics MetricsConf `mapstructure:"metrics"`

	// derived
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

func (c *Config) Development() bool { return c.App.Env == "development" }

func (c *Config) MetricsEnabled() bool { return c.Metrics.PushgatewayURL != "" }

// Load reads path when it exists and layers environment variables on top.
// A missing file is not an error; defaults cover every key.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("mongodb.uri", "MONGODB_URI", "MONGO_URI")
	_ = v.BindEnv("mongodb.database", "MONGODB_DATABASE", "MONGO_DB")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.ConnectTimeout = utils.Seconds(cfg.Mongo.ConnectTimeoutSeconds)
	cfg.OperationTimeout = utils.Seconds(cfg.Mongo.OperationTimeoutSeconds)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "chatdb")
	v.SetDefault("mongodb.connect_timeout_seconds", 15)
	v.SetDefault("mongodb.operation_timeout_seconds", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "chatdb_init")
}

func validate(cfg *Config) error {
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("%w: mongodb.uri missing", ErrInvalid)
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("%w: mongodb.database missing", ErrInvalid)
	}
	if cfg.Mongo.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: mongodb.connect_timeout_seconds must be positive", ErrInvalid)
	}
	if cfg.Mongo.OperationTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: mongodb.operation_timeout_seconds must be positive", ErrInvalid)
	}
	if cfg.MetricsEnabled() && cfg.Metrics.Job == "" {
		return fmt.Errorf("%w: metrics.job required when pushgateway_url is set", ErrInvalid)
	}
	return nil
}
