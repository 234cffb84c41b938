package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const DefaultPath = "./config.json"

type Config struct {
	TelegramBotToken    string `mapstructure:"telegram_bot_token"`
	FootballDataToken   string `mapstructure:"football_data_token"`
	FootballDataBaseURL string `mapstructure:"football_data_base_url"`
	DBAddress           string `mapstructure:"db_address"`
	DBUser              string `mapstructure:"db_user"`
	DBPassword          string `mapstructure:"db_password"`
	DBName              string `mapstructure:"db_name"`
	// DBTimeout bounds each store call, e.g. "30s".
	DBTimeout time.Duration `mapstructure:"db_timeout"`
	// RedisAddress enables run locks when set.
	RedisAddress string `mapstructure:"redis_address"`
	// WebhookURL switches the bot from long polling to webhook updates.
	WebhookURL  string `mapstructure:"webhook_url"`
	HTTPAddress string `mapstructure:"http_address"`
	// TriggerToken protects the HTTP triggers; empty leaves them open.
	TriggerToken string `mapstructure:"trigger_token"`
	SyncCron     string `mapstructure:"sync_cron"`
	NotifyCron   string `mapstructure:"notify_cron"`
	Debug        bool   `mapstructure:"debug"`
}

var defaults = map[string]any{
	"telegram_bot_token":     "",
	"football_data_token":    "",
	"football_data_base_url": "https://api.football-data.org/v4",
	"db_address":             ":5432",
	"db_user":                "bot",
	"db_password":            "",
	"db_name":                "bot",
	"db_timeout":             "1m",
	"redis_address":          "",
	"webhook_url":            "",
	"http_address":           ":42069",
	"trigger_token":          "",
	"sync_cron":              "0 6 * * *",
	"notify_cron":            "* * * * *",
	"debug":                  false,
}

// Load reads the JSON config file at path. Environment variables (and a .env file) override its keys,
// e.g. TELEGRAM_BOT_TOKEN overrides telegram_bot_token. A missing file leaves defaults and environment.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "unable to read config file %v", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "unable to open config file %v", path)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unable to unmarshal config")
	}
	return c, nil
}

func (c Config) ValidateSync() error {
	if c.FootballDataToken == "" {
		return errors.New("football_data_token is required")
	}
	return nil
}

func (c Config) ValidateServe() error {
	if c.TelegramBotToken == "" {
		return errors.New("telegram_bot_token is required")
	}
	return c.ValidateSync()
}
