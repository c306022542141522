package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"LISTEN_PORT" env-default:"8080"`
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MYSQL_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"MYSQL_HOST" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"MYSQL_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"MYSQL_USER" env-default:""`
	Password string `yaml:"password" env:"MYSQL_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MYSQL_DATABASE" env-default:"reunion"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"reunion"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	ChatId  int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" env-default:"0"`
}

type EmailConfig struct {
	Enabled   bool   `yaml:"enabled" env:"EMAIL_ENABLED" env-default:"false"`
	ResendKey string `yaml:"resend_key" env:"EMAIL_RESEND_KEY" env-default:""`
	From      string `yaml:"from" env:"EMAIL_FROM" env-default:"ENGG Reunion <reunion@engg2006.com>"`
}

type Config struct {
	Env           string         `yaml:"env" env:"ENV" env-default:"local"`
	SiteURL       string         `yaml:"site_url" env:"SITE_URL" env-default:"https://engg2006.com"`
	WebhookSecret string         `yaml:"webhook_secret" env:"WEBHOOK_SECRET" env-default:""`
	Listen        Listen         `yaml:"listen"`
	MySQL         MySQLConfig    `yaml:"mysql"`
	Mongo         MongoConfig    `yaml:"mongo"`
	Telegram      TelegramConfig `yaml:"telegram"`
	Email         EmailConfig    `yaml:"email"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
