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

type MongoConfig struct {
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"facture"`
}

type AuthConfig struct {
	Secret        string `yaml:"secret" env:"AUTH_SECRET" env-default:""`
	TokenLifetime int    `yaml:"token_lifetime" env:"AUTH_TOKEN_LIFETIME" env-default:"3600"` // seconds
}

type StorageConfig struct {
	Endpoint     string `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-default:""`
	Region       string `yaml:"region" env:"STORAGE_REGION" env-default:"eu-west-3"`
	AccessKey    string `yaml:"access_key" env:"STORAGE_ACCESS_KEY" env-default:""`
	SecretKey    string `yaml:"secret_key" env:"STORAGE_SECRET_KEY" env-default:""`
	Bucket       string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:""`
	UsePathStyle bool   `yaml:"use_path_style" env:"STORAGE_USE_PATH_STYLE" env-default:"true"`
}

type PdfConfig struct {
	RemoteUrl string `yaml:"remote_url" env:"PDF_REMOTE_URL" env-default:""`
	Timeout   int    `yaml:"timeout" env:"PDF_TIMEOUT" env-default:"30"` // seconds
	NoSandbox bool   `yaml:"no_sandbox" env:"PDF_NO_SANDBOX" env-default:"true"`
}

type MailConfig struct {
	ApiKey    string `yaml:"api_key" env:"MAIL_API_KEY" env-default:""`
	SendUrl   string `yaml:"send_url" env:"MAIL_SEND_URL" env-default:"https://api.sendgrid.com/v3/mail/send"`
	FromEmail string `yaml:"from_email" env:"MAIL_FROM_EMAIL" env-default:""`
}

type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local"`
	Debug       bool          `yaml:"debug" env:"DEBUG" env-default:"false"`
	Listen      Listen        `yaml:"listen"`
	Mongo       MongoConfig   `yaml:"mongo"`
	Auth        AuthConfig    `yaml:"auth"`
	Storage     StorageConfig `yaml:"storage"`
	Pdf         PdfConfig     `yaml:"pdf"`
	Mail        MailConfig    `yaml:"mail"`
	CorsOrigins []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
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
