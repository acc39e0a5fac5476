package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Env   string
	Port  string
	FEURL string
}

type DataBaseConfig struct {
	URL string
}

type RedisConfig struct {
	URI string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type EmailConfig struct {
	From     string
	Password string
}

type Config struct {
	Server   ServerConfig
	Database DataBaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Email    EmailConfig
	IsDev    bool
}

func validateEnv() {
	environmentVariables := []string{
		// server
		"ENV",
		"PORT",
		"FE_URL",
		// database
		"DB_URL",
		// redis
		"REDIS_URI",
		// object storage
		"STORAGE_ENDPOINT",
		"STORAGE_ACCESS_KEY",
		"STORAGE_SECRET_KEY",
		"STORAGE_BUCKET",
		// email
		"EMAIL_FROM",
		"EMAIL_PASSWORD",
	}
	for _, env := range environmentVariables {
		if os.Getenv(env) == "" {
			log.Fatalf("Environment variable %s is not set", env)
		}
	}

}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	validateEnv()

	return &Config{
		Server: ServerConfig{
			Env:   os.Getenv("ENV"),
			Port:  os.Getenv("PORT"),
			FEURL: os.Getenv("FE_URL"),
		},
		Database: DataBaseConfig{
			URL: os.Getenv("DB_URL"),
		},
		Redis: RedisConfig{
			URI: os.Getenv("REDIS_URI"),
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:    os.Getenv("STORAGE_BUCKET"),
			UseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
		},
		Email: EmailConfig{
			From:     os.Getenv("EMAIL_FROM"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},

		IsDev: os.Getenv("ENV") == "development",
	}
}
