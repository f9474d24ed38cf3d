package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env if GO_ENV is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		// A missing .env file is fine as long as the variables are exported
		_ = godotenv.Load()
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	PORT         int
	DB_DRIVER    string // "sqlite" (default) or "postgres"
	DB_PATH      string // sqlite database file
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Auth Configuration
	SECRET_KEY string
	JWT_ISSUER string
	// Redis Configuration (optional, login lockout)
	REDIS_URL string
	// Anthropic Configuration
	ANTHROPIC_API_KEY string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8000
	}

	// Database defaults
	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" {
		dbDriver = "sqlite"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "iqroai.db"
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		PORT:         port,
		DB_DRIVER:    dbDriver,
		DB_PATH:      dbPath,
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		// Auth
		SECRET_KEY: os.Getenv("SECRET_KEY"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Anthropic
		ANTHROPIC_API_KEY: os.Getenv("ANTHROPIC_API_KEY"),
	}

	// Both secrets are part of the startup contract: refuse to boot without them
	if envVariables.SECRET_KEY == "" {
		return nil, errors.New("SECRET_KEY environment variable is not set")
	}
	if envVariables.ANTHROPIC_API_KEY == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable is not set")
	}

	return envVariables, nil
}
