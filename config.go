package main

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port         string
	Env          string
	MongoURL     string
	MongoDB      string
	JWTSecret    string
	KafkaBrokers []string
	OrderTopic   string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8086"),
		Env:        getEnv("APP_ENV", "development"),
		MongoURL:   getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "marketplace"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		OrderTopic: getEnv("ORDER_TOPIC", "order.events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
