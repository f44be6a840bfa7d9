package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	DatabaseDSN       string
	KafkaBroker       string
	KafkaTopic        string
	KafkaUsername     string
	KafkaPassword     string
	DataFilePath      string
	StatsIntervalMins int
	AllowOrigins      string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	statsInterval := 10
	if raw := os.Getenv("STATS_INTERVAL_MINUTES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Printf("invalid STATS_INTERVAL_MINUTES %q, using default", raw)
		} else {
			statsInterval = n
		}
	}

	dataFile := os.Getenv("DATA_FILE_PATH")
	if dataFile == "" {
		dataFile = "data/initial-data.txt"
	}

	return Config{
		ServerPort:        os.Getenv("SERVER_PORT"),
		DatabaseDSN:       os.Getenv("DATABASE_DSN"),
		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		KafkaTopic:        os.Getenv("KAFKA_TOPIC"),
		KafkaUsername:     os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:     os.Getenv("KAFKA_PASSWORD"),
		DataFilePath:      dataFile,
		StatsIntervalMins: statsInterval,
		AllowOrigins:      os.Getenv("ALLOW_ORIGINS"),
	}
}
