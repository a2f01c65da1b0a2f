package main

import (
	"context"
	"log"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/services"

	"github.com/joho/godotenv"
)

// backup-export dumps every table to object storage as JSON. Run it from cron
// or a scheduler; failures exit non-zero so the scheduler can alert.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	config.InitStorage(ctx)
	if config.S3Client == nil {
		log.Fatal("Object storage is not configured (S3_BUCKET)")
	}

	backup := services.NewBackupService(config.DB, config.S3Client, config.StorageBucket())
	if err := backup.Run(ctx); err != nil {
		log.Fatal("Backup export finished with errors: ", err)
	}

	log.Println("Backup export completed")
}
