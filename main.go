package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"social/auth"
	"social/notifier"
	"social/server"
	"social/storage"
	"social/storage/db"
	"social/tasks"
	"social/utils"
)

func runBackgroundTasks(storageManager *storage.Manager) {
	// Expired sessions and old notifications cleanup
	go utils.Recoverer(math.MaxInt, 1, func() {
		tasks.CleanOldData(storageManager)
	})
}

func main() {
	logLevel, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = log.WarnLevel
	}
	log.SetLevel(logLevel)

	ctx := context.Background()
	connectionPool, err := db.Connect(
		ctx,
		fmt.Sprintf(
			"user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			"social",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
		),
	)
	if err != nil {
		panic(err)
	}

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisConnection := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	storageManager := storage.NewManager(connectionPool, redisConnection)
	accounts := auth.NewService(storageManager)
	hub := notifier.NewHub()

	s := server.NewServer(storageManager, accounts, hub)

	// Run background tasks
	runBackgroundTasks(storageManager)

	s.Run()
}
