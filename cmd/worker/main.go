package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/config"
	"chitkaraconnect/internal/queue"
	"chitkaraconnect/internal/store"
)

// Worker drains the Redis activity queue into the activity collection.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend != "redis" {
		log.Fatalf("worker needs QUEUE_BACKEND=redis; with %q the API consumes events in-process", cfg.QueueBackend)
	}

	db, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = db.Close(closeCtx)
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis not reachable at %s, will keep retrying", cfg.RedisAddr)
	}

	q := queue.NewRedisQueue(redisClient.Client, "")
	events := activity.NewMongoStore(db, cfg.StoreTimeout)

	if n, err := q.Depth(ctx); err == nil {
		log.Printf("worker started, %d activity events waiting", n)
	} else {
		log.Println("worker started, waiting for activity events...")
	}
	if err := activity.Consume(ctx, q, events); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
	log.Println("worker stopped")
}
