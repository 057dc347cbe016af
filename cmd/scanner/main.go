package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studentportal/internal/config"
	"studentportal/internal/queue"
	"studentportal/internal/store"
)

// Scanner reads card ids from stdin, one per line, and queues them for the API.
func main() {
	cfg := config.Load()
	class := flag.String("class", os.Getenv("SCANNER_CLASS"), "class label sent with each scan")
	source := flag.String("source", hostname(), "reader name sent with each scan")
	flag.Parse()

	if cfg.QueueBackend != "redis" {
		log.Fatalf("scanner needs QUEUE_BACKEND=redis, got %q", cfg.QueueBackend)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
		_ = os.Stdin.Close()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Fatalf("redis not reachable at %s", cfg.RedisAddr)
	}
	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)

	log.Printf("scanner ready, class %q; type or swipe a card id and press Enter", *class)
	lines := bufio.NewScanner(os.Stdin)
	for lines.Scan() {
		msg := queue.Message{
			Kind:       queue.KindScan,
			CardID:     lines.Text(),
			ClassLabel: *class,
			Source:     *source,
			SentAt:     time.Now().UTC(),
		}
		if err := q.Publish(ctx, msg); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("publish failed: %v", err)
			continue
		}
		if strings.TrimSpace(msg.CardID) == "" {
			log.Println("queued blank scan")
		}
	}
	if err := lines.Err(); err != nil && ctx.Err() == nil {
		log.Printf("read stdin: %v", err)
	}
	log.Println("scanner stopped")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "scanner"
	}
	return h
}
