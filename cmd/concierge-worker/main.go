package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/g-an24/Dining-Concierge-Bot/internal/mailer"
	"github.com/g-an24/Dining-Concierge-Bot/internal/prevrecs"
	"github.com/g-an24/Dining-Concierge-Bot/internal/queue"
	"github.com/g-an24/Dining-Concierge-Bot/internal/records"
	"github.com/g-an24/Dining-Concierge-Bot/internal/search"
	"github.com/g-an24/Dining-Concierge-Bot/internal/suggest"
	"github.com/g-an24/Dining-Concierge-Bot/internal/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		cancel()
	}()

	consumer := queue.NewConsumer()
	defer consumer.Close()

	store, err := records.Open(getEnv("RESTAURANTS_DB", "./data/restaurants.db"))
	if err != nil {
		log.Fatalf("record store: %v", err)
	}
	defer store.Close()

	results := prevrecs.NewStore()
	defer results.Close()

	sampler := suggest.NewSampler(rand.New(rand.NewSource(time.Now().UnixNano())))

	w := worker.New(consumer, search.NewFromEnv(), sampler, store, results, mailer.NewSMTP())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
