package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/g-an24/Dining-Concierge-Bot/internal/dialog"
	"github.com/g-an24/Dining-Concierge-Bot/internal/mailer"
	"github.com/g-an24/Dining-Concierge-Bot/internal/prevrecs"
	"github.com/g-an24/Dining-Concierge-Bot/internal/queue"
)

func main() {
	gate := prevrecs.NewStore()
	defer gate.Close()

	producer := queue.NewProducer()
	defer producer.Close()

	svc := dialog.NewService(gate, producer, mailer.NewSMTP())

	r := mux.NewRouter()
	svc.RegisterRoutes(r)

	addr := getEnv("CONCIERGE_HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("Concierge dialog API listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
