// Package prevrecs keeps the last delivered suggestion set per requester
// email. The dialog front-end reads it as the duplicate-request gate; the
// worker overwrites it after every successful render.
package prevrecs

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Store is the Redis-backed previous-results store.
type Store struct {
	rdb *redis.Client
}

// NewStore connects to Redis using REDIS_ADDR.
func NewStore() *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", "redis:6379"),
	})
	return &Store{rdb: rdb}
}

func key(email string) string {
	return fmt.Sprintf("prevrecs:%s", email)
}

// Lookup returns the cached result for an email, or nil if there is none.
// Store errors are logged and read as "no prior result": a flaky cache must
// never break a dialog turn, and absence is the only observable negative.
func (s *Store) Lookup(ctx context.Context, email string) (*model.CachedResult, error) {
	vals, err := s.rdb.HGetAll(ctx, key(email)).Result()
	if err != nil {
		log.Printf("prevrecs: lookup %s: %v", email, err)
		return nil, nil
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return &model.CachedResult{
		Email:    vals["email"],
		Location: vals["location"],
		Cuisine:  vals["cuisine"],
		Body:     vals["body"],
	}, nil
}

// Save overwrites the cached result for res.Email. Last write wins; no TTL.
func (s *Store) Save(ctx context.Context, res model.CachedResult) error {
	return s.rdb.HSet(ctx, key(res.Email), map[string]any{
		"email":    res.Email,
		"location": res.Location,
		"cuisine":  res.Cuisine,
		"body":     res.Body,
	}).Err()
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
