// Package worker drains the fulfillment queue: one message per iteration is
// resolved against the search index, enriched from the record store,
// rendered, cached, and delivered by email.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/g-an24/Dining-Concierge-Bot/internal/mailer"
	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
	"github.com/g-an24/Dining-Concierge-Bot/internal/queue"
	"github.com/g-an24/Dining-Concierge-Bot/internal/render"
	"github.com/g-an24/Dining-Concierge-Bot/internal/suggest"
)

// Queue is the pull side of the fulfillment channel.
type Queue interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msg kafka.Message) error
	// Reset makes an uncommitted message visible again after a failure.
	Reset()
}

// Index resolves candidate restaurant ids for a cuisine.
type Index interface {
	CandidatesByCuisine(ctx context.Context, cuisine string) ([]string, error)
}

// Sampler picks which candidates get enriched.
type Sampler interface {
	Sample(ids []string, k int) []string
}

// RecordStore resolves one candidate id to its full record.
type RecordStore interface {
	Get(ctx context.Context, id string) (model.RestaurantRecord, error)
}

// ResultStore persists delivered results for the duplicate gate.
type ResultStore interface {
	Save(ctx context.Context, res model.CachedResult) error
}

// Sender delivers the rendered body.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Worker is the fulfillment poll loop. Correctness under several concurrent
// workers rests on the queue's own delivery semantics; the worker itself
// keeps no shared state beyond the stores it writes, where last write wins.
type Worker struct {
	queue   Queue
	index   Index
	sampler Sampler
	records RecordStore
	results ResultStore
	sender  Sender

	fetchWait time.Duration
	opTimeout time.Duration
}

// New wires a worker from its collaborators.
func New(q Queue, index Index, sampler Sampler, records RecordStore, results ResultStore, sender Sender) *Worker {
	return &Worker{
		queue:     q,
		index:     index,
		sampler:   sampler,
		records:   records,
		results:   results,
		sender:    sender,
		fetchWait: 10 * time.Second,
		opTimeout: 15 * time.Second,
	}
}

// Run processes messages until ctx is cancelled. A failed iteration leaves
// its message uncommitted and rewinds the queue so it is redelivered; the
// queue's redelivery is the sole retry strategy, there is no local backoff.
func (w *Worker) Run(ctx context.Context) error {
	log.Println("Worker: consuming fulfillment requests")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Worker: %v", err)
			w.queue.Reset()
		}
	}
}

// RunOnce handles at most one message. An empty queue is a no-op, not an
// error. A non-nil return means the fetched message was left uncommitted.
func (w *Worker) RunOnce(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, w.fetchWait)
	msg, err := w.queue.Fetch(fetchCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("fetch: %w", err)
	}

	req := queue.DecodeRequest(msg)
	log.Printf("Worker: handling request cuisine=%q email=%q", req.Cuisine, req.Email)

	records := w.resolve(ctx, req.Cuisine)
	body := render.Body(records, req)

	if req.Email == "" {
		// A request with no recipient can never be delivered; retrying it
		// forever would only poison the queue. Recorded in DESIGN.md.
		log.Printf("Worker: dropping request with no email (cuisine=%q)", req.Cuisine)
		return w.queue.Commit(ctx, msg)
	}

	// Cache write is best-effort: the gate is a convenience, not the source
	// of truth, so a failure here must not block delivery.
	saveCtx, cancel := context.WithTimeout(ctx, w.opTimeout)
	err = w.results.Save(saveCtx, model.CachedResult{
		Email:    req.Email,
		Location: req.Location,
		Cuisine:  req.Cuisine,
		Body:     body,
	})
	cancel()
	if err != nil {
		log.Printf("Worker: cache write for %s failed: %v", req.Email, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.opTimeout)
	err = w.sender.Send(sendCtx, req.Email, mailer.SubjectFresh, body)
	cancel()
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", req.Email, err)
	}

	return w.queue.Commit(ctx, msg)
}

// resolve turns a cuisine into enriched records: query the index, sample a
// bounded subset, and look each id up in the record store. Every failure
// degrades: an unreachable index means no candidates, and a candidate that
// fails to enrich is dropped rather than failing the turn.
func (w *Worker) resolve(ctx context.Context, cuisine string) []model.RestaurantRecord {
	queryCtx, cancel := context.WithTimeout(ctx, w.opTimeout)
	ids, err := w.index.CandidatesByCuisine(queryCtx, cuisine)
	cancel()
	if err != nil {
		log.Printf("Worker: index query for %q failed: %v", cuisine, err)
		ids = nil
	}

	picked := w.sampler.Sample(ids, suggest.SuggestionCount)

	records := make([]model.RestaurantRecord, 0, len(picked))
	for _, id := range picked {
		getCtx, cancel := context.WithTimeout(ctx, w.opTimeout)
		rec, err := w.records.Get(getCtx, id)
		cancel()
		if err != nil {
			log.Printf("Worker: enrich %s failed: %v", id, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}
