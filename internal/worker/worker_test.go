package worker

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-an24/Dining-Concierge-Bot/internal/mailer"
	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
	"github.com/g-an24/Dining-Concierge-Bot/internal/queue"
	"github.com/g-an24/Dining-Concierge-Bot/internal/records"
	"github.com/g-an24/Dining-Concierge-Bot/internal/suggest"
)

// --- Fakes ---

type fakeQueue struct {
	msgs      []kafka.Message
	committed []kafka.Message
	resets    int
}

func (q *fakeQueue) Fetch(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		// Mirrors a poll that waits out its deadline on an empty queue.
		return kafka.Message{}, context.DeadlineExceeded
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	return msg, nil
}

func (q *fakeQueue) Commit(ctx context.Context, msg kafka.Message) error {
	q.committed = append(q.committed, msg)
	return nil
}

func (q *fakeQueue) Reset() { q.resets++ }

type fakeIndex struct {
	ids []string
	err error
}

func (i *fakeIndex) CandidatesByCuisine(ctx context.Context, cuisine string) ([]string, error) {
	return i.ids, i.err
}

type fakeResults struct {
	saved []model.CachedResult
	err   error
}

func (r *fakeResults) Save(ctx context.Context, res model.CachedResult) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, res)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	err  error
	sent []sentMail
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// --- Helpers ---

func seededStore(t *testing.T, ids ...string) *records.Store {
	t.Helper()
	s, err := records.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	for _, id := range ids {
		require.NoError(t, s.Put(context.Background(), model.RestaurantRecord{
			ID:          id,
			Name:        "Restaurant " + id,
			Rating:      4.2,
			ReviewCount: 100,
			Address:     "1 Main St",
		}))
	}
	return s
}

func requestMessage(req model.FulfillmentRequest) kafka.Message {
	return kafka.Message{
		Value:   []byte(queue.MarkerBody),
		Headers: queue.EncodeRequest(req),
	}
}

func newTestWorker(q Queue, index Index, store RecordStore, results ResultStore, sender Sender) *Worker {
	sampler := suggest.NewSampler(rand.New(rand.NewSource(1)))
	return New(q, index, sampler, store, results, sender)
}

// --- Tests ---

func TestRunOnceDeliversAndCommits(t *testing.T) {
	// Scenario C: 5 candidates, all enrich, exactly 3 rows delivered.
	req := model.FulfillmentRequest{
		Location:       "manhattan",
		Cuisine:        "mex",
		NumberOfPeople: 2,
		DiningDate:     "2999-06-01",
		DiningTime:     "20:00",
		Email:          "guest@example.com",
	}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	index := &fakeIndex{ids: []string{"r1", "r2", "r3", "r4", "r5"}}
	store := seededStore(t, "r1", "r2", "r3", "r4", "r5")
	results := &fakeResults{}
	sender := &fakeSender{}

	w := newTestWorker(q, index, store, results, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "guest@example.com", sender.sent[0].to)
	assert.Equal(t, mailer.SubjectFresh, sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "Cuisine: mex")
	assert.Equal(t, 3, strings.Count(sender.sent[0].body, "<tr>"))

	require.Len(t, results.saved, 1)
	assert.Equal(t, "guest@example.com", results.saved[0].Email)
	assert.Equal(t, sender.sent[0].body, results.saved[0].Body)

	assert.Len(t, q.committed, 1)
}

func TestRunOnceEmptyQueueIsNoOp(t *testing.T) {
	q := &fakeQueue{}
	sender := &fakeSender{}
	w := newTestWorker(q, &fakeIndex{}, seededStore(t), &fakeResults{}, sender)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Empty(t, sender.sent)
	assert.Empty(t, q.committed)
}

func TestRunOnceDeliveryFailureLeavesUncommitted(t *testing.T) {
	// Scenario D: the send fails, the message stays eligible for redelivery
	// and the cache write that already happened stands.
	req := model.FulfillmentRequest{Cuisine: "mex", Email: "guest@example.com"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	results := &fakeResults{}
	sender := &fakeSender{err: errors.New("smtp down")}

	w := newTestWorker(q, &fakeIndex{ids: []string{"r1", "r2", "r3"}}, seededStore(t, "r1", "r2", "r3"), results, sender)

	err := w.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, q.committed)
	assert.Len(t, results.saved, 1, "no cache rollback")
}

func TestRunOnceIndexFailureDegradesToEmptyResult(t *testing.T) {
	req := model.FulfillmentRequest{Cuisine: "mex", Email: "guest@example.com"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	sender := &fakeSender{}

	w := newTestWorker(q, &fakeIndex{err: errors.New("index unreachable")}, seededStore(t), &fakeResults{}, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, sender.sent, 1, "header-only result still delivered")
	assert.Equal(t, 0, strings.Count(sender.sent[0].body, "<tr>"))
	assert.Len(t, q.committed, 1)
}

func TestRunOnceEnrichmentMissesAreDropped(t *testing.T) {
	req := model.FulfillmentRequest{Cuisine: "italian", Email: "guest@example.com"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	// Only r1 exists: the index claims three candidates but two fail to
	// enrich and are dropped.
	store := seededStore(t, "r1")
	sender := &fakeSender{}

	w := newTestWorker(q, &fakeIndex{ids: []string{"r1", "r2", "r3"}}, store, &fakeResults{}, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, 1, strings.Count(sender.sent[0].body, "<tr>"))
	assert.Contains(t, sender.sent[0].body, "Restaurant r1")
	assert.Len(t, q.committed, 1)
}

func TestRunOnceCacheWriteFailureDoesNotBlockDelivery(t *testing.T) {
	req := model.FulfillmentRequest{Cuisine: "mex", Email: "guest@example.com"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	sender := &fakeSender{}

	w := newTestWorker(q, &fakeIndex{}, seededStore(t), &fakeResults{err: errors.New("redis down")}, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	assert.Len(t, sender.sent, 1)
	assert.Len(t, q.committed, 1)
}

func TestRunOnceMissingEmailIsCommittedWithoutDelivery(t *testing.T) {
	req := model.FulfillmentRequest{Cuisine: "mex"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	results := &fakeResults{}
	sender := &fakeSender{}

	w := newTestWorker(q, &fakeIndex{ids: []string{"r1", "r2", "r3"}}, seededStore(t, "r1", "r2", "r3"), results, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	assert.Empty(t, sender.sent)
	assert.Empty(t, results.saved)
	assert.Len(t, q.committed, 1, "undeliverable request must not loop forever")
}

func TestRunOnceMissingAttributesRenderNotSpecified(t *testing.T) {
	// Only cuisine and email made it onto the message.
	msg := kafka.Message{
		Value: []byte(queue.MarkerBody),
		Headers: []kafka.Header{
			{Key: "Cuisine", Value: []byte("korean")},
			{Key: "email", Value: []byte("guest@example.com")},
		},
	}
	q := &fakeQueue{msgs: []kafka.Message{msg}}
	sender := &fakeSender{}

	w := newTestWorker(q, &fakeIndex{}, seededStore(t), &fakeResults{}, sender)
	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "Cuisine: korean")
	assert.Contains(t, sender.sent[0].body, "Location: not specified")
}

func TestRunResetsQueueAfterFailure(t *testing.T) {
	req := model.FulfillmentRequest{Cuisine: "mex", Email: "guest@example.com"}
	q := &fakeQueue{msgs: []kafka.Message{requestMessage(req)}}
	sender := &fakeSender{err: errors.New("smtp down")}

	w := newTestWorker(q, &fakeIndex{}, seededStore(t), &fakeResults{}, sender)

	// First iteration fails on delivery and rewinds; later iterations see an
	// empty queue until the deadline stops the loop.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, q.resets, 1)
	assert.Empty(t, q.committed)
}
