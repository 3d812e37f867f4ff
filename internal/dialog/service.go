// Package dialog is the conversational front-end: it validates slots turn by
// turn, gates duplicate requests against the previous-results cache, and
// hands completed requests to the fulfillment queue.
package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/g-an24/Dining-Concierge-Bot/internal/mailer"
	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
	"github.com/g-an24/Dining-Concierge-Bot/internal/validate"
)

var validateEvent = validator.New()

// Gate looks up a prior completed result for a requester.
type Gate interface {
	Lookup(ctx context.Context, email string) (*model.CachedResult, error)
}

// Producer enqueues one completed request.
type Producer interface {
	Enqueue(ctx context.Context, req model.FulfillmentRequest) error
}

// Sender delivers a rendered body to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service handles dialog turns. All slot values live in the platform-managed
// SlotSet carried by the event; the service itself keeps no per-session
// state, so one instance serves concurrent turns.
type Service struct {
	gate     Gate
	producer Producer
	sender   Sender
	now      func() time.Time
}

// NewService wires the controller with its collaborators. The clock runs in
// America/New_York, the reference zone for "today" and "in the future"
// checks on user-entered dates and times.
func NewService(gate Gate, producer Producer, sender Sender) *Service {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Cannot happen: the tzdata import above embeds the zone database,
		// so the lookup works even on hosts with no zoneinfo.
		panic(err)
	}
	return &Service{
		gate:     gate,
		producer: producer,
		sender:   sender,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// RegisterRoutes wires the webhook and health endpoints.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/dialog", s.dialogHandler).Methods(http.MethodPost)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Service) dialogHandler(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validateEvent.Struct(ev); err != nil {
		http.Error(w, "invalid dialog event: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.Dispatch(r.Context(), ev)
	if err != nil {
		log.Printf("DialogAPI: dispatch error: %v", err)
		http.Error(w, "dispatch failed", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Dispatch routes one turn by intent name.
func (s *Service) Dispatch(ctx context.Context, ev model.Event) (*model.Response, error) {
	switch ev.CurrentIntent.Name {
	case model.IntentDiningSuggestions:
		return s.diningSuggestions(ctx, ev), nil
	case model.IntentGreeting:
		return model.Close(ev.SessionAttributes, model.StateFulfilled,
			model.PlainText("Hi there, how can I help?")), nil
	case model.IntentThankYou:
		return model.Close(ev.SessionAttributes, model.StateFulfilled,
			model.PlainText("You're welcome.")), nil
	default:
		return nil, fmt.Errorf("dialog: intent %q not supported", ev.CurrentIntent.Name)
	}
}

// diningSuggestions is the slot-filling state machine for the one intent
// that does real work.
//
// DialogCodeHook turns validate the collected slots: the first violation
// clears that slot and re-prompts for it; a clean pass delegates the next
// prompt back to the platform.
//
// Fulfillment turns consult the duplicate gate first. A cached result is
// re-delivered and the dialog reopened at Location so the user can start a
// distinct request. Otherwise the request is built and enqueued
// unconditionally before closing, whether or not an email was collected;
// the worker owns partial requests.
func (s *Service) diningSuggestions(ctx context.Context, ev model.Event) *model.Response {
	slots := ev.CurrentIntent.Slots
	session := ev.SessionAttributes

	if ev.InvocationSource == model.SourceDialogCodeHook {
		verdict := validate.All(slots, s.now())
		if !verdict.Valid {
			slots.Clear(verdict.ViolatedSlot)
			return model.ElicitSlot(session, ev.CurrentIntent.Name, slots, verdict.ViolatedSlot, verdict.Message)
		}
		return model.Delegate(session, slots)
	}

	if slots.Email != nil {
		if prev, err := s.gate.Lookup(ctx, *slots.Email); err == nil && prev != nil {
			if err := s.sender.Send(ctx, prev.Email, mailer.SubjectResend, prev.Body); err != nil {
				log.Printf("DialogAPI: resend to %s failed: %v", prev.Email, err)
			}
			return model.ElicitSlot(session, ev.CurrentIntent.Name, slots, model.SlotLocation,
				model.PlainText("Hi! Your previously suggested recommendations were emailed to you. How else can I assist you today?"))
		}
	}

	req := model.RequestFromSlots(slots)
	if err := s.producer.Enqueue(ctx, req); err != nil {
		log.Printf("DialogAPI: enqueue failed: %v", err)
		return model.Close(session, model.StateFailed,
			model.PlainText("I could not take your request just now, please try again in a moment."))
	}
	return model.Close(session, model.StateFulfilled,
		model.PlainText("You're all set. Expect my suggestions shortly! Have a good day."))
}
