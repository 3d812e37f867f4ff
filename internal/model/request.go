package model

import "strconv"

// Slot names used by the DiningSuggestions intent. The casing matches the
// slot names configured on the platform side.
const (
	SlotLocation       = "Location"
	SlotCuisine        = "Cuisine"
	SlotNumberOfPeople = "NumberOfPeople"
	SlotDiningDate     = "DiningDate"
	SlotDiningTime     = "DiningTime"
	SlotEmail          = "email"
)

// SlotSet holds the slot values collected so far in a dialog session.
// A nil field means the slot has not been filled yet.
type SlotSet struct {
	Location       *string `json:"Location"`
	Cuisine        *string `json:"Cuisine"`
	NumberOfPeople *string `json:"NumberOfPeople"`
	DiningDate     *string `json:"DiningDate"`
	DiningTime     *string `json:"DiningTime"`
	Email          *string `json:"email"`
}

// Clear empties one slot so the platform re-elicits it on the next turn.
func (s *SlotSet) Clear(name string) {
	switch name {
	case SlotLocation:
		s.Location = nil
	case SlotCuisine:
		s.Cuisine = nil
	case SlotNumberOfPeople:
		s.NumberOfPeople = nil
	case SlotDiningDate:
		s.DiningDate = nil
	case SlotDiningTime:
		s.DiningTime = nil
	case SlotEmail:
		s.Email = nil
	}
}

// FulfillmentRequest is the unit of work handed to the queue once a dialog
// completes. Zero values stand for slots that were never collected.
type FulfillmentRequest struct {
	Location       string
	Cuisine        string
	NumberOfPeople int
	DiningDate     string
	DiningTime     string
	Email          string
}

// RequestFromSlots builds a FulfillmentRequest from whatever the session has
// collected. Absent slots map to zero values, not errors; the worker side
// tolerates partial requests.
func RequestFromSlots(s SlotSet) FulfillmentRequest {
	req := FulfillmentRequest{
		Location:   deref(s.Location),
		Cuisine:    deref(s.Cuisine),
		DiningDate: deref(s.DiningDate),
		DiningTime: deref(s.DiningTime),
		Email:      deref(s.Email),
	}
	if s.NumberOfPeople != nil {
		if n, err := strconv.Atoi(*s.NumberOfPeople); err == nil {
			req.NumberOfPeople = n
		}
	}
	return req
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RestaurantRecord is one enriched restaurant from the record store.
type RestaurantRecord struct {
	ID          string  `json:"business_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Address     string  `json:"address"`
}

// CachedResult is the last delivered suggestion set for one requester,
// keyed by email. Last write wins.
type CachedResult struct {
	Email    string `json:"email"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	Body     string `json:"body"`
}
