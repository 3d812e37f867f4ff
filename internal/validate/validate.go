// Package validate checks dining-suggestion slot values against the domain
// rules. Each check is a pure function producing a verdict; All applies them
// in a fixed priority order so one turn yields at most one re-prompt.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

// Verdict is the outcome of validating one slot. A nil Message on an invalid
// verdict tells the caller to fall back to the platform-configured re-prompt.
type Verdict struct {
	Valid        bool
	ViolatedSlot string
	Message      *model.Message
}

func ok() Verdict {
	return Verdict{Valid: true}
}

func fail(slot, message string) Verdict {
	v := Verdict{ViolatedSlot: slot}
	if message != "" {
		v.Message = model.PlainText(message)
	}
	return v
}

var (
	locations = []string{"manhattan"}
	cuisines  = []string{"chinese", "indian", "italian", "japanese", "korean", "mex"}

	validate   = validator.New()
	emailShape = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// DateFormat is the calendar date layout the platform fills DiningDate with.
const DateFormat = "2006-01-02"

// Location accepts only the cities we have restaurant data for.
func Location(v string) Verdict {
	if contains(locations, v) {
		return ok()
	}
	return fail(model.SlotLocation, fmt.Sprintf(
		"We do not have dining suggestions for %s, would you like suggestions for other locations? Our most popular location is Manhattan", v))
}

// Cuisine accepts only the cuisines present in the search index.
func Cuisine(v string) Verdict {
	if contains(cuisines, v) {
		return ok()
	}
	return fail(model.SlotCuisine, fmt.Sprintf(
		"We do not have suggestions for %s, would you like suggestions for another cuisine? Our most popular cuisine is Italian", v))
}

// PartySize accepts integers strictly between 0 and 30. Non-numeric input is
// a validation failure, not an error.
func PartySize(v string) Verdict {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 || n >= 30 {
		return fail(model.SlotNumberOfPeople, fmt.Sprintf(
			"%s does not look like a valid number, please enter a number less than 30", v))
	}
	return ok()
}

// Date accepts a calendar date that is today or later, relative to now.
func Date(v string, now time.Time) Verdict {
	d, err := time.ParseInLocation(DateFormat, v, now.Location())
	if err != nil {
		return fail(model.SlotDiningDate,
			"I did not understand that, what date would you like for your suggestion?")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fail(model.SlotDiningDate,
			"You can pick a date from today onwards. What day would you like for your suggestion?")
	}
	return ok()
}

// Time accepts an HH:MM value. When the dining date is today, the requested
// time must be strictly after now. A malformed value fails with no message so
// the platform uses its own configured re-prompt.
func Time(v, date string, now time.Time) Verdict {
	if len(v) != 5 || v[2] != ':' {
		return fail(model.SlotDiningTime, "")
	}
	hour, errH := strconv.Atoi(v[:2])
	minute, errM := strconv.Atoi(v[3:])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fail(model.SlotDiningTime, "")
	}

	if d, err := time.ParseInLocation(DateFormat, date, now.Location()); err == nil {
		sameDay := d.Year() == now.Year() && d.Month() == now.Month() && d.Day() == now.Day()
		if sameDay {
			requested := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !requested.After(now) {
				return fail(model.SlotDiningTime, "Please select a time in the future.")
			}
		}
	}
	return ok()
}

// Email accepts a local@domain.tld address with an ASCII local part and a
// TLD of at least two letters.
func Email(v string) Verdict {
	if validate.Var(v, "required,email") != nil || !emailShape.MatchString(v) {
		return fail(model.SlotEmail, fmt.Sprintf(
			"%s is not a valid email, please enter a valid email", v))
	}
	return ok()
}

// All validates every collected slot in priority order and returns the first
// failure. Slots that have not been filled yet are skipped; absence is not a
// violation. The order is part of the contract: it decides which single
// re-prompt the user sees on a turn with several bad values.
func All(slots model.SlotSet, now time.Time) Verdict {
	if slots.Location != nil {
		if v := Location(*slots.Location); !v.Valid {
			return v
		}
	}
	if slots.Cuisine != nil {
		if v := Cuisine(*slots.Cuisine); !v.Valid {
			return v
		}
	}
	if slots.NumberOfPeople != nil {
		if v := PartySize(*slots.NumberOfPeople); !v.Valid {
			return v
		}
	}
	if slots.DiningDate != nil {
		if v := Date(*slots.DiningDate, now); !v.Valid {
			return v
		}
	}
	if slots.DiningTime != nil {
		date := ""
		if slots.DiningDate != nil {
			date = *slots.DiningDate
		}
		if v := Time(*slots.DiningTime, date, now); !v.Valid {
			return v
		}
	}
	if slots.Email != nil {
		if v := Email(*slots.Email); !v.Valid {
			return v
		}
	}
	return ok()
}

func contains(list []string, v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
