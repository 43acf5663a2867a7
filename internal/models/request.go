package models

import (
	"errors"
	"fmt"
	"strings"
)

// EventIdeasRequest asks for themed event concepts.
type EventIdeasRequest struct {
	EventType   string  `json:"eventType"`
	Budget      float64 `json:"budget,omitempty"`
	GuestCount  int     `json:"guestCount,omitempty"`
	Location    string  `json:"location,omitempty"`
	Date        string  `json:"date,omitempty"`
	Preferences string  `json:"preferences,omitempty"`
}

func (r *EventIdeasRequest) Validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return errors.New("eventType is required")
	}
	return validateAmounts(r.Budget, r.GuestCount)
}

// VenueRequest asks for venue recommendations.
type VenueRequest struct {
	EventType    string   `json:"eventType"`
	GuestCount   int      `json:"guestCount,omitempty"`
	Budget       float64  `json:"budget,omitempty"`
	Location     string   `json:"location,omitempty"`
	Date         string   `json:"date,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

func (r *VenueRequest) Validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return errors.New("eventType is required")
	}
	return validateAmounts(r.Budget, r.GuestCount)
}

// QueryRequest carries a free-text search the user typed.
type QueryRequest struct {
	Query string `json:"query"`
}

const maxQueryLength = 2000

func (r *QueryRequest) Validate() error {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		return errors.New("query is required")
	}
	if len(q) > maxQueryLength {
		return fmt.Errorf("query too long (%d bytes, max %d)", len(q), maxQueryLength)
	}
	return nil
}

// MoodBoardRequest asks for a visual direction for an event.
type MoodBoardRequest struct {
	EventType string   `json:"eventType"`
	Theme     string   `json:"theme,omitempty"`
	Style     string   `json:"style,omitempty"`
	Season    string   `json:"season,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

func (r *MoodBoardRequest) Validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return errors.New("eventType is required")
	}
	return nil
}

// BudgetRequest asks for a category breakdown of a total budget.
type BudgetRequest struct {
	EventType         string             `json:"eventType"`
	TotalBudget       float64            `json:"totalBudget"`
	GuestCount        int                `json:"guestCount,omitempty"`
	Priorities        []string           `json:"priorities,omitempty"`
	CurrentAllocation map[string]float64 `json:"currentAllocation,omitempty"`
}

func (r *BudgetRequest) Validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return errors.New("eventType is required")
	}
	if r.TotalBudget <= 0 {
		return errors.New("totalBudget must be positive")
	}
	if r.GuestCount < 0 {
		return errors.New("guestCount must not be negative")
	}
	for category, amount := range r.CurrentAllocation {
		if amount < 0 {
			return fmt.Errorf("currentAllocation[%q] must not be negative", category)
		}
	}
	return nil
}

func validateAmounts(budget float64, guests int) error {
	if budget < 0 {
		return errors.New("budget must not be negative")
	}
	if guests < 0 {
		return errors.New("guestCount must not be negative")
	}
	return nil
}
