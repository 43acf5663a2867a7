package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// The Validate methods on result types are the schema check applied to
// provider output. A result that fails validation is treated exactly like
// an unparseable one.

type EventIdea struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Theme         string   `json:"theme,omitempty"`
	EstimatedCost float64  `json:"estimatedCost"`
	Activities    []string `json:"activities,omitempty"`
}

type EventIdeas struct {
	Ideas []EventIdea `json:"ideas"`
}

func (r *EventIdeas) Validate() error {
	if len(r.Ideas) == 0 {
		return errors.New("at least one idea is required")
	}
	for i, idea := range r.Ideas {
		if strings.TrimSpace(idea.Title) == "" {
			return fmt.Errorf("ideas[%d]: title is required", i)
		}
		if idea.EstimatedCost < 0 {
			return fmt.Errorf("ideas[%d]: estimatedCost must not be negative", i)
		}
	}
	return nil
}

type Venue struct {
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	Capacity       int      `json:"capacity"`
	EstimatedPrice float64  `json:"estimatedPrice"`
	Reason         string   `json:"reason,omitempty"`
	Features       []string `json:"features,omitempty"`
}

type VenueRecommendations struct {
	Venues []Venue `json:"venues"`
}

func (r *VenueRecommendations) Validate() error {
	if len(r.Venues) == 0 {
		return errors.New("at least one venue is required")
	}
	for i, v := range r.Venues {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("venues[%d]: name is required", i)
		}
		if v.Capacity < 0 || v.EstimatedPrice < 0 {
			return fmt.Errorf("venues[%d]: capacity and estimatedPrice must not be negative", i)
		}
	}
	return nil
}

// ParsedQuery is the structured reading of a free-text search.
type ParsedQuery struct {
	Intent     string   `json:"intent"`
	EventType  string   `json:"eventType,omitempty"`
	GuestCount int      `json:"guestCount,omitempty"`
	Budget     float64  `json:"budget,omitempty"`
	Location   string   `json:"location,omitempty"`
	Date       string   `json:"date,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

func (r *ParsedQuery) Validate() error {
	if strings.TrimSpace(r.Intent) == "" {
		return errors.New("intent is required")
	}
	return validateAmounts(r.Budget, r.GuestCount)
}

type MoodBoard struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Palette     []string `json:"palette"`
	Decor       []string `json:"decor,omitempty"`
	Lighting    string   `json:"lighting,omitempty"`
	Florals     []string `json:"florals,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

func (r *MoodBoard) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if len(r.Palette) == 0 {
		return errors.New("palette must list at least one color")
	}
	return nil
}

type Allocation struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Notes      string  `json:"notes,omitempty"`
}

type BudgetPlan struct {
	TotalBudget float64      `json:"totalBudget"`
	Allocations []Allocation `json:"allocations"`
	Tips        []string     `json:"tips,omitempty"`
}

// percentageSlack tolerates rounding in provider-computed percentages.
const percentageSlack = 1.0

func (r *BudgetPlan) Validate() error {
	if len(r.Allocations) == 0 {
		return errors.New("at least one allocation is required")
	}
	var pct float64
	for i, a := range r.Allocations {
		if strings.TrimSpace(a.Category) == "" {
			return fmt.Errorf("allocations[%d]: category is required", i)
		}
		if a.Amount < 0 || a.Percentage < 0 {
			return fmt.Errorf("allocations[%d]: amount and percentage must not be negative", i)
		}
		pct += a.Percentage
	}
	if pct > 100+percentageSlack {
		return fmt.Errorf("allocation percentages sum to %.1f", math.Round(pct*10)/10)
	}
	return nil
}
