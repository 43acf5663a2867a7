package parse

import (
	"math"
	"strings"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
)

// Canned results used when no provider produced a usable answer. They only
// do arithmetic on request numbers.

// defaultPerGuest prices a guest when the request carries no budget.
const defaultPerGuest = 75.0

func FallbackEventIdeas(req models.EventIdeasRequest) models.EventIdeas {
	base := req.Budget
	if base <= 0 {
		base = float64(max(req.GuestCount, 1)) * defaultPerGuest
	}
	return models.EventIdeas{Ideas: []models.EventIdea{
		{
			Title:         "Classic Celebration",
			Description:   "A timeless gathering with a seated dinner, toasts and live music.",
			Theme:         "classic",
			EstimatedCost: roundCents(base),
			Activities:    []string{"welcome reception", "seated dinner", "live music"},
		},
		{
			Title:         "Garden Party",
			Description:   "An open-air afternoon with light bites, lawn games and string lights.",
			Theme:         "outdoor",
			EstimatedCost: roundCents(base * 0.8),
			Activities:    []string{"lawn games", "photo booth", "dessert bar"},
		},
		{
			Title:         "Intimate Dinner",
			Description:   "A smaller, chef-led dinner focused on food and conversation.",
			Theme:         "intimate",
			EstimatedCost: roundCents(base * 0.6),
			Activities:    []string{"tasting menu", "wine pairing"},
		},
	}}
}

func FallbackVenues(req models.VenueRequest) models.VenueRecommendations {
	capacity := max(req.GuestCount, 50)
	price := req.Budget * 0.4
	if price <= 0 {
		price = float64(capacity) * defaultPerGuest * 0.4
	}
	return models.VenueRecommendations{Venues: []models.Venue{
		{
			Name:           "Banquet Hall",
			Type:           "banquet_hall",
			Capacity:       capacity,
			EstimatedPrice: roundCents(price),
			Reason:         "Flexible layouts with in-house catering and staff.",
			Features:       []string{"catering", "parking", "dance floor"},
		},
		{
			Name:           "Garden Pavilion",
			Type:           "outdoor",
			Capacity:       capacity,
			EstimatedPrice: roundCents(price * 0.85),
			Reason:         "Open-air setting with a covered area for bad weather.",
			Features:       []string{"outdoor space", "tent option"},
		},
		{
			Name:           "Boutique Loft",
			Type:           "loft",
			Capacity:       capacity,
			EstimatedPrice: roundCents(price * 0.7),
			Reason:         "Industrial space that takes custom decor well.",
			Features:       []string{"natural light", "bring your own vendors"},
		},
	}}
}

// maxFallbackKeywords caps keywords taken from the query text.
const maxFallbackKeywords = 10

func FallbackParsedQuery(req models.QueryRequest) models.ParsedQuery {
	words := strings.Fields(strings.ToLower(req.Query))
	if len(words) > maxFallbackKeywords {
		words = words[:maxFallbackKeywords]
	}
	return models.ParsedQuery{
		Intent:   "search",
		Keywords: words,
	}
}

func FallbackMoodBoard(req models.MoodBoardRequest) models.MoodBoard {
	return models.MoodBoard{
		Title:       "Timeless Elegance",
		Description: "Soft neutrals with warm metallic accents and candlelight.",
		Palette:     []string{"#F5F0E6", "#D8C3A5", "#8E8D8A", "#C9A227", "#2F3E46"},
		Decor:       []string{"linen tablecloths", "gold flatware", "taper candles"},
		Lighting:    "warm candlelight with string lights",
		Florals:     []string{"white roses", "eucalyptus", "ranunculus"},
		Keywords:    []string{"elegant", "warm", "romantic"},
	}
}

// budgetSplit is the canned category breakdown, in percent.
var budgetSplit = []struct {
	category string
	percent  float64
	notes    string
}{
	{"venue", 40, "Book early; off-peak dates are cheaper."},
	{"catering", 30, "Per-guest pricing scales with headcount."},
	{"decor", 10, ""},
	{"entertainment", 10, ""},
	{"miscellaneous", 10, "Keep as contingency."},
}

func FallbackBudgetPlan(req models.BudgetRequest) models.BudgetPlan {
	total := math.Max(req.TotalBudget, 0)
	allocations := make([]models.Allocation, 0, len(budgetSplit))
	for _, s := range budgetSplit {
		allocations = append(allocations, models.Allocation{
			Category:   s.category,
			Amount:     roundCents(total * s.percent / 100),
			Percentage: s.percent,
			Notes:      s.notes,
		})
	}
	return models.BudgetPlan{
		TotalBudget: total,
		Allocations: allocations,
		Tips:        []string{"Get at least three vendor quotes.", "Confirm what deposits are refundable."},
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
