// Package prompt renders typed task requests into provider-agnostic
// instructions. Builders are pure: the same request always yields the same
// text.
package prompt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
)

// builder accumulates "Label: value" lines, skipping blank values.
type builder struct {
	b strings.Builder
}

func newBuilder(instruction string) *builder {
	p := &builder{}
	p.b.WriteString(instruction)
	p.b.WriteString("\n\n")
	return p
}

func (p *builder) field(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(&p.b, "%s: %s\n", label, value)
}

func (p *builder) money(label string, v float64) {
	if v <= 0 {
		return
	}
	p.field(label, "$"+strconv.FormatFloat(v, 'f', -1, 64))
}

func (p *builder) count(label string, v int) {
	if v <= 0 {
		return
	}
	p.field(label, strconv.Itoa(v))
}

func (p *builder) list(label string, values []string) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	p.field(label, strings.Join(kept, ", "))
}

func (p *builder) shape(schema string) string {
	p.b.WriteString("\nRespond with JSON only, in exactly this shape:\n")
	p.b.WriteString(schema)
	return p.b.String()
}

func EventIdeas(req models.EventIdeasRequest) string {
	p := newBuilder("Generate 3 creative event ideas for the event described below.")
	p.field("Event type", req.EventType)
	p.money("Budget", req.Budget)
	p.count("Guest count", req.GuestCount)
	p.field("Location", req.Location)
	p.field("Date", req.Date)
	p.field("Preferences", req.Preferences)
	return p.shape(`{"ideas":[{"title":"string","description":"string","theme":"string","estimatedCost":0,"activities":["string"]}]}`)
}

func Venues(req models.VenueRequest) string {
	p := newBuilder("Recommend up to 5 venue types suited to the event described below, explaining why each fits.")
	p.field("Event type", req.EventType)
	p.count("Guest count", req.GuestCount)
	p.money("Budget", req.Budget)
	p.field("Location", req.Location)
	p.field("Date", req.Date)
	p.list("Requirements", req.Requirements)
	return p.shape(`{"venues":[{"name":"string","type":"string","capacity":0,"estimatedPrice":0,"reason":"string","features":["string"]}]}`)
}

// Query wraps the user's text in quotes so the model treats it as data.
func Query(req models.QueryRequest) string {
	p := newBuilder("Extract the search intent and any event details from this marketplace search query. " +
		"Leave fields out when the query does not mention them.")
	p.field("Query", strconv.Quote(strings.TrimSpace(req.Query)))
	return p.shape(`{"intent":"search_venues|search_vendors|plan_event|other","eventType":"string","guestCount":0,"budget":0,"location":"string","date":"string","keywords":["string"]}`)
}

func MoodBoard(req models.MoodBoardRequest) string {
	p := newBuilder("Create a mood board describing the visual direction for the event below.")
	p.field("Event type", req.EventType)
	p.field("Theme", req.Theme)
	p.field("Style", req.Style)
	p.field("Season", req.Season)
	p.list("Preferred colors", req.Colors)
	return p.shape(`{"title":"string","description":"string","palette":["#RRGGBB"],"decor":["string"],"lighting":"string","florals":["string"],"keywords":["string"]}`)
}

// Budget lists the current allocation in category order so the prompt is
// stable across map iteration.
func Budget(req models.BudgetRequest) string {
	p := newBuilder("Split the total budget for the event below across spending categories. " +
		"Amounts must add up to the total and percentages to 100.")
	p.field("Event type", req.EventType)
	p.money("Total budget", req.TotalBudget)
	p.count("Guest count", req.GuestCount)
	p.list("Priorities", req.Priorities)

	if len(req.CurrentAllocation) > 0 {
		categories := make([]string, 0, len(req.CurrentAllocation))
		for c := range req.CurrentAllocation {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		current := make([]string, 0, len(categories))
		for _, c := range categories {
			current = append(current, fmt.Sprintf("%s $%s", c, strconv.FormatFloat(req.CurrentAllocation[c], 'f', -1, 64)))
		}
		p.list("Current allocation", current)
	}

	return p.shape(`{"totalBudget":0,"allocations":[{"category":"string","amount":0,"percentage":0,"notes":"string"}],"tips":["string"]}`)
}
