package parse

import "github.com/midunthangavel/fixmyevent-sub001/internal/models"

func ParseEventIdeas(raw string, req models.EventIdeasRequest) models.EventIdeas {
	if v, err := Decode[models.EventIdeas](raw); err == nil {
		return v
	}
	return FallbackEventIdeas(req)
}

func ParseVenues(raw string, req models.VenueRequest) models.VenueRecommendations {
	if v, err := Decode[models.VenueRecommendations](raw); err == nil {
		return v
	}
	return FallbackVenues(req)
}

func ParseQuery(raw string, req models.QueryRequest) models.ParsedQuery {
	if v, err := Decode[models.ParsedQuery](raw); err == nil {
		return v
	}
	return FallbackParsedQuery(req)
}

func ParseMoodBoard(raw string, req models.MoodBoardRequest) models.MoodBoard {
	if v, err := Decode[models.MoodBoard](raw); err == nil {
		return v
	}
	return FallbackMoodBoard(req)
}

func ParseBudgetPlan(raw string, req models.BudgetRequest) models.BudgetPlan {
	if v, err := Decode[models.BudgetPlan](raw); err == nil {
		return v
	}
	return FallbackBudgetPlan(req)
}
