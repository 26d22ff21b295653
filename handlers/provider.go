package handlers

import (
	"hirewise/services/provider"
	"hirewise/services/review"
	"hirewise/services/scoring"
)

// ProviderHandler serves provider profiles and their public reliability data.
type ProviderHandler struct {
	Service provider.ProviderService
	Scores  scoring.ScoreService
	Reviews review.ReviewService
}

func NewProviderHandler(ps provider.ProviderService, ss scoring.ScoreService, rs review.ReviewService) *ProviderHandler {
	return &ProviderHandler{Service: ps, Scores: ss, Reviews: rs}
}
