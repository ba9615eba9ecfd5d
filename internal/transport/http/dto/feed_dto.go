package dto

type CandidateResponse struct {
	UserSummaryResponse
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

type FeedResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Count      int                 `json:"count"`
}
