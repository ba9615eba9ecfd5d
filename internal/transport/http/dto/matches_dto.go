package dto

import "time"

type UserSummaryResponse struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Bio         string   `json:"bio"`
	City        string   `json:"city"`
	Interests   []string `json:"interests"`
	HasLocation bool     `json:"has_location"`
}

type MatchItemResponse struct {
	MatchID   int64               `json:"match_id"`
	MatchedAt time.Time           `json:"matched_at"`
	User      UserSummaryResponse `json:"user"`
}

type MatchesResponse struct {
	Matches []MatchItemResponse `json:"matches"`
	Count   int                 `json:"count"`
}

type UnmatchRequest struct {
	TargetID string `json:"target_id"`
}
