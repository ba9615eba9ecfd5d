package dto

import "time"

// SwipeBatchItem is one element of the array body accepted by POST
// /swipes.
type SwipeBatchItem struct {
	TargetID  string `json:"target_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	ID        int64     `json:"id"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

type SwipeItemError struct {
	TargetID string `json:"target_id"`
	Reason   string `json:"reason"`
}

type BornMatchResponse struct {
	MatchID       int64     `json:"match_id"`
	CounterpartID string    `json:"counterpart_id"`
	MatchedAt     time.Time `json:"matched_at"`
}

type SwipeBatchResponse struct {
	Created int                 `json:"created"`
	Swipes  []SwipeResponse     `json:"swipes"`
	Matches []BornMatchResponse `json:"matches"`
	Errors  []SwipeItemError    `json:"errors"`
}

type SwipeHistoryItemResponse struct {
	ID        int64               `json:"id"`
	Direction string              `json:"direction"`
	CreatedAt time.Time           `json:"created_at"`
	Target    UserSummaryResponse `json:"target"`
}

type SwipeHistoryResponse struct {
	Swipes []SwipeHistoryItemResponse `json:"swipes"`
	Count  int                        `json:"count"`
}
