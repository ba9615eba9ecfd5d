package errors

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

// BatchError carries the per-item failures of a fully failed swipe
// batch so the caller can see why nothing was created.
type BatchError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Errors  []BatchItemFail `json:"errors"`
}

type BatchItemFail struct {
	TargetID string `json:"target_id"`
	Reason   string `json:"reason"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
