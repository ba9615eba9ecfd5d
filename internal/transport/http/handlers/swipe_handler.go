package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	swipesvc "github.com/vidurapriyadarshana/loca/internal/services/swipes"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/dto"
	httperrors "github.com/vidurapriyadarshana/loca/internal/transport/http/errors"
)

type SwipeHandler struct {
	service      *swipesvc.Service
	historyLimit int
}

func NewSwipeHandler(service *swipesvc.Service, historyLimit int) *SwipeHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &SwipeHandler{service: service, historyLimit: historyLimit}
}

// Batch handles POST /swipes. The body is an array of swipe intents; the
// response always reports which items were created, which failed and
// why, and any matches born from the batch. A batch where nothing
// succeeded is answered with 400 and the full error list.
func (h *SwipeHandler) Batch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var body []dto.SwipeBatchItem
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "request body must be an array of swipes")
		return
	}

	items := make([]swipesvc.BatchItem, 0, len(body))
	for _, item := range body {
		items = append(items, swipesvc.BatchItem{
			TargetID:  item.TargetID,
			Direction: item.Direction,
		})
	}

	result, err := h.service.SubmitBatch(r.Context(), identity.UserID, items)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe batch")
		default:
			if bf, ok := swipesvc.IsBatchFailed(err); ok {
				httperrors.Write(w, http.StatusBadRequest, httperrors.BatchError{
					Code:    "BATCH_FAILED",
					Message: "no swipes were created",
					Errors:  mapBatchFailures(bf.Items),
				})
				return
			}
			if tf, ok := swipesvc.IsTooFast(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many swipe batches, slow down",
					RetryAfterSec: tf.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe batch")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, mapBatchResult(identity.UserID, result))
}

// History handles GET /swipes/history. The optional direction query
// accepts LIKE/PASS and the LEFT/RIGHT aliases.
func (h *SwipeHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	items, err := h.service.History(
		r.Context(),
		identity.UserID,
		r.URL.Query().Get("direction"),
		parseIntOrDefault(r.URL.Query().Get("limit"), h.historyLimit),
	)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid history request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load swipe history")
		}
		return
	}

	responseItems := make([]dto.SwipeHistoryItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.SwipeHistoryItemResponse{
			ID:        item.ID,
			Direction: string(item.Direction),
			CreatedAt: item.CreatedAt,
			Target:    mapSummary(item.TargetSummary),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeHistoryResponse{
		Swipes: responseItems,
		Count:  len(responseItems),
	})
}

func mapBatchResult(actorID string, result swipesvc.BatchResult) dto.SwipeBatchResponse {
	swipes := make([]dto.SwipeResponse, 0, len(result.Created))
	for _, rec := range result.Created {
		swipes = append(swipes, dto.SwipeResponse{
			ID:        rec.ID,
			ActorID:   rec.ActorID,
			TargetID:  rec.TargetID,
			Direction: string(rec.Direction),
			CreatedAt: rec.CreatedAt,
		})
	}

	matches := make([]dto.BornMatchResponse, 0, len(result.Matches))
	for _, match := range result.Matches {
		matches = append(matches, dto.BornMatchResponse{
			MatchID:       match.ID,
			CounterpartID: counterpartOf(actorID, match),
			MatchedAt:     match.CreatedAt,
		})
	}

	itemErrors := make([]dto.SwipeItemError, 0, len(result.Errors))
	for _, itemErr := range result.Errors {
		itemErrors = append(itemErrors, dto.SwipeItemError{
			TargetID: itemErr.TargetID,
			Reason:   itemErr.Reason,
		})
	}

	return dto.SwipeBatchResponse{
		Created: len(swipes),
		Swipes:  swipes,
		Matches: matches,
		Errors:  itemErrors,
	}
}

func mapBatchFailures(items []swipesvc.ItemError) []httperrors.BatchItemFail {
	failures := make([]httperrors.BatchItemFail, 0, len(items))
	for _, item := range items {
		failures = append(failures, httperrors.BatchItemFail{
			TargetID: item.TargetID,
			Reason:   item.Reason,
		})
	}
	return failures
}

func counterpartOf(userID string, match pgrepo.MatchRecord) string {
	if match.LowUserID == userID {
		return match.HighUserID
	}
	return match.LowUserID
}

func mapSummary(summary pgrepo.ProfileSummary) dto.UserSummaryResponse {
	interests := summary.Interests
	if interests == nil {
		interests = []string{}
	}
	return dto.UserSummaryResponse{
		UserID:      summary.UserID,
		DisplayName: summary.DisplayName,
		Age:         summary.Age,
		Bio:         summary.Bio,
		City:        summary.City,
		Interests:   interests,
		HasLocation: summary.HasLocation,
	}
}
