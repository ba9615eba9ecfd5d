package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	feedsvc "github.com/vidurapriyadarshana/loca/internal/services/feed"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/dto"
	httperrors "github.com/vidurapriyadarshana/loca/internal/transport/http/errors"
)

type FeedHandler struct {
	service      *feedsvc.Service
	defaultLimit int
}

func NewFeedHandler(service *feedsvc.Service, defaultLimit int) *FeedHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &FeedHandler{service: service, defaultLimit: defaultLimit}
}

func (h *FeedHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	items, err := h.service.Candidates(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), h.defaultLimit))
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
		case errors.Is(err, feedsvc.ErrViewerNotFound):
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
				Code:    "PROFILE_NOT_FOUND",
				Message: "fill in your profile before browsing",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	responseItems := make([]dto.CandidateResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.CandidateResponse{
			UserSummaryResponse: mapSummary(item.ProfileSummary),
			DistanceKM:          item.DistanceKM,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{
		Candidates: responseItems,
		Count:      len(responseItems),
	})
}
