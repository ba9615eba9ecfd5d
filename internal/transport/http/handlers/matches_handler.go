package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	matchessvc "github.com/vidurapriyadarshana/loca/internal/services/matches"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/dto"
	httperrors "github.com/vidurapriyadarshana/loca/internal/transport/http/errors"
)

type MatchesHandler struct {
	service      *matchessvc.Service
	defaultLimit int
}

func NewMatchesHandler(service *matchessvc.Service, defaultLimit int) *MatchesHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &MatchesHandler{service: service, defaultLimit: defaultLimit}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), h.defaultLimit))
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			MatchID:   item.ID,
			MatchedAt: item.MatchedAt,
			User:      mapSummary(item.Counterpart),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{
		Matches: responseItems,
		Count:   len(responseItems),
	})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	deactivated, err := h.service.Unmatch(r.Context(), identity.UserID, req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid unmatch request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK          bool `json:"ok"`
		Deactivated bool `json:"deactivated"`
	}{
		OK:          true,
		Deactivated: deactivated,
	})
}
