package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	profilesvc "github.com/vidurapriyadarshana/loca/internal/services/profiles"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/dto"
	httperrors "github.com/vidurapriyadarshana/loca/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Core(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileCoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
		return
	}

	err = h.service.SaveCore(r.Context(), identity.UserID, profilesvc.CoreInput{
		DisplayName: req.DisplayName,
		Birthdate:   birthdate,
		Bio:         req.Bio,
		Interests:   req.Interests,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
		case errors.Is(err, profilesvc.ErrAgeRejected):
			writeBadRequest(w, "AGE_REJECTED", "user must be at least 18")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *ProfileHandler) Location(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	err := h.service.SaveLocation(r.Context(), identity.UserID, profilesvc.LocationInput{
		City: req.City,
		Lat:  req.Lat,
		Lon:  req.Lon,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid location payload")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save location")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	summary, err := h.service.Summary(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
				Code:    "PROFILE_NOT_FOUND",
				Message: "profile is not filled in yet",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MeResponse{Profile: mapSummary(summary)})
}
