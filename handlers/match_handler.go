package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pitchside/fixture-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "matchID")
	if !ok {
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, match)
}

type rescheduleRequest struct {
	StartsAt time.Time `json:"starts_at"`
	VenueID  *int      `json:"venue_id"`
}

func (h *MatchHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "matchID")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.Reschedule(r.Context(), id, req.StartsAt, req.VenueID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, match)
}

func (h *MatchHandler) SwapSides(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "matchID")
	if !ok {
		return
	}

	match, err := h.matchService.SwapSides(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, match)
}

type recordResultRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "matchID")
	if !ok {
		return
	}

	var req recordResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.matchService.RecordResult(r.Context(), id, req.HomeScore, req.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, result)
}

// FindConflicts answers "what would collide with this window" without
// touching anything: GET /conflicts?starts_at=...&ends_at=...&venue_id=...
func (h *MatchHandler) FindConflicts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	startsAt, err := time.Parse(time.RFC3339, q.Get("starts_at"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "starts_at must be a valid RFC3339 timestamp")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, q.Get("ends_at"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "ends_at must be a valid RFC3339 timestamp")
		return
	}

	var venueID *int
	if v := q.Get("venue_id"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			errorResponse(w, http.StatusBadRequest, "venue_id must be an integer")
			return
		}
		venueID = &n
	}

	var excludeMatchID *int
	if v := q.Get("exclude_match_id"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			errorResponse(w, http.StatusBadRequest, "exclude_match_id must be an integer")
			return
		}
		excludeMatchID = &n
	}

	conflicts, err := h.matchService.FindConflicts(r.Context(), startsAt, endsAt, venueID, excludeMatchID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"conflicts": conflicts})
}

func (h *MatchHandler) SuggestAlternatives(w http.ResponseWriter, r *http.Request) {
	venueID, ok := urlParamInt(w, r, "venueID")
	if !ok {
		return
	}

	q := r.URL.Query()
	preferredStart, err := time.Parse(time.RFC3339, q.Get("preferred_start"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "preferred_start must be a valid RFC3339 timestamp")
		return
	}

	durationMinutes, err := strconv.Atoi(q.Get("duration_minutes"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "duration_minutes must be an integer")
		return
	}

	max := 3
	if v := q.Get("max"); v != "" {
		if n, convErr := strconv.Atoi(v); convErr == nil {
			max = n
		}
	}

	suggestions, err := h.matchService.SuggestAlternatives(r.Context(), venueID, preferredStart,
		time.Duration(durationMinutes)*time.Minute, max)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"suggestions": suggestions})
}
