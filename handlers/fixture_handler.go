package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/fixture-engine/models"
	"github.com/pitchside/fixture-engine/services"
)

type FixtureHandler struct {
	fixtureService   services.FixtureService
	matchService     services.MatchService
	standingsService services.StandingsService
}

func NewFixtureHandler(
	fixtureService services.FixtureService,
	matchService services.MatchService,
	standingsService services.StandingsService,
) *FixtureHandler {
	return &FixtureHandler{
		fixtureService:   fixtureService,
		matchService:     matchService,
		standingsService: standingsService,
	}
}

type createFixtureRequest struct {
	Name                 string     `json:"name"`
	Type                 string     `json:"type"`
	Rounds               int        `json:"rounds"`
	MatchDurationMinutes int        `json:"match_duration_minutes"`
	BreakBetweenMinutes  int        `json:"break_between_minutes"`
	VenueIDs             []int      `json:"venue_ids"`
	EarliestStart        time.Time  `json:"earliest_start"`
	LatestEnd            *time.Time `json:"latest_end"`
	MaxMatchesPerVenue   int        `json:"max_matches_per_venue_per_day"`
}

func (h *FixtureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFixtureRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	fixture := &models.Fixture{
		Name:               req.Name,
		Type:               models.FixtureType(req.Type),
		Rounds:             req.Rounds,
		MatchDuration:      time.Duration(req.MatchDurationMinutes) * time.Minute,
		BreakBetween:       time.Duration(req.BreakBetweenMinutes) * time.Minute,
		VenueIDs:           req.VenueIDs,
		EarliestStart:      req.EarliestStart,
		LatestEnd:          req.LatestEnd,
		MaxMatchesPerVenue: req.MaxMatchesPerVenue,
	}

	if err := h.fixtureService.CreateFixture(r.Context(), fixture); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, fixture)
}

func (h *FixtureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "fixtureID")
	if !ok {
		return
	}

	fixture, err := h.fixtureService.GetFixture(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, fixture)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *FixtureHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "fixtureID")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	fixture, err := h.fixtureService.UpdateStatus(r.Context(), id, models.FixtureStatus(req.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, fixture)
}

func (h *FixtureHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "fixtureID")
	if !ok {
		return
	}

	matches, err := h.fixtureService.GenerateSchedule(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches})
}

func (h *FixtureHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "fixtureID")
	if !ok {
		return
	}

	var round *int
	if v := r.URL.Query().Get("round"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequestResponse(w, err)
			return
		}
		round = &n
	}

	var status *models.MatchStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.MatchStatus(v)
		status = &s
	}

	matches, err := h.matchService.ListByFixture(r.Context(), id, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *FixtureHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "fixtureID")
	if !ok {
		return
	}

	table, err := h.standingsService.Recompute(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"standings": table})
}

func urlParamInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		errorResponse(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
