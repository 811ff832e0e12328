package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/middleware"
	"pickem-app-go/scoring"
	"pickem-app-go/services"

	"github.com/gorilla/mux"
)

// ScoreHandler serves weekly scores and leaderboards out of the result
// cache, with the client-path fallback when the cache has no record yet.
type ScoreHandler struct {
	orchestrator *services.ScoringOrchestrator
	scoreRepo    *database.MongoWeeklyScoreRepository
	logger       *logging.Logger
	season       int
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(orchestrator *services.ScoringOrchestrator, scoreRepo *database.MongoWeeklyScoreRepository, season int) *ScoreHandler {
	return &ScoreHandler{
		orchestrator: orchestrator,
		scoreRepo:    scoreRepo,
		logger:       logging.WithPrefix("ScoreHandler"),
		season:       season,
	}
}

// GetWeeklyScore returns the caller's score for one league week.
// GET /api/leagues/{code}/scores/{week}
func (h *ScoreHandler) GetWeeklyScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	leagueCode := vars["code"]
	week, err := strconv.Atoi(vars["week"])
	if err != nil || week < 1 || week > 18 {
		http.Error(w, "Invalid week", http.StatusBadRequest)
		return
	}
	season := h.seasonParam(r)

	score, err := h.orchestrator.ComputeWeeklyScore(r.Context(), userID, leagueCode, season, week)
	if err != nil {
		h.logger.Errorf("Failed to compute score for user %d league %s week %d: %v", userID, leagueCode, week, err)
		http.Error(w, "Failed to compute score", http.StatusInternalServerError)
		return
	}

	writeJSON(w, score)
}

// GetWeeklyLeaderboard returns the cached league standings for one week.
// GET /api/leagues/{code}/leaderboard/{week}
func (h *ScoreHandler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leagueCode := vars["code"]
	week, err := strconv.Atoi(vars["week"])
	if err != nil || week < 1 || week > 18 {
		http.Error(w, "Invalid week", http.StatusBadRequest)
		return
	}

	scores, err := h.scoreRepo.FindByLeagueWeek(r.Context(), leagueCode, h.seasonParam(r), week)
	if err != nil {
		h.logger.Errorf("Failed to load leaderboard for league %s week %d: %v", leagueCode, week, err)
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, scores)
}

// GetSeasonLeaderboard returns the cached season standings for a league.
// GET /api/leagues/{code}/leaderboard
func (h *ScoreHandler) GetSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	leagueCode := mux.Vars(r)["code"]

	standings, err := h.scoreRepo.GetSeasonLeaderboard(r.Context(), leagueCode, h.seasonParam(r))
	if err != nil {
		h.logger.Errorf("Failed to load season leaderboard for league %s: %v", leagueCode, err)
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, standings)
}

// NormalizeLine is a diagnostic endpoint exposing the line normalizer, for
// inspecting why a pick graded the way it did.
// GET /api/debug/normalize?spread=KC+-3.5&home=KC&away=LV&total=47.5
func (h *ScoreHandler) NormalizeLine(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	type response struct {
		Spread *scoring.SpreadLine `json:"spread,omitempty"`
		Total  *float64            `json:"total,omitempty"`
	}
	var resp response

	if text := q.Get("spread"); text != "" {
		resp.Spread = scoring.NormalizeSpread(text, q.Get("home"), q.Get("away"))
	}
	if text := q.Get("total"); text != "" {
		if value, ok := scoring.NormalizeTotal(text); ok {
			resp.Total = &value
		}
	}

	writeJSON(w, resp)
}

func (h *ScoreHandler) seasonParam(r *http.Request) int {
	if raw := r.URL.Query().Get("season"); raw != "" {
		if season, err := strconv.Atoi(raw); err == nil {
			return season
		}
	}
	return h.season
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}
