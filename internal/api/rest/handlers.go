package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	repo     *repository.PredictionRepository
	cache    *cache.RedisCache
	htmlPath string
}

// NewHandler creates a new handler.
func NewHandler(repo *repository.PredictionRepository, predictionCache *cache.RedisCache, htmlPath string) *Handler {
	return &Handler{
		repo:     repo,
		cache:    predictionCache,
		htmlPath: htmlPath,
	}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "augur",
	})
}

// GetPredictions returns prediction records, filtered to one date when a
// ?date=YYYY-MM-DD query is given, most recently updated first otherwise.
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		records, err := h.repo.GetByDate(r.Context(), date)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch predictions", err)
			return
		}
		respondJSON(w, http.StatusOK, records)
		return
	}

	limit := 25
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	records, err := h.repo.GetRecent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions", err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetPrediction returns the prediction record for one game id, preferring
// the cache when available.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	if h.cache != nil {
		if set, err := h.cache.GetPredictions(r.Context(), gameID); err == nil {
			respondJSON(w, http.StatusOK, set)
			return
		}
	}

	rec, err := h.repo.GetByGameID(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Prediction not found", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetPage serves the rendered static page.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, h.htmlPath)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
