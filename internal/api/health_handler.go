package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/api/shared"
)

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	Len() int
}

// Health returns a handler for GET /health.
func Health(sessions SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:   "ok",
			Sessions: sessions.Len(),
			Time:     time.Now().UTC(),
		})
	}
}
