package api

import (
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// RespondHealth writes the standard health probe body. Exposed so the
// gateway and notifier can answer probes in the same shape as the API
// services.
func RespondHealth(w http.ResponseWriter, r *http.Request, status string) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: status})
}
