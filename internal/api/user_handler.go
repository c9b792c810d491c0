package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// UserHandler handles the profile service's HTTP requests.
//
// The profile service holds no account database of its own; the verified
// token claims are its source of truth. Routes run behind the soft auth
// gate, which attaches an identity when a valid token is presented and
// otherwise lets the request through anonymously.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /me requests. Returns the caller's profile from their
// verified claims, or 401 when no identity was attached.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserProfile{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	})
}

// GetByID handles GET /{id} requests.
//
// Only the caller's own profile is visible: any other ID answers 404, the
// same indistinguishability rule the task store applies, so the endpoint
// cannot be used to probe which accounts exist.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id != claims.UserID {
		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserProfile{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	})
}
