package handlers

import (
	"net/http"
	"time"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/httpserver/deps"
)

type userDTO struct {
	ID             int64     `json:"id"`
	Nickname       string    `json:"nickname"`
	AuthProvider   string    `json:"authProvider"`
	AuthProviderID string    `json:"authProviderId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type provisionResponse struct {
	User      userDTO `json:"user"`
	IsNewUser bool    `json:"isNewUser"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:             u.ID,
		Nickname:       u.Nickname,
		AuthProvider:   u.AuthProvider,
		AuthProviderID: u.AuthProviderID,
		CreatedAt:      u.CreatedAt,
	}
}

// Me serves GET /api/users/me: the internal user linked to the credential.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Identity.User(r.Context(), bearer(r))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserDTO(u))
	}
}

// ProvisionMe serves POST /api/users/me, called by the web client after
// login. 201 on first login, 200 afterwards.
func ProvisionMe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, created, err := d.Identity.Provision(r.Context(), bearer(r))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, provisionResponse{User: toUserDTO(u), IsNewUser: created})
	}
}
