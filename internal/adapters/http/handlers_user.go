package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/maumlog/maum-api/internal/domain"
)

type profileResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	MBTI   string `json:"mbti,omitempty"`
	Gender string `json:"gender,omitempty"`
}

type updateProfileRequest struct {
	MBTI   string `json:"mbti"`
	Gender string `json:"gender"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), req.MBTI, req.Gender)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:     string(u.ID),
		Email:  u.Email,
		MBTI:   string(u.MBTI),
		Gender: string(u.Gender),
	}
}
