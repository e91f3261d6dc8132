package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/maumlog/maum-api/internal/domain"
)

type oneShotConsultRequest struct {
	Text string `json:"text"`
}

type oneShotConsultResponse struct {
	Analysis *domain.ConcernAnalysis `json:"analysis"`
	Answer   string                  `json:"answer"`
}

// handleOneShotConsult runs the analyze-then-counsel pipeline on a single
// concern text.
func (s *Server) handleOneShotConsult(w http.ResponseWriter, r *http.Request) {
	var req oneShotConsultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.analyses.Consult(r.Context(), userIDFromContext(r.Context()), req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, oneShotConsultResponse{
		Analysis: result.Analysis,
		Answer:   result.Answer,
	})
}
