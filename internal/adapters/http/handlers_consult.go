package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	consultapp "github.com/maumlog/maum-api/internal/app/consult"
	"github.com/maumlog/maum-api/internal/domain"
)

type startConsultResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type sendMessageResponse struct {
	Response       string `json:"response"`
	RemainingTurns int    `json:"remaining_turns"`
}

type messageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type getSessionResponse struct {
	SessionID      string            `json:"session_id"`
	MBTI           string            `json:"mbti"`
	Gender         string            `json:"gender"`
	CreatedAt      time.Time         `json:"created_at"`
	Completed      bool              `json:"completed"`
	RemainingTurns int               `json:"remaining_turns"`
	Messages       []messageResponse `json:"messages"`
}

func (s *Server) handleStartConsult(w http.ResponseWriter, r *http.Request) {
	out, err := s.consults.Start(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, startConsultResponse{
		SessionID: string(out.SessionID),
		Greeting:  out.Greeting,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeSendMessage(w, r)
	if !ok {
		return
	}

	out, err := s.consults.SendMessage(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Response:       out.Response,
		RemainingTurns: out.RemainingTurns,
	})
}

// handleStreamMessage delivers the counselor's reply as Server-Sent Events,
// one delta event per fragment, flushed as it arrives.
func (s *Server) handleStreamMessage(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeSendMessage(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	started := false
	startStream := func() {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		started = true
	}

	err := s.consults.StreamMessage(r.Context(), in, func(fragment string) error {
		if !started {
			startStream()
		}
		payload, err := json.Marshal(map[string]string{"content": fragment})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: delta\ndata: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Preconditions failed before any fragment went out: plain error reply.
		if !started {
			writeDomainError(w, r, err)
			return
		}
		fmt.Fprintf(w, "event: error\ndata: {}\n\n")
		flusher.Flush()
		return
	}
	if !started {
		startStream()
	}

	fmt.Fprintf(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := domain.SessionID(chi.URLParam(r, "sessionID"))

	session, err := s.consults.Timeline(r.Context(), sessionID, userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	msgs := session.Messages()
	out := getSessionResponse{
		SessionID:      string(session.ID()),
		MBTI:           string(session.MBTI()),
		Gender:         string(session.Gender()),
		CreatedAt:      session.CreatedAt(),
		Completed:      session.IsCompleted(),
		RemainingTurns: session.RemainingTurns(),
		Messages:       make([]messageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, messageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) decodeSendMessage(w http.ResponseWriter, r *http.Request) (consultapp.SendMessageInput, bool) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return consultapp.SendMessageInput{}, false
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return consultapp.SendMessageInput{}, false
	}

	return consultapp.SendMessageInput{
		SessionID: domain.SessionID(chi.URLParam(r, "sessionID")),
		UserID:    userIDFromContext(r.Context()),
		Content:   req.Content,
	}, true
}
