package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nickunderhill/ai-interviewer/internal/api/shared"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/service"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// SessionHandler serves the generation endpoints of a session: starting
// question generation, starting feedback analysis, and reading stored
// feedback.
type SessionHandler struct {
	operationService service.OperationService
	sessions         store.SessionStore
	feedback         store.FeedbackStore
	logger           *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	operationService service.OperationService,
	sessions store.SessionStore,
	feedback store.FeedbackStore,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		operationService: operationService,
		sessions:         sessions,
		feedback:         feedback,
		logger:           logger.With(slog.String("component", "session_handler")),
	}
}

// GenerateQuestion handles POST /sessions/{sessionID}/generate-question. It accepts
// the generation and responds 202 with the pending operation; the question
// itself arrives through operation polling.
func (h *SessionHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sessionID", log)
	if !ok {
		return
	}

	op, err := h.operationService.StartQuestionGeneration(r.Context(), sessionID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("question generation accepted",
		slog.String("session_id", sessionID.String()),
		slog.String("operation_id", op.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusAccepted, OperationAcceptedResponse{
		Operation: NewOperationResponse(op),
	})
}

// AnalyzeFeedback handles POST /sessions/{sessionID}/feedback. It accepts
// the analysis and responds 202 with the pending operation.
func (h *SessionHandler) AnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sessionID", log)
	if !ok {
		return
	}

	op, err := h.operationService.StartFeedbackAnalysis(r.Context(), sessionID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("feedback analysis accepted",
		slog.String("session_id", sessionID.String()),
		slog.String("operation_id", op.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusAccepted, OperationAcceptedResponse{
		Operation: NewOperationResponse(op),
	})
}

// GetFeedback handles GET /sessions/{sessionID}/feedback, returning the
// stored feedback for a session the user owns.
func (h *SessionHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sessionID", log)
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if session.UserID != userID {
		// Same response as a missing session; do not reveal existence.
		HandleAPIError(w, r, store.ErrSessionNotFound, "")
		return
	}

	feedback, err := h.feedback.GetBySession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrFeedbackNotFound) {
			HandleAPIError(w, r, err, "Feedback has not been generated for this session")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewFeedbackResponse(feedback))
}
