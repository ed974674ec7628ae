package api

import (
	"log/slog"
	"net/http"

	"github.com/nickunderhill/ai-interviewer/internal/api/shared"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/service"
)

// OperationHandler serves operation status polling and manual retries.
type OperationHandler struct {
	operationService service.OperationService
	logger           *slog.Logger
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationService service.OperationService, logger *slog.Logger) *OperationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationHandler{
		operationService: operationService,
		logger:           logger.With(slog.String("component", "operation_handler")),
	}
}

// GetOperation handles GET /operations/{operationID}. Clients poll this
// endpoint until the operation reaches a terminal status.
func (h *OperationHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, operationID, ok := handleUserIDAndPathUUID(w, r, "operationID", log)
	if !ok {
		return
	}

	op, err := h.operationService.GetOperation(r.Context(), operationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewOperationResponse(op))
}

// RetryOperation handles POST /operations/{operationID}/retry. Only failed
// operations can be retried; the response carries the new pending operation.
func (h *OperationHandler) RetryOperation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, operationID, ok := handleUserIDAndPathUUID(w, r, "operationID", log)
	if !ok {
		return
	}

	retry, err := h.operationService.RetryOperation(r.Context(), operationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("operation retry accepted",
		slog.String("parent_operation_id", operationID.String()),
		slog.String("operation_id", retry.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, NewOperationResponse(retry))
}
