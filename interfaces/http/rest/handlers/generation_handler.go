package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	commandhandlers "ideaflow-backend/application/commands/handlers"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// GenerationHandler handles answer-generation HTTP requests
type GenerationHandler struct {
	generate *commandhandlers.GenerateAnswerOrchestrator
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(
	generate *commandhandlers.GenerateAnswerOrchestrator,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		generate: generate,
		errors:   errors,
		logger:   logger,
	}
}

// GenerateAnswer handles POST /boards/{boardID}/nodes/{nodeID}/generate.
// The request blocks until the answer node is persisted or generation fails;
// a second request for the same question while one is running gets a conflict.
func (h *GenerationHandler) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	answer, err := h.generate.Handle(r.Context(), commands.GenerateAnswerCommand{
		QuestionID: chi.URLParam(r, "nodeID"),
		BoardID:    chi.URLParam(r, "boardID"),
		UserID:     user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, nodeView(answer))
}
