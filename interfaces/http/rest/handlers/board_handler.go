package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/commands/bus"
	"ideaflow-backend/application/queries"
	querybus "ideaflow-backend/application/queries/bus"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// BoardHandler handles board-related HTTP requests
type BoardHandler struct {
	commandBus  *bus.CommandBus
	queryBus    *querybus.QueryBus
	createBoard *commands.CreateBoardHandler
	errors      *pkgerrors.ErrorHandler
	logger      *zap.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	createBoard *commands.CreateBoardHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *BoardHandler {
	return &BoardHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		createBoard: createBoard,
		errors:      errors,
		logger:      logger,
	}
}

// CreateBoardRequest represents the request body for creating a board
type CreateBoardRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// UpdateBoardRequest represents the request body for renaming a board
type UpdateBoardRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// CreateBoard handles POST /boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req CreateBoardRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	board, err := h.createBoard.Handle(r.Context(), commands.CreateBoardCommand{
		OwnerID:     user.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, boardView(board))
}

// ListBoards handles GET /boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	page := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListBoardsQuery{
		UserID: user.UserID,
		Limit:  page.PageSize,
		Offset: page.CalculateOffset(),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listed := result.(*queries.ListBoardsResult)
	common.RespondWithMeta(w, http.StatusOK, listed.Boards, &common.MetaInfo{
		Pagination: common.BuildPaginationMeta(page.Page, page.PageSize, listed.Total),
	})
}

// GetBoard handles GET /boards/{boardID}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetBoardQuery{
		BoardID: chi.URLParam(r, "boardID"),
		UserID:  user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetBoardData handles GET /boards/{boardID}/data
func (h *BoardHandler) GetBoardData(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetBoardDataQuery{
		BoardID:        chi.URLParam(r, "boardID"),
		UserID:         user.UserID,
		ViewportWidth:  queryFloat(r, "viewport_width"),
		ViewportHeight: queryFloat(r, "viewport_height"),
		Padding:        queryFloat(r, "padding"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateBoard handles PUT /boards/{boardID}
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req UpdateBoardRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.UpdateBoardCommand{
		BoardID:     chi.URLParam(r, "boardID"),
		OwnerID:     user.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBoard handles DELETE /boards/{boardID}
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.DeleteBoardCommand{
		BoardID: chi.URLParam(r, "boardID"),
		UserID:  user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryFloat parses a float query parameter, zero when absent or malformed
func queryFloat(r *http.Request, key string) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
