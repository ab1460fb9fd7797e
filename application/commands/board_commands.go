package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/core/entities"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// MaxTitleLength caps board titles
const MaxTitleLength = 200

// CreateBoardCommand represents the command to create a new board
type CreateBoardCommand struct {
	OwnerID     string `json:"owner_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Validate validates the command
func (cmd CreateBoardCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	return nil
}

// CreateBoardHandler handles the CreateBoardCommand
type CreateBoardHandler struct {
	boardRepo ports.BoardRepository
	eventPub  ports.EventPublisher
	logger    *zap.Logger
}

// NewCreateBoardHandler creates a new handler instance
func NewCreateBoardHandler(boardRepo ports.BoardRepository, eventPub ports.EventPublisher, logger *zap.Logger) *CreateBoardHandler {
	return &CreateBoardHandler{boardRepo: boardRepo, eventPub: eventPub, logger: logger}
}

// Handle executes the create board command
func (h *CreateBoardHandler) Handle(ctx context.Context, cmd CreateBoardCommand) (*entities.Board, error) {
	board, err := entities.NewBoard(cmd.OwnerID, cmd.Title, cmd.Description)
	if err != nil {
		return nil, err
	}

	if err := h.boardRepo.Save(ctx, board); err != nil {
		return nil, err
	}

	if err := h.eventPub.PublishBatch(ctx, board.GetUncommittedEvents()); err != nil {
		// Events are best effort; the board is already durable
		h.logger.Warn("failed to publish board events", zap.String("boardID", board.ID()), zap.Error(err))
	}
	board.MarkEventsAsCommitted()

	return board, nil
}

// UpdateBoardCommand renames a board
type UpdateBoardCommand struct {
	BoardID     string `json:"board_id" validate:"required"`
	OwnerID     string `json:"owner_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Validate validates the command
func (cmd UpdateBoardCommand) Validate() error {
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	return nil
}

// UpdateBoardHandler handles the UpdateBoardCommand
type UpdateBoardHandler struct {
	boardRepo ports.BoardRepository
	logger    *zap.Logger
}

// NewUpdateBoardHandler creates a new handler instance
func NewUpdateBoardHandler(boardRepo ports.BoardRepository, logger *zap.Logger) *UpdateBoardHandler {
	return &UpdateBoardHandler{boardRepo: boardRepo, logger: logger}
}

// Handle executes the update board command
func (h *UpdateBoardHandler) Handle(ctx context.Context, cmd UpdateBoardCommand) error {
	board, err := h.boardRepo.GetByID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if !board.IsOwnedBy(cmd.OwnerID) {
		return pkgerrors.NewForbiddenError("board belongs to another user")
	}

	if err := board.Rename(cmd.Title, cmd.Description); err != nil {
		return err
	}

	return h.boardRepo.Save(ctx, board)
}
