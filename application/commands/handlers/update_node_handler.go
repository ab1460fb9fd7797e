package handlers

import (
	"context"

	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// MoveNodeHandler persists a node position after a drag gesture. The client
// already shows the node at the new position; a failure here is reported but
// the client keeps its optimistic state and reconciles on the next board load.
type MoveNodeHandler struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
	logger    *zap.Logger
}

// NewMoveNodeHandler creates a new handler instance
func NewMoveNodeHandler(boardRepo ports.BoardRepository, nodeRepo ports.NodeRepository, logger *zap.Logger) *MoveNodeHandler {
	return &MoveNodeHandler{boardRepo: boardRepo, nodeRepo: nodeRepo, logger: logger}
}

// Handle executes the move node command
func (h *MoveNodeHandler) Handle(ctx context.Context, cmd commands.MoveNodeCommand) error {
	board, err := h.boardRepo.GetByID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if !board.IsOwnedBy(cmd.UserID) {
		return pkgerrors.NewForbiddenError("board belongs to another user")
	}

	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}
	node, err := h.nodeRepo.GetByID(ctx, cmd.BoardID, nodeID)
	if err != nil {
		return err
	}

	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return err
	}
	if err := node.MoveTo(position); err != nil {
		return err
	}

	if err := h.nodeRepo.Save(ctx, node); err != nil {
		h.logger.Error("position update lost; client state will diverge until reload",
			zap.String("nodeID", cmd.NodeID),
			zap.Error(err),
		)
		return err
	}
	node.MarkEventsAsCommitted()
	return nil
}

// UpdateNodeContentHandler rewrites a node's text
type UpdateNodeContentHandler struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

// NewUpdateNodeContentHandler creates a new handler instance
func NewUpdateNodeContentHandler(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *UpdateNodeContentHandler {
	return &UpdateNodeContentHandler{boardRepo: boardRepo, nodeRepo: nodeRepo, cfg: cfg, logger: logger}
}

// Handle executes the update content command
func (h *UpdateNodeContentHandler) Handle(ctx context.Context, cmd commands.UpdateNodeContentCommand) error {
	board, err := h.boardRepo.GetByID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if !board.IsOwnedBy(cmd.UserID) {
		return pkgerrors.NewForbiddenError("board belongs to another user")
	}

	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}
	node, err := h.nodeRepo.GetByID(ctx, cmd.BoardID, nodeID)
	if err != nil {
		return err
	}

	content, err := valueobjects.NewContentWithConfig(cmd.Content, h.cfg)
	if err != nil {
		return err
	}
	if err := node.UpdateContent(content); err != nil {
		return err
	}

	if err := h.nodeRepo.Save(ctx, node); err != nil {
		return err
	}
	node.MarkEventsAsCommitted()
	return nil
}
