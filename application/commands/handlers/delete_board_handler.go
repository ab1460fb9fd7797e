package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/events"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/observability"
)

// DeleteBoardHandler removes a board and everything on it. No reparenting is
// planned here: the whole forest goes away together, so the contents are
// drained in bulk before the board row itself.
type DeleteBoardHandler struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
	edgeRepo  ports.EdgeRepository
	eventPub  ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewDeleteBoardHandler creates a new handler instance
func NewDeleteBoardHandler(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	eventPub ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DeleteBoardHandler {
	return &DeleteBoardHandler{
		boardRepo: boardRepo,
		nodeRepo:  nodeRepo,
		edgeRepo:  edgeRepo,
		eventPub:  eventPub,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the delete board command
func (h *DeleteBoardHandler) Handle(ctx context.Context, cmd commands.DeleteBoardCommand) error {
	board, err := h.boardRepo.GetByID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if !board.IsOwnedBy(cmd.UserID) {
		return pkgerrors.NewForbiddenError("board belongs to another user")
	}

	edges, err := h.edgeRepo.GetByBoardID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if len(edges) > 0 {
		edgeIDs := make([]string, 0, len(edges))
		for _, edge := range edges {
			edgeIDs = append(edgeIDs, edge.ID)
		}
		if err := h.edgeRepo.DeleteBatch(ctx, cmd.BoardID, edgeIDs); err != nil {
			return err
		}
	}

	nodes, err := h.nodeRepo.GetByBoardID(ctx, cmd.BoardID)
	if err != nil {
		return err
	}
	if len(nodes) > 0 {
		nodeIDs := make([]valueobjects.NodeID, 0, len(nodes))
		for _, node := range nodes {
			nodeIDs = append(nodeIDs, node.ID())
		}
		if err := h.nodeRepo.DeleteBatch(ctx, cmd.BoardID, nodeIDs); err != nil {
			return err
		}
		h.metrics.NodesDeletedTotal.Add(float64(len(nodeIDs)))
	}

	if err := h.boardRepo.Delete(ctx, cmd.BoardID); err != nil {
		return err
	}

	if err := h.eventPub.Publish(ctx, events.NewBoardDeleted(cmd.BoardID, time.Now())); err != nil {
		h.logger.Warn("failed to publish board deletion event",
			zap.String("boardID", cmd.BoardID), zap.Error(err))
	}

	h.logger.Info("board deleted",
		zap.String("boardID", cmd.BoardID),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)),
	)
	return nil
}
