package handlers

import (
	"context"

	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	appservices "ideaflow-backend/application/services"
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/services"
	"ideaflow-backend/pkg/observability"
)

// CreateNodeHandler creates question nodes. Commands without a parent create
// a new root question in the root column; commands with a parent create a
// follow-up placed one column right of it by the layout engine.
type CreateNodeHandler struct {
	loader   *TreeLoader
	nodeRepo ports.NodeRepository
	edges    *appservices.EdgeService
	layout   *services.LayoutEngine
	eventPub ports.EventPublisher
	metrics  *observability.Metrics
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewCreateNodeHandler creates a new handler instance
func NewCreateNodeHandler(
	loader *TreeLoader,
	nodeRepo ports.NodeRepository,
	edges *appservices.EdgeService,
	layout *services.LayoutEngine,
	eventPub ports.EventPublisher,
	metrics *observability.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CreateNodeHandler {
	return &CreateNodeHandler{
		loader:   loader,
		nodeRepo: nodeRepo,
		edges:    edges,
		layout:   layout,
		eventPub: eventPub,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handle executes the create node command
func (h *CreateNodeHandler) Handle(ctx context.Context, cmd commands.CreateNodeCommand) (*entities.Node, error) {
	_, tree, err := h.loader.LoadForUser(ctx, cmd.BoardID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewContentWithConfig(cmd.Content, h.cfg)
	if err != nil {
		return nil, err
	}
	size, err := valueobjects.NewSize(h.cfg.DefaultNodeWidth, h.cfg.DefaultNodeHeight)
	if err != nil {
		return nil, err
	}

	var node *entities.Node
	if cmd.ParentID == "" {
		pos := h.layout.PositionNewRoot(tree)
		node, err = entities.NewRootQuestion(cmd.BoardID, content, pos, size)
	} else {
		var parentID valueobjects.NodeID
		parentID, err = valueobjects.NewNodeIDFromString(cmd.ParentID)
		if err != nil {
			return nil, err
		}
		var parent *entities.Node
		parent, err = tree.FindNode(parentID)
		if err != nil {
			return nil, err
		}
		pos := h.layout.PositionFollowup(tree, parentID)
		position, perr := valueobjects.NewPosition(pos.X, pos.Y)
		if perr != nil {
			return nil, perr
		}
		node, err = entities.NewFollowupQuestion(cmd.BoardID, parent, content, position, size)
	}
	if err != nil {
		return nil, err
	}

	// Check structural invariants before touching the store
	if err := tree.AddNode(node); err != nil {
		return nil, err
	}

	if err := h.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}
	if _, err := h.edges.ConnectToParent(ctx, node); err != nil {
		// Unwind so no node survives without its connector
		if delErr := h.nodeRepo.Delete(ctx, cmd.BoardID, node.ID()); delErr != nil {
			h.logger.Error("failed to unwind node after edge failure",
				zap.String("nodeID", node.ID().String()), zap.Error(delErr))
		}
		return nil, err
	}

	if err := h.eventPub.PublishBatch(ctx, node.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish node events",
			zap.String("nodeID", node.ID().String()), zap.Error(err))
	}
	node.MarkEventsAsCommitted()

	h.metrics.NodesCreatedTotal.WithLabelValues(string(node.Variant())).Inc()
	h.logger.Info("node created",
		zap.String("boardID", cmd.BoardID),
		zap.String("nodeID", node.ID().String()),
		zap.String("variant", string(node.Variant())),
	)
	return node, nil
}
