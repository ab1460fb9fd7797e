package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/sagas"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/events"
	domainservices "ideaflow-backend/domain/services"
	"ideaflow-backend/pkg/observability"
)

// DeleteNodeHandler removes a question node with its paired answer and
// promotes surviving follow-ups. The writes run as a saga ordered so that no
// intermediate state references a deleted id: reparent first, then add the
// replacement edges, then delete nodes, then drop the stale edges. On a
// mid-saga failure the reparentings are compensated and the caller is
// expected to reload the board from the store.
type DeleteNodeHandler struct {
	loader   *TreeLoader
	nodeRepo ports.NodeRepository
	edgeRepo ports.EdgeRepository
	resolver *domainservices.DeletionResolver
	eventPub ports.EventPublisher
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDeleteNodeHandler creates a new handler instance
func NewDeleteNodeHandler(
	loader *TreeLoader,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	resolver *domainservices.DeletionResolver,
	eventPub ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DeleteNodeHandler {
	return &DeleteNodeHandler{
		loader:   loader,
		nodeRepo: nodeRepo,
		edgeRepo: edgeRepo,
		resolver: resolver,
		eventPub: eventPub,
		metrics:  metrics,
		logger:   logger,
	}
}

// priorParentage remembers a child's tree pointers for compensation
type priorParentage struct {
	child       *entities.Node
	oldParentID *valueobjects.NodeID
	oldRootID   valueobjects.NodeID
}

// Handle executes the delete node command
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd commands.DeleteNodeCommand) error {
	_, tree, err := h.loader.LoadForUser(ctx, cmd.BoardID, cmd.UserID)
	if err != nil {
		return err
	}

	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	plan, err := h.resolver.PlanDeletion(tree, nodeID)
	if err != nil {
		return err
	}

	saga := sagas.NewSaga("delete-node", h.logger)

	if len(plan.Reparentings) > 0 {
		saga.AddStep(sagas.Step{
			Name: "reparent-children",
			Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
				applied := make([]priorParentage, 0, len(plan.Reparentings))
				for _, rep := range plan.Reparentings {
					child, err := tree.FindNode(rep.ChildID)
					if err != nil {
						return applied, err
					}
					prior := priorParentage{
						child:       child,
						oldParentID: child.ParentID(),
						oldRootID:   child.RootID(),
					}
					if err := child.Reparent(rep.NewParentID, rep.NewRootID); err != nil {
						return applied, err
					}
					if err := h.nodeRepo.Save(ctx, child); err != nil {
						return applied, err
					}
					applied = append(applied, prior)
				}
				return applied, nil
			},
			Compensate: func(ctx context.Context, data interface{}) error {
				applied, _ := data.([]priorParentage)
				for _, prior := range applied {
					if err := prior.child.Reparent(prior.oldParentID, prior.oldRootID); err != nil {
						return err
					}
					if err := h.nodeRepo.Save(ctx, prior.child); err != nil {
						return err
					}
				}
				return nil
			},
		})
	}

	if len(plan.EdgesToCreate) > 0 {
		saga.AddStep(sagas.Step{
			Name: "create-replacement-edges",
			Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
				for _, edge := range plan.EdgesToCreate {
					if err := h.edgeRepo.Save(ctx, edge); err != nil {
						return nil, err
					}
				}
				return plan.EdgesToCreate, nil
			},
			Compensate: func(ctx context.Context, _ interface{}) error {
				ids := make([]string, 0, len(plan.EdgesToCreate))
				for _, edge := range plan.EdgesToCreate {
					ids = append(ids, edge.ID)
				}
				return h.edgeRepo.DeleteBatch(ctx, cmd.BoardID, ids)
			},
		})
	}

	saga.AddStep(sagas.Step{
		Name: "delete-nodes",
		Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
			return nil, h.nodeRepo.DeleteBatch(ctx, cmd.BoardID, plan.NodesToDelete)
		},
	})

	if len(plan.EdgesToDelete) > 0 {
		saga.AddStep(sagas.Step{
			Name: "delete-stale-edges",
			Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
				return nil, h.edgeRepo.DeleteBatch(ctx, cmd.BoardID, plan.EdgesToDelete)
			},
		})
	}

	if _, err := saga.Execute(ctx, nil); err != nil {
		return err
	}

	h.metrics.NodesDeletedTotal.Add(float64(len(plan.NodesToDelete)))

	for _, id := range plan.NodesToDelete {
		event := events.NewNodeDeleted(id, cmd.BoardID, time.Now())
		if err := h.eventPub.Publish(ctx, event); err != nil {
			h.logger.Warn("failed to publish node deletion event",
				zap.String("nodeID", id.String()), zap.Error(err))
		}
	}

	h.logger.Info("node deleted",
		zap.String("boardID", cmd.BoardID),
		zap.String("nodeID", cmd.NodeID),
		zap.Int("cascaded", len(plan.NodesToDelete)-1),
		zap.Int("reparented", len(plan.Reparentings)),
	)
	return nil
}
