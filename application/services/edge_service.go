package services

import (
	"context"

	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
)

// EdgeService maintains the derived parent-to-child connectors. Edges carry
// no information of their own; they mirror the tree's parent pointers, so
// this service is the single place that creates and regenerates them.
type EdgeService struct {
	edgeRepo ports.EdgeRepository
	logger   *zap.Logger
}

// NewEdgeService creates a new edge service
func NewEdgeService(edgeRepo ports.EdgeRepository, logger *zap.Logger) *EdgeService {
	return &EdgeService{edgeRepo: edgeRepo, logger: logger}
}

// ConnectToParent creates the connector for a newly attached node. Roots have
// no parent and get no edge.
func (s *EdgeService) ConnectToParent(ctx context.Context, node *entities.Node) (*entities.Edge, error) {
	parentID := node.ParentID()
	if parentID == nil {
		return nil, nil
	}

	edge, err := entities.NewEdge(node.BoardID(), *parentID, node.ID())
	if err != nil {
		return nil, err
	}
	if err := s.edgeRepo.Save(ctx, edge); err != nil {
		return nil, err
	}

	s.logger.Debug("edge created",
		zap.String("boardID", node.BoardID()),
		zap.String("source", parentID.String()),
		zap.String("target", node.ID().String()),
	)
	return edge, nil
}

// Disconnect removes the connector between two nodes if it exists
func (s *EdgeService) Disconnect(ctx context.Context, boardID string, sourceID, targetID valueobjects.NodeID) error {
	return s.edgeRepo.Delete(ctx, boardID, entities.EdgeID(sourceID, targetID))
}

// RegenerateForBoard rewrites a board's edge set from the given nodes' parent
// pointers, removing connectors that no longer match and creating missing
// ones. Used to repair boards whose stored edges drifted from the tree.
func (s *EdgeService) RegenerateForBoard(ctx context.Context, boardID string, nodes []*entities.Node) error {
	stored, err := s.edgeRepo.GetByBoardID(ctx, boardID)
	if err != nil {
		return err
	}

	wanted := make(map[string]*entities.Edge)
	for _, node := range nodes {
		parentID := node.ParentID()
		if parentID == nil {
			continue
		}
		edge, err := entities.NewEdge(boardID, *parentID, node.ID())
		if err != nil {
			return err
		}
		wanted[edge.ID] = edge
	}

	var stale []string
	for _, edge := range stored {
		if _, ok := wanted[edge.ID]; ok {
			delete(wanted, edge.ID)
		} else {
			stale = append(stale, edge.ID)
		}
	}

	if len(stale) > 0 {
		if err := s.edgeRepo.DeleteBatch(ctx, boardID, stale); err != nil {
			return err
		}
	}
	for _, edge := range wanted {
		if err := s.edgeRepo.Save(ctx, edge); err != nil {
			return err
		}
	}

	if len(stale) > 0 || len(wanted) > 0 {
		s.logger.Info("edges regenerated",
			zap.String("boardID", boardID),
			zap.Int("removed", len(stale)),
			zap.Int("created", len(wanted)),
		)
	}
	return nil
}
