package handlers

import (
	"context"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// TreeLoader assembles a board's tree aggregate from its stored nodes and
// edges, after verifying the caller owns the board.
type TreeLoader struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
	edgeRepo  ports.EdgeRepository
	cfg       *config.DomainConfig
}

// NewTreeLoader creates a tree loader
func NewTreeLoader(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	cfg *config.DomainConfig,
) *TreeLoader {
	return &TreeLoader{boardRepo: boardRepo, nodeRepo: nodeRepo, edgeRepo: edgeRepo, cfg: cfg}
}

// LoadForUser returns the board and its tree, rejecting callers who do not
// own the board.
func (l *TreeLoader) LoadForUser(ctx context.Context, boardID, userID string) (*entities.Board, *aggregates.Tree, error) {
	board, err := l.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	if !board.IsOwnedBy(userID) {
		return nil, nil, pkgerrors.NewForbiddenError("board belongs to another user")
	}

	tree, err := l.Load(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	return board, tree, nil
}

// Load returns the tree for a board without an ownership check
func (l *TreeLoader) Load(ctx context.Context, boardID string) (*aggregates.Tree, error) {
	nodes, err := l.nodeRepo.GetByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	edges, err := l.edgeRepo.GetByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return aggregates.LoadTree(boardID, l.cfg, nodes, edges)
}
