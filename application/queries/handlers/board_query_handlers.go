package handlers

import (
	"context"

	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/queries"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/services"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// GetBoardHandler resolves GetBoardQuery
type GetBoardHandler struct {
	boardRepo ports.BoardRepository
}

// NewGetBoardHandler creates a new handler instance
func NewGetBoardHandler(boardRepo ports.BoardRepository) *GetBoardHandler {
	return &GetBoardHandler{boardRepo: boardRepo}
}

// Handle executes the query
func (h *GetBoardHandler) Handle(ctx context.Context, q queries.GetBoardQuery) (*queries.BoardView, error) {
	board, err := h.loadOwned(ctx, q.BoardID, q.UserID)
	if err != nil {
		return nil, err
	}
	view := toBoardView(board)
	return &view, nil
}

func (h *GetBoardHandler) loadOwned(ctx context.Context, boardID, userID string) (*entities.Board, error) {
	board, err := h.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("board belongs to another user")
	}
	return board, nil
}

// ListBoardsHandler resolves ListBoardsQuery
type ListBoardsHandler struct {
	boardRepo ports.BoardRepository
}

// NewListBoardsHandler creates a new handler instance
func NewListBoardsHandler(boardRepo ports.BoardRepository) *ListBoardsHandler {
	return &ListBoardsHandler{boardRepo: boardRepo}
}

// Handle executes the query
func (h *ListBoardsHandler) Handle(ctx context.Context, q queries.ListBoardsQuery) (*queries.ListBoardsResult, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	boards, err := h.boardRepo.GetByOwnerID(ctx, q.UserID, limit, q.Offset)
	if err != nil {
		return nil, err
	}
	total, err := h.boardRepo.CountByOwnerID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.BoardView, 0, len(boards))
	for _, board := range boards {
		views = append(views, toBoardView(board))
	}
	return &queries.ListBoardsResult{Boards: views, Total: total}, nil
}

// GetBoardDataHandler resolves GetBoardDataQuery, the render payload query
type GetBoardDataHandler struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
	edgeRepo  ports.EdgeRepository
	layout    *services.LayoutEngine
	logger    *zap.Logger
}

// NewGetBoardDataHandler creates a new handler instance
func NewGetBoardDataHandler(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	layout *services.LayoutEngine,
	logger *zap.Logger,
) *GetBoardDataHandler {
	return &GetBoardDataHandler{
		boardRepo: boardRepo,
		nodeRepo:  nodeRepo,
		edgeRepo:  edgeRepo,
		layout:    layout,
		logger:    logger,
	}
}

// Handle executes the query
func (h *GetBoardDataHandler) Handle(ctx context.Context, q queries.GetBoardDataQuery) (*queries.GetBoardDataResult, error) {
	board, err := h.boardRepo.GetByID(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(q.UserID) {
		return nil, pkgerrors.NewForbiddenError("board belongs to another user")
	}

	nodes, err := h.nodeRepo.GetByBoardID(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	edges, err := h.edgeRepo.GetByBoardID(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}

	result := &queries.GetBoardDataResult{
		Board: toBoardView(board),
		Nodes: make([]queries.NodeView, 0, len(nodes)),
		Edges: make([]queries.EdgeView, 0, len(edges)),
	}
	for _, node := range nodes {
		result.Nodes = append(result.Nodes, toNodeView(node))
	}
	for _, edge := range edges {
		result.Edges = append(result.Edges, queries.EdgeView{
			ID:       edge.ID,
			SourceID: edge.SourceID.String(),
			TargetID: edge.TargetID.String(),
		})
	}

	// Default viewport keeps the transform sane for clients that do not
	// report their dimensions
	vw, vh := q.ViewportWidth, q.ViewportHeight
	if vw == 0 || vh == 0 {
		vw, vh = 1280, 720
	}
	result.Viewport = h.layout.FitToViewport(nodes, vw, vh, q.Padding)

	return result, nil
}

// GetNodeHandler resolves GetNodeQuery
type GetNodeHandler struct {
	boardRepo ports.BoardRepository
	nodeRepo  ports.NodeRepository
}

// NewGetNodeHandler creates a new handler instance
func NewGetNodeHandler(boardRepo ports.BoardRepository, nodeRepo ports.NodeRepository) *GetNodeHandler {
	return &GetNodeHandler{boardRepo: boardRepo, nodeRepo: nodeRepo}
}

// Handle executes the query
func (h *GetNodeHandler) Handle(ctx context.Context, q queries.GetNodeQuery) (*queries.NodeView, error) {
	board, err := h.boardRepo.GetByID(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(q.UserID) {
		return nil, pkgerrors.NewForbiddenError("board belongs to another user")
	}

	nodeID, err := valueobjects.NewNodeIDFromString(q.NodeID)
	if err != nil {
		return nil, err
	}
	node, err := h.nodeRepo.GetByID(ctx, q.BoardID, nodeID)
	if err != nil {
		return nil, err
	}

	view := toNodeView(node)
	return &view, nil
}

func toBoardView(board *entities.Board) queries.BoardView {
	return queries.BoardView{
		ID:          board.ID(),
		Title:       board.Title(),
		Description: board.Description(),
		CreatedAt:   board.CreatedAt(),
		UpdatedAt:   board.UpdatedAt(),
	}
}

func toNodeView(node *entities.Node) queries.NodeView {
	view := queries.NodeView{
		ID:        node.ID().String(),
		BoardID:   node.BoardID(),
		Variant:   string(node.Variant()),
		Content:   node.Content().Text(),
		RootID:    node.RootID().String(),
		X:         node.Position().X,
		Y:         node.Position().Y,
		Width:     node.Size().Width,
		Height:    node.Size().Height,
		CreatedAt: node.CreatedAt(),
		UpdatedAt: node.UpdatedAt(),
	}
	if parentID := node.ParentID(); parentID != nil {
		s := parentID.String()
		view.ParentID = &s
	}
	return view
}
