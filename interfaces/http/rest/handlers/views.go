package handlers

import (
	"ideaflow-backend/application/queries"
	"ideaflow-backend/domain/core/entities"
)

// boardView converts a board entity into its read model
func boardView(board *entities.Board) queries.BoardView {
	return queries.BoardView{
		ID:          board.ID(),
		Title:       board.Title(),
		Description: board.Description(),
		CreatedAt:   board.CreatedAt(),
		UpdatedAt:   board.UpdatedAt(),
	}
}

// nodeView converts a node entity into its read model
func nodeView(node *entities.Node) queries.NodeView {
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
	if pid := node.ParentID(); pid != nil {
		s := pid.String()
		view.ParentID = &s
	}
	return view
}
