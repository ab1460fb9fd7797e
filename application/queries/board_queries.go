package queries

import (
	"errors"
	"time"

	"ideaflow-backend/domain/core/valueobjects"
)

// BoardView is the read model for a board
type BoardView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NodeView is the read model for a canvas node
type NodeView struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Variant   string    `json:"variant"`
	Content   string    `json:"content"`
	RootID    string    `json:"root_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EdgeView is the read model for a connector
type EdgeView struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// GetBoardQuery fetches a single board's metadata
type GetBoardQuery struct {
	BoardID string `json:"board_id"`
	UserID  string `json:"user_id"`
}

// Validate validates the query
func (q GetBoardQuery) Validate() error {
	if q.BoardID == "" {
		return errors.New("board ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ListBoardsQuery pages through a user's boards
type ListBoardsQuery struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Validate validates the query
func (q ListBoardsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return errors.New("pagination bounds must be non-negative")
	}
	return nil
}

// ListBoardsResult is a page of boards with the total count
type ListBoardsResult struct {
	Boards []BoardView `json:"boards"`
	Total  int         `json:"total"`
}

// GetBoardDataQuery fetches everything needed to render a board: nodes,
// edges, and the fit-to-viewport transform for the caller's viewport.
type GetBoardDataQuery struct {
	BoardID        string  `json:"board_id"`
	UserID         string  `json:"user_id"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	Padding        float64 `json:"padding"`
}

// Validate validates the query
func (q GetBoardDataQuery) Validate() error {
	if q.BoardID == "" {
		return errors.New("board ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.ViewportWidth < 0 || q.ViewportHeight < 0 || q.Padding < 0 {
		return errors.New("viewport dimensions must be non-negative")
	}
	return nil
}

// GetBoardDataResult is the full render payload for one board
type GetBoardDataResult struct {
	Board    BoardView              `json:"board"`
	Nodes    []NodeView             `json:"nodes"`
	Edges    []EdgeView             `json:"edges"`
	Viewport valueobjects.Transform `json:"viewport"`
}

// GetNodeQuery fetches a single node
type GetNodeQuery struct {
	BoardID string `json:"board_id"`
	NodeID  string `json:"node_id"`
	UserID  string `json:"user_id"`
}

// Validate validates the query
func (q GetNodeQuery) Validate() error {
	if q.BoardID == "" {
		return errors.New("board ID is required")
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
