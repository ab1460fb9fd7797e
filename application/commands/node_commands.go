package commands

import (
	"errors"
	"math"
)

// MaxContentLength caps node content
const MaxContentLength = 20000

// CreateNodeCommand creates a question node. A command without a parent
// creates a root question; with a parent it creates a follow-up attached to
// that node. Placement is computed server-side by the layout engine.
type CreateNodeCommand struct {
	BoardID  string `json:"board_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	Content  string `json:"content" validate:"required,max=20000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

// Validate validates the command
func (cmd CreateNodeCommand) Validate() error {
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Content == "" {
		return errors.New("content is required")
	}
	if len(cmd.Content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	return nil
}

// MoveNodeCommand repositions a node after a drag gesture. The client has
// already applied the move optimistically; persistence is the reconcile step.
type MoveNodeCommand struct {
	NodeID  string  `json:"node_id" validate:"required,uuid"`
	BoardID string  `json:"board_id" validate:"required"`
	UserID  string  `json:"user_id" validate:"required"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Validate validates the command
func (cmd MoveNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if math.IsNaN(cmd.X) || math.IsInf(cmd.X, 0) || math.IsNaN(cmd.Y) || math.IsInf(cmd.Y, 0) {
		return errors.New("position must be finite")
	}
	return nil
}

// UpdateNodeContentCommand rewrites a node's text
type UpdateNodeContentCommand struct {
	NodeID  string `json:"node_id" validate:"required,uuid"`
	BoardID string `json:"board_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required,max=20000"`
}

// Validate validates the command
func (cmd UpdateNodeContentCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if cmd.Content == "" {
		return errors.New("content is required")
	}
	if len(cmd.Content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	return nil
}

// DeleteNodeCommand removes a question node and its paired answer, promoting
// surviving follow-ups per the deletion plan
type DeleteNodeCommand struct {
	NodeID  string `json:"node_id" validate:"required,uuid"`
	BoardID string `json:"board_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	return nil
}

// DeleteBoardCommand removes a board with everything on it
type DeleteBoardCommand struct {
	BoardID string `json:"board_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteBoardCommand) Validate() error {
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GenerateAnswerCommand asks the model collaborator to answer an existing
// question node. The answer node and its edge are created on success.
type GenerateAnswerCommand struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	BoardID    string `json:"board_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd GenerateAnswerCommand) Validate() error {
	if cmd.QuestionID == "" {
		return errors.New("question ID is required")
	}
	if cmd.BoardID == "" {
		return errors.New("board ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
