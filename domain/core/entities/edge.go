package entities

import (
	"fmt"
	"time"

	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Edge is a directed parent-to-child connector rendered on the canvas.
// Edges are derived from the tree structure, never user-drawn, so they stay
// a plain data carrier rather than a rich entity.
type Edge struct {
	ID        string
	BoardID   string
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	CreatedAt time.Time
}

// EdgeID builds the deterministic identifier for a source/target pair.
// Deterministic ids make edge regeneration after reparenting idempotent.
func EdgeID(sourceID, targetID valueobjects.NodeID) string {
	return fmt.Sprintf("e-%s-%s", sourceID.String(), targetID.String())
}

// NewEdge creates the connector from a parent node to its child
func NewEdge(boardID string, sourceID, targetID valueobjects.NodeID) (*Edge, error) {
	if boardID == "" {
		return nil, pkgerrors.NewValidationError("boardID cannot be empty")
	}
	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge endpoints cannot be empty")
	}
	if sourceID.Equals(targetID) {
		return nil, pkgerrors.NewValidationError("edge cannot connect a node to itself")
	}

	return &Edge{
		ID:        EdgeID(sourceID, targetID),
		BoardID:   boardID,
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}, nil
}
