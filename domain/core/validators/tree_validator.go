package validators

import (
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// TreeValidator checks the structural rules of a board's conversation forest.
// It runs over a full node set, typically right after loading from storage.
type TreeValidator struct{}

// NewTreeValidator creates a tree validator
func NewTreeValidator() *TreeValidator {
	return &TreeValidator{}
}

// ValidateStructure verifies parent links, root anchoring, and the
// one-answer-per-question rule across the given nodes.
func (v *TreeValidator) ValidateStructure(boardID string, nodes []*entities.Node) error {
	byID := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	for _, node := range nodes {
		if node.BoardID() != boardID {
			return pkgerrors.NewCorruptStateError("node " + node.ID().String() + " belongs to another board")
		}
		byID[node.ID()] = node
	}

	answered := make(map[valueobjects.NodeID]bool)
	for _, node := range nodes {
		parentID := node.ParentID()

		if parentID == nil {
			if node.Variant() != entities.VariantRootQuestion {
				return pkgerrors.NewCorruptStateError("node " + node.ID().String() + " has no parent but is not a root question")
			}
			continue
		}

		parent, ok := byID[*parentID]
		if !ok {
			return pkgerrors.NewCorruptStateError("node " + node.ID().String() + " references missing parent")
		}

		if node.Variant().IsAnswer() {
			if !parent.Variant().IsQuestion() {
				return pkgerrors.NewCorruptStateError("answer node " + node.ID().String() + " attached to a non-question")
			}
			if answered[*parentID] {
				return pkgerrors.NewCorruptStateError("question " + parentID.String() + " has multiple answers")
			}
			answered[*parentID] = true
		}
	}

	for _, node := range nodes {
		root, ok := byID[node.RootID()]
		if !ok {
			return pkgerrors.NewCorruptStateError("node " + node.ID().String() + " references missing root")
		}
		if root.Variant() != entities.VariantRootQuestion {
			return pkgerrors.NewCorruptStateError("node " + node.ID().String() + " references a non-root as its root")
		}
	}

	return nil
}
