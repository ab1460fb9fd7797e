package services

import (
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Reparenting rewires one surviving child after its ancestor is deleted.
// A nil NewParentID promotes the child to a root of its own tree.
type Reparenting struct {
	ChildID     valueobjects.NodeID
	NewParentID *valueobjects.NodeID
	NewRootID   valueobjects.NodeID
}

// DeletionPlan is the full set of writes that removes a question node while
// keeping the surviving forest well formed. Reparentings apply first, then
// node deletions, then edge rewrites; no intermediate state may reference a
// deleted id.
type DeletionPlan struct {
	NodesToDelete []valueobjects.NodeID
	Reparentings  []Reparenting
	EdgesToDelete []string
	EdgesToCreate []*entities.Edge
}

// DeletionResolver plans the removal of question nodes. Deleting a question
// takes its paired answer with it; the follow-up children underneath are
// promoted one level up, or become independent roots when a root is deleted.
type DeletionResolver struct{}

// NewDeletionResolver creates a deletion resolver
func NewDeletionResolver() *DeletionResolver {
	return &DeletionResolver{}
}

// PlanDeletion computes the plan for deleting the given node. Only question
// variants are deletable; answers go away with their question.
func (r *DeletionResolver) PlanDeletion(tree *aggregates.Tree, nodeID valueobjects.NodeID) (*DeletionPlan, error) {
	target, err := tree.FindNode(nodeID)
	if err != nil {
		return nil, err
	}
	if !target.Variant().IsQuestion() {
		return nil, pkgerrors.NewInvalidOperationError("only question nodes can be deleted")
	}

	plan := &DeletionPlan{NodesToDelete: []valueobjects.NodeID{target.ID()}}

	answer := tree.AnswerOf(target.ID())
	if answer != nil {
		plan.NodesToDelete = append(plan.NodesToDelete, answer.ID())
	}

	// Follow-up children hang off the answer when one exists, off the
	// question otherwise. Scan both so nothing can survive with a pointer
	// into the deleted pair.
	followups := questionChildren(tree, target.ID())
	if answer != nil {
		followups = append(followups, questionChildren(tree, answer.ID())...)
	}

	newParentID := target.ParentID()
	for _, child := range followups {
		rep := Reparenting{ChildID: child.ID()}
		if newParentID == nil {
			// Deleting a root: each direct follow-up anchors its own new tree
			rep.NewParentID = nil
			rep.NewRootID = child.ID()
		} else {
			id := *newParentID
			rep.NewParentID = &id
			rep.NewRootID = target.RootID()

			edge, err := entities.NewEdge(tree.BoardID(), id, child.ID())
			if err != nil {
				return nil, err
			}
			plan.EdgesToCreate = append(plan.EdgesToCreate, edge)
		}
		plan.Reparentings = append(plan.Reparentings, rep)
	}

	deleted := make(map[valueobjects.NodeID]bool, len(plan.NodesToDelete))
	for _, id := range plan.NodesToDelete {
		deleted[id] = true
	}
	for _, edge := range tree.Edges() {
		if deleted[edge.SourceID] || deleted[edge.TargetID] {
			plan.EdgesToDelete = append(plan.EdgesToDelete, edge.ID)
		}
	}

	return plan, nil
}

func questionChildren(tree *aggregates.Tree, parentID valueobjects.NodeID) []*entities.Node {
	var children []*entities.Node
	for _, child := range tree.ChildrenOf(parentID) {
		if child.Variant().IsQuestion() {
			children = append(children, child)
		}
	}
	return children
}
