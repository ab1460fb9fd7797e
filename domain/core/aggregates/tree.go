package aggregates

import (
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/validators"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Tree is the aggregate root for a board's conversation forest.
// It is an in-memory index over a board's nodes and edges that enforces the
// structural invariants: parents exist, questions carry at most one answer,
// and every node reaches a root question.
type Tree struct {
	boardID string
	cfg     *config.DomainConfig

	nodes map[valueobjects.NodeID]*entities.Node
	order []valueobjects.NodeID
	edges map[string]*entities.Edge
}

// NewTree creates an empty tree for a board
func NewTree(boardID string, cfg *config.DomainConfig) *Tree {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Tree{
		boardID: boardID,
		cfg:     cfg,
		nodes:   make(map[valueobjects.NodeID]*entities.Node),
		edges:   make(map[string]*entities.Edge),
	}
}

// LoadTree rebuilds a tree from stored nodes and edges. Nodes must be in
// creation order; structural invariants are re-checked on load so corrupt
// stored data surfaces here rather than mid-operation.
func LoadTree(boardID string, cfg *config.DomainConfig, nodes []*entities.Node, edges []*entities.Edge) (*Tree, error) {
	if err := validators.NewTreeValidator().ValidateStructure(boardID, nodes); err != nil {
		return nil, err
	}

	t := NewTree(boardID, cfg)
	for _, node := range nodes {
		t.nodes[node.ID()] = node
		t.order = append(t.order, node.ID())
	}
	for _, edge := range edges {
		t.edges[edge.ID] = edge
	}
	return t, nil
}

// BoardID returns the board this tree indexes
func (t *Tree) BoardID() string { return t.boardID }

// Len returns the number of nodes in the tree
func (t *Tree) Len() int { return len(t.nodes) }

// AddNode adds a node, verifying its parent exists and capacity remains
func (t *Tree) AddNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if node.BoardID() != t.boardID {
		return pkgerrors.NewValidationError("node belongs to another board")
	}
	if _, exists := t.nodes[node.ID()]; exists {
		return pkgerrors.NewConflictError("node already exists in tree")
	}
	if len(t.nodes) >= t.cfg.MaxNodesPerBoard {
		return pkgerrors.NewInvalidOperationError("board node limit reached")
	}

	if parentID := node.ParentID(); parentID != nil {
		parent, ok := t.nodes[*parentID]
		if !ok {
			return pkgerrors.NewNodeNotFoundError(parentID.String())
		}
		if node.Variant().IsAnswer() {
			if !parent.Variant().IsQuestion() {
				return pkgerrors.NewInvalidOperationError("answers can only attach to questions")
			}
			if t.AnswerOf(parent.ID()) != nil {
				return pkgerrors.NewAnswerExistsError(parent.ID().String())
			}
		}
	} else if node.Variant() != entities.VariantRootQuestion {
		return pkgerrors.NewValidationError("only root questions may lack a parent")
	}

	t.nodes[node.ID()] = node
	t.order = append(t.order, node.ID())
	return nil
}

// RemoveNode drops a node from the index. Structural consequences for the
// descendants are the deletion resolver's job; the tree only removes.
func (t *Tree) RemoveNode(nodeID valueobjects.NodeID) error {
	if _, ok := t.nodes[nodeID]; !ok {
		return pkgerrors.NewNodeNotFoundError(nodeID.String())
	}
	delete(t.nodes, nodeID)
	for i, id := range t.order {
		if id.Equals(nodeID) {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddEdge records a connector between two nodes already in the tree
func (t *Tree) AddEdge(edge *entities.Edge) error {
	if edge == nil {
		return pkgerrors.NewValidationError("edge cannot be nil")
	}
	if _, ok := t.nodes[edge.SourceID]; !ok {
		return pkgerrors.NewNodeNotFoundError(edge.SourceID.String())
	}
	if _, ok := t.nodes[edge.TargetID]; !ok {
		return pkgerrors.NewNodeNotFoundError(edge.TargetID.String())
	}
	t.edges[edge.ID] = edge
	return nil
}

// RemoveEdge drops a connector by id
func (t *Tree) RemoveEdge(edgeID string) error {
	if _, ok := t.edges[edgeID]; !ok {
		return pkgerrors.NewEdgeNotFoundError(edgeID)
	}
	delete(t.edges, edgeID)
	return nil
}

// FindNode returns a node by id
func (t *Tree) FindNode(nodeID valueobjects.NodeID) (*entities.Node, error) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return nil, pkgerrors.NewNodeNotFoundError(nodeID.String())
	}
	return node, nil
}

// HasNode reports whether the node is in the tree
func (t *Tree) HasNode(nodeID valueobjects.NodeID) bool {
	_, ok := t.nodes[nodeID]
	return ok
}

// Nodes returns all nodes in creation order
func (t *Tree) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(t.order))
	for _, id := range t.order {
		nodes = append(nodes, t.nodes[id])
	}
	return nodes
}

// Edges returns all connectors
func (t *Tree) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(t.edges))
	for _, edge := range t.edges {
		edges = append(edges, edge)
	}
	return edges
}

// ChildrenOf returns a node's direct children in creation order
func (t *Tree) ChildrenOf(nodeID valueobjects.NodeID) []*entities.Node {
	var children []*entities.Node
	for _, id := range t.order {
		node := t.nodes[id]
		if parentID := node.ParentID(); parentID != nil && parentID.Equals(nodeID) {
			children = append(children, node)
		}
	}
	return children
}

// Roots returns the root questions in creation order
func (t *Tree) Roots() []*entities.Node {
	var roots []*entities.Node
	for _, id := range t.order {
		if t.nodes[id].IsRoot() {
			roots = append(roots, t.nodes[id])
		}
	}
	return roots
}

// AnswerOf returns the answer attached to a question, nil if unanswered
func (t *Tree) AnswerOf(questionID valueobjects.NodeID) *entities.Node {
	for _, id := range t.order {
		node := t.nodes[id]
		if !node.Variant().IsAnswer() {
			continue
		}
		if parentID := node.ParentID(); parentID != nil && parentID.Equals(questionID) {
			return node
		}
	}
	return nil
}

// CanAttachAnswer reports whether generation may target the given question
func (t *Tree) CanAttachAnswer(questionID valueobjects.NodeID) error {
	question, err := t.FindNode(questionID)
	if err != nil {
		return err
	}
	if !question.Variant().IsQuestion() {
		return pkgerrors.NewInvalidOperationError("only question nodes can be answered")
	}
	if t.AnswerOf(questionID) != nil {
		return pkgerrors.NewAnswerExistsError(questionID.String())
	}
	return nil
}

// PathToRoot walks parent pointers from a node up to its root, returning the
// chain ordered node-first. Traversal is hop-bounded so a parent cycle in
// stored data fails loudly instead of hanging.
func (t *Tree) PathToRoot(nodeID valueobjects.NodeID) ([]*entities.Node, error) {
	node, err := t.FindNode(nodeID)
	if err != nil {
		return nil, err
	}

	var path []*entities.Node
	current := node
	for hops := 0; ; hops++ {
		if hops > t.cfg.MaxTraversalHops {
			return nil, pkgerrors.NewCorruptTreeError(nodeID.String(), hops)
		}
		path = append(path, current)
		parentID := current.ParentID()
		if parentID == nil {
			return path, nil
		}
		parent, ok := t.nodes[*parentID]
		if !ok {
			return nil, pkgerrors.NewCorruptStateError("node " + current.ID().String() + " references missing parent")
		}
		current = parent
	}
}

// Subtree returns a node and all its descendants in creation order
func (t *Tree) Subtree(nodeID valueobjects.NodeID) ([]*entities.Node, error) {
	root, err := t.FindNode(nodeID)
	if err != nil {
		return nil, err
	}

	member := map[valueobjects.NodeID]bool{root.ID(): true}
	// Creation order guarantees parents precede children, so one pass suffices
	var subtree []*entities.Node
	for _, id := range t.order {
		node := t.nodes[id]
		if member[id] {
			subtree = append(subtree, node)
			continue
		}
		if parentID := node.ParentID(); parentID != nil && member[*parentID] {
			member[id] = true
			subtree = append(subtree, node)
		}
	}
	return subtree, nil
}

// SetNodeParent rewires a question under a new parent (nil promotes it to a
// root) and propagates the new root id through its descendants.
func (t *Tree) SetNodeParent(nodeID valueobjects.NodeID, newParentID *valueobjects.NodeID) error {
	node, err := t.FindNode(nodeID)
	if err != nil {
		return err
	}

	newRootID := nodeID
	if newParentID != nil {
		parent, ok := t.nodes[*newParentID]
		if !ok {
			return pkgerrors.NewNodeNotFoundError(newParentID.String())
		}
		newRootID = parent.RootID()
	}

	if err := node.Reparent(newParentID, newRootID); err != nil {
		return err
	}

	// Descendants keep their parents but move to the new tree
	descendants, err := t.Subtree(nodeID)
	if err != nil {
		return err
	}
	for _, desc := range descendants {
		if desc.ID().Equals(nodeID) {
			continue
		}
		desc.RebaseRoot(newRootID)
	}
	return nil
}
