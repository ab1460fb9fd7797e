package entities

import (
	"time"

	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/events"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Variant tags what role a node plays in the conversation tree
type Variant string

const (
	VariantRootQuestion     Variant = "root_question"
	VariantFollowupQuestion Variant = "followup_question"
	VariantAIAnswer         Variant = "ai_answer"
	VariantFollowupAnswer   Variant = "followup_answer"
)

// IsQuestion reports whether the variant is a question kind
func (v Variant) IsQuestion() bool {
	return v == VariantRootQuestion || v == VariantFollowupQuestion
}

// IsAnswer reports whether the variant is an answer kind
func (v Variant) IsAnswer() bool {
	return v == VariantAIAnswer || v == VariantFollowupAnswer
}

// IsValid reports whether the variant is one of the known tags
func (v Variant) IsValid() bool {
	return v.IsQuestion() || v.IsAnswer()
}

// Node is a single question or answer positioned on the canvas.
// A rich domain model: tree pointers can only change through methods that
// keep the root/parent invariants intact.
type Node struct {
	id       valueobjects.NodeID
	boardID  string
	variant  Variant
	content  valueobjects.Content
	rootID   valueobjects.NodeID
	parentID *valueobjects.NodeID
	position valueobjects.Position
	size     valueobjects.Size

	createdAt time.Time
	updatedAt time.Time
	version   int

	events []events.DomainEvent
}

// NewRootQuestion creates the anchoring question of a new conversation tree.
// A root is its own root: rootID == id and parentID is nil.
func NewRootQuestion(boardID string, content valueobjects.Content, position valueobjects.Position, size valueobjects.Size) (*Node, error) {
	if boardID == "" {
		return nil, pkgerrors.NewValidationError("boardID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now()
	node := &Node{
		id:        valueobjects.NewNodeID(),
		boardID:   boardID,
		variant:   VariantRootQuestion,
		content:   content,
		position:  position,
		size:      size,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}
	node.rootID = node.id

	node.addEvent(events.NewNodeCreated(node.id, boardID, string(node.variant), now))
	return node, nil
}

// NewFollowupQuestion creates a question branching off an existing node.
// The parent may be a question or an answer; the new node inherits its root.
func NewFollowupQuestion(boardID string, parent *Node, content valueobjects.Content, position valueobjects.Position, size valueobjects.Size) (*Node, error) {
	if boardID == "" {
		return nil, pkgerrors.NewValidationError("boardID cannot be empty")
	}
	if parent == nil {
		return nil, pkgerrors.NewValidationError("follow-up question requires a parent node")
	}
	if parent.boardID != boardID {
		return nil, pkgerrors.NewValidationError("parent node belongs to a different board")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now()
	parentID := parent.id
	node := &Node{
		id:        valueobjects.NewNodeID(),
		boardID:   boardID,
		variant:   VariantFollowupQuestion,
		content:   content,
		rootID:    parent.RootID(),
		parentID:  &parentID,
		position:  position,
		size:      size,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}

	node.addEvent(events.NewNodeCreated(node.id, boardID, string(node.variant), now))
	return node, nil
}

// NewAnswer creates the answer node for a question. The variant is ai_answer
// when the question is a root, followup_answer otherwise.
func NewAnswer(boardID string, question *Node, content valueobjects.Content, position valueobjects.Position, size valueobjects.Size) (*Node, error) {
	if boardID == "" {
		return nil, pkgerrors.NewValidationError("boardID cannot be empty")
	}
	if question == nil || !question.variant.IsQuestion() {
		return nil, pkgerrors.NewValidationError("answer requires a question parent")
	}
	if question.boardID != boardID {
		return nil, pkgerrors.NewValidationError("question node belongs to a different board")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	variant := VariantFollowupAnswer
	if question.variant == VariantRootQuestion {
		variant = VariantAIAnswer
	}

	now := time.Now()
	questionID := question.id
	node := &Node{
		id:        valueobjects.NewNodeID(),
		boardID:   boardID,
		variant:   variant,
		content:   content,
		rootID:    question.RootID(),
		parentID:  &questionID,
		position:  position,
		size:      size,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}

	node.addEvent(events.NewNodeCreated(node.id, boardID, string(node.variant), now))
	return node, nil
}

// ReconstructNode rebuilds a node from repository data with preserved timestamps
func ReconstructNode(
	id valueobjects.NodeID,
	boardID string,
	variant Variant,
	content valueobjects.Content,
	rootID valueobjects.NodeID,
	parentID *valueobjects.NodeID,
	position valueobjects.Position,
	size valueobjects.Size,
	createdAt, updatedAt time.Time,
) (*Node, error) {
	if boardID == "" {
		return nil, pkgerrors.NewValidationError("boardID cannot be empty")
	}
	if !variant.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown node variant")
	}
	if variant == VariantRootQuestion {
		if parentID != nil {
			return nil, pkgerrors.NewValidationError("root question cannot have a parent")
		}
	} else if parentID == nil {
		return nil, pkgerrors.NewValidationError("non-root node requires a parent")
	}

	// Legacy rows may miss root_id; a root is then its own root
	if rootID.IsZero() {
		rootID = id
	}

	return &Node{
		id:        id,
		boardID:   boardID,
		variant:   variant,
		content:   content,
		rootID:    rootID,
		parentID:  parentID,
		position:  position,
		size:      size,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   1,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID { return n.id }

// BoardID returns the owning board's identifier
func (n *Node) BoardID() string { return n.boardID }

// Variant returns what role the node plays in the tree
func (n *Node) Variant() Variant { return n.variant }

// Content returns the node's text content
func (n *Node) Content() valueobjects.Content { return n.content }

// RootID returns the id of the root question anchoring this node's tree.
// Self-root fallback: a node with an unset root is its own root.
func (n *Node) RootID() valueobjects.NodeID {
	if n.rootID.IsZero() {
		return n.id
	}
	return n.rootID
}

// ParentID returns the parent pointer, nil for root questions
func (n *Node) ParentID() *valueobjects.NodeID {
	if n.parentID == nil {
		return nil
	}
	id := *n.parentID
	return &id
}

// IsRoot reports whether the node anchors its own tree
func (n *Node) IsRoot() bool { return n.parentID == nil }

// Position returns the node's canvas position
func (n *Node) Position() valueobjects.Position { return n.position }

// Size returns the node's canvas size
func (n *Node) Size() valueobjects.Size { return n.size }

// Rect returns the canvas rectangle the node occupies
func (n *Node) Rect() valueobjects.Rect { return valueobjects.NewRect(n.position, n.size) }

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time { return n.createdAt }

// UpdatedAt returns when the node was last updated
func (n *Node) UpdatedAt() time.Time { return n.updatedAt }

// Version returns the node's version for optimistic persistence
func (n *Node) Version() int { return n.version }

// MoveTo moves the node to a new position
func (n *Node) MoveTo(position valueobjects.Position) error {
	if position.Equals(n.position) {
		return nil // no movement needed
	}

	oldPosition := n.position
	n.position = position
	n.updatedAt = time.Now()

	n.addEvent(events.NewNodeMoved(n.id, oldPosition, position, n.updatedAt))
	return nil
}

// Resize updates the node's rendered size after client-side measurement
func (n *Node) Resize(size valueobjects.Size) {
	if size == n.size {
		return
	}
	n.size = size
	n.updatedAt = time.Now()
}

// UpdateContent replaces the node's text with validation
func (n *Node) UpdateContent(content valueobjects.Content) error {
	if content.IsEmpty() {
		return pkgerrors.NewValidationError("content cannot be empty")
	}
	if content.Equals(n.content) {
		return nil
	}

	n.content = content
	n.updatedAt = time.Now()
	n.version++

	n.addEvent(events.NewNodeContentUpdated(n.id, n.updatedAt))
	return nil
}

// Reparent rewires the node after an ancestor was deleted. A nil newParentID
// promotes the node to a root of its own tree: its root becomes itself.
func (n *Node) Reparent(newParentID *valueobjects.NodeID, newRootID valueobjects.NodeID) error {
	if !n.variant.IsQuestion() {
		return pkgerrors.NewInvalidOperationError("only question nodes can be reparented")
	}
	if newParentID == nil {
		if !newRootID.Equals(n.id) {
			return pkgerrors.NewValidationError("a promoted root must be its own root")
		}
		n.variant = VariantRootQuestion
	} else {
		if newParentID.Equals(n.id) {
			return pkgerrors.NewValidationError("node cannot be its own parent")
		}
		n.variant = VariantFollowupQuestion
	}

	n.parentID = newParentID
	if newParentID != nil {
		id := *newParentID
		n.parentID = &id
	}
	n.rootID = newRootID
	n.updatedAt = time.Now()
	n.version++

	n.addEvent(events.NewNodeReparented(n.id, n.ParentID(), newRootID, n.updatedAt))
	return nil
}

// RebaseRoot moves the node to a different tree without changing its parent.
// Used when an ancestor was reparented and the whole subtree follows its root.
func (n *Node) RebaseRoot(newRootID valueobjects.NodeID) {
	if n.rootID.Equals(newRootID) {
		return
	}
	n.rootID = newRootID
	n.updatedAt = time.Now()
}

// GetUncommittedEvents returns all uncommitted domain events
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Node) MarkEventsAsCommitted() {
	n.events = nil
}

func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
