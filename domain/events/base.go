package events

import (
	"time"

	"ideaflow-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Board events

// BoardCreated is raised when a new board is created
type BoardCreated struct {
	BaseEvent
	BoardID string `json:"board_id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// NewBoardCreated creates a BoardCreated event
func NewBoardCreated(boardID, ownerID, title string, timestamp time.Time) BoardCreated {
	return BoardCreated{
		BaseEvent: BaseEvent{AggregateID: boardID, EventType: "board.created", Timestamp: timestamp},
		BoardID:   boardID,
		OwnerID:   ownerID,
		Title:     title,
	}
}

// BoardDeleted is raised when a board and its contents are removed
type BoardDeleted struct {
	BaseEvent
	BoardID string `json:"board_id"`
}

// NewBoardDeleted creates a BoardDeleted event
func NewBoardDeleted(boardID string, timestamp time.Time) BoardDeleted {
	return BoardDeleted{
		BaseEvent: BaseEvent{AggregateID: boardID, EventType: "board.deleted", Timestamp: timestamp},
		BoardID:   boardID,
	}
}

// Node events

// NodeCreated is raised when a new node is created
type NodeCreated struct {
	BaseEvent
	NodeID  valueobjects.NodeID `json:"node_id"`
	BoardID string              `json:"board_id"`
	Variant string              `json:"variant"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.NodeID, boardID, variant string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{AggregateID: nodeID.String(), EventType: "node.created", Timestamp: timestamp},
		NodeID:    nodeID,
		BoardID:   boardID,
		Variant:   variant,
	}
}

// NodeMoved is raised when a node is moved to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent:   BaseEvent{AggregateID: nodeID.String(), EventType: "node.moved", Timestamp: timestamp},
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeContentUpdated is raised when node content is edited
type NodeContentUpdated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeContentUpdated creates a NodeContentUpdated event
func NewNodeContentUpdated(nodeID valueobjects.NodeID, timestamp time.Time) NodeContentUpdated {
	return NodeContentUpdated{
		BaseEvent: BaseEvent{AggregateID: nodeID.String(), EventType: "node.content_updated", Timestamp: timestamp},
		NodeID:    nodeID,
	}
}

// NodeDeleted is raised when a node is removed from its board
type NodeDeleted struct {
	BaseEvent
	NodeID  valueobjects.NodeID `json:"node_id"`
	BoardID string              `json:"board_id"`
}

// NewNodeDeleted creates a NodeDeleted event
func NewNodeDeleted(nodeID valueobjects.NodeID, boardID string, timestamp time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent: BaseEvent{AggregateID: nodeID.String(), EventType: "node.deleted", Timestamp: timestamp},
		NodeID:    nodeID,
		BoardID:   boardID,
	}
}

// NodeReparented is raised when deletion of an ancestor rewires a node
type NodeReparented struct {
	BaseEvent
	NodeID      valueobjects.NodeID  `json:"node_id"`
	NewParentID *valueobjects.NodeID `json:"new_parent_id,omitempty"`
	NewRootID   valueobjects.NodeID  `json:"new_root_id"`
}

// NewNodeReparented creates a NodeReparented event
func NewNodeReparented(nodeID valueobjects.NodeID, newParentID *valueobjects.NodeID, newRootID valueobjects.NodeID, timestamp time.Time) NodeReparented {
	return NodeReparented{
		BaseEvent:   BaseEvent{AggregateID: nodeID.String(), EventType: "node.reparented", Timestamp: timestamp},
		NodeID:      nodeID,
		NewParentID: newParentID,
		NewRootID:   newRootID,
	}
}

// AnswerGenerated is raised when the AI answer node for a question is created
type AnswerGenerated struct {
	BaseEvent
	QuestionID valueobjects.NodeID `json:"question_id"`
	AnswerID   valueobjects.NodeID `json:"answer_id"`
	BoardID    string              `json:"board_id"`
}

// NewAnswerGenerated creates an AnswerGenerated event
func NewAnswerGenerated(questionID, answerID valueobjects.NodeID, boardID string, timestamp time.Time) AnswerGenerated {
	return AnswerGenerated{
		BaseEvent:  BaseEvent{AggregateID: answerID.String(), EventType: "node.answer_generated", Timestamp: timestamp},
		QuestionID: questionID,
		AnswerID:   answerID,
		BoardID:    boardID,
	}
}
