package entities

import (
	"time"

	"github.com/google/uuid"

	"ideaflow-backend/domain/events"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Board is a canvas holding one or more conversation trees
type Board struct {
	id          string
	ownerID     string
	title       string
	description string

	createdAt time.Time
	updatedAt time.Time

	events []events.DomainEvent
}

// NewBoard creates a new board owned by the given user
func NewBoard(ownerID, title, description string) (*Board, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	now := time.Now()
	board := &Board{
		id:          uuid.New().String(),
		ownerID:     ownerID,
		title:       title,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}

	board.events = append(board.events, events.NewBoardCreated(board.id, ownerID, title, now))
	return board, nil
}

// ReconstructBoard rebuilds a board from repository data
func ReconstructBoard(id, ownerID, title, description string, createdAt, updatedAt time.Time) (*Board, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("board id cannot be empty")
	}
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}

	return &Board{
		id:          id,
		ownerID:     ownerID,
		title:       title,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ID returns the board's unique identifier
func (b *Board) ID() string { return b.id }

// OwnerID returns the owning user's identifier
func (b *Board) OwnerID() string { return b.ownerID }

// Title returns the board title
func (b *Board) Title() string { return b.title }

// Description returns the board description
func (b *Board) Description() string { return b.description }

// CreatedAt returns when the board was created
func (b *Board) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns when the board was last updated
func (b *Board) UpdatedAt() time.Time { return b.updatedAt }

// Rename updates the board's title and description
func (b *Board) Rename(title, description string) error {
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	b.title = title
	b.description = description
	b.updatedAt = time.Now()
	return nil
}

// IsOwnedBy reports whether the given user owns this board
func (b *Board) IsOwnedBy(userID string) bool {
	return b.ownerID == userID
}

// GetUncommittedEvents returns all uncommitted domain events
func (b *Board) GetUncommittedEvents() []events.DomainEvent {
	return b.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (b *Board) MarkEventsAsCommitted() {
	b.events = nil
}
