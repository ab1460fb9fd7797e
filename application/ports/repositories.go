package ports

import (
	"context"

	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/events"
)

// BoardRepository defines the interface for board persistence
// This is a port in hexagonal architecture - the application doesn't know about the implementation
type BoardRepository interface {
	// Save persists a board (create or update)
	Save(ctx context.Context, board *entities.Board) error

	// GetByID retrieves a board by its ID
	GetByID(ctx context.Context, id string) (*entities.Board, error)

	// GetByOwnerID retrieves all boards owned by a user, newest first
	GetByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entities.Board, error)

	// CountByOwnerID returns the total number of boards a user owns
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)

	// Delete removes a board and all its nodes and edges
	Delete(ctx context.Context, id string) error
}

// NodeRepository defines the interface for node persistence
type NodeRepository interface {
	// Save persists a node (create or update)
	Save(ctx context.Context, node *entities.Node) error

	// GetByID retrieves a node by its ID
	GetByID(ctx context.Context, boardID string, id valueobjects.NodeID) (*entities.Node, error)

	// GetByBoardID retrieves all nodes on a board in creation order
	GetByBoardID(ctx context.Context, boardID string) ([]*entities.Node, error)

	// Delete removes a node
	Delete(ctx context.Context, boardID string, id valueobjects.NodeID) error

	// DeleteBatch removes multiple nodes in a batch operation
	DeleteBatch(ctx context.Context, boardID string, ids []valueobjects.NodeID) error
}

// EdgeRepository defines the interface for edge persistence
type EdgeRepository interface {
	// Save persists an edge
	Save(ctx context.Context, edge *entities.Edge) error

	// GetByBoardID retrieves all edges on a board
	GetByBoardID(ctx context.Context, boardID string) ([]*entities.Edge, error)

	// Delete removes an edge by its id
	Delete(ctx context.Context, boardID string, edgeID string) error

	// DeleteBatch removes multiple edges in a batch operation
	DeleteBatch(ctx context.Context, boardID string, edgeIDs []string) error
}

// GenerationOptions tunes a single text-generation call
type GenerationOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// TextGenerator is the external model collaborator. Implementations map
// provider failures onto the generation error classes so the orchestrator
// can choose a retry policy per class.
type TextGenerator interface {
	// Generate produces a completion for the prompt
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
