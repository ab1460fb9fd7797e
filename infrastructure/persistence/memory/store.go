package memory

import (
	"context"
	"sort"
	"sync"

	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Store is an in-memory implementation of the persistence ports. It backs
// local development and tests; data does not survive a restart.
type Store struct {
	mu     sync.RWMutex
	boards map[string]*entities.Board
	nodes  map[string]map[valueobjects.NodeID]*entities.Node
	order  map[string][]valueobjects.NodeID
	edges  map[string]map[string]*entities.Edge
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		boards: make(map[string]*entities.Board),
		nodes:  make(map[string]map[valueobjects.NodeID]*entities.Node),
		order:  make(map[string][]valueobjects.NodeID),
		edges:  make(map[string]map[string]*entities.Edge),
	}
}

// BoardRepository returns the board persistence port
func (s *Store) BoardRepository() *BoardRepository { return &BoardRepository{store: s} }

// NodeRepository returns the node persistence port
func (s *Store) NodeRepository() *NodeRepository { return &NodeRepository{store: s} }

// EdgeRepository returns the edge persistence port
func (s *Store) EdgeRepository() *EdgeRepository { return &EdgeRepository{store: s} }

// BoardRepository stores boards in memory
type BoardRepository struct {
	store *Store
}

// Save persists a board
func (r *BoardRepository) Save(_ context.Context, board *entities.Board) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.boards[board.ID()] = board
	return nil
}

// GetByID retrieves a board by id
func (r *BoardRepository) GetByID(_ context.Context, id string) (*entities.Board, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	board, ok := r.store.boards[id]
	if !ok {
		return nil, pkgerrors.NewBoardNotFoundError(id)
	}
	return board, nil
}

// GetByOwnerID retrieves a user's boards, newest first
func (r *BoardRepository) GetByOwnerID(_ context.Context, ownerID string, limit, offset int) ([]*entities.Board, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var owned []*entities.Board
	for _, board := range r.store.boards {
		if board.IsOwnedBy(ownerID) {
			owned = append(owned, board)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt().After(owned[j].CreatedAt())
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

// CountByOwnerID returns the number of boards a user owns
func (r *BoardRepository) CountByOwnerID(_ context.Context, ownerID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, board := range r.store.boards {
		if board.IsOwnedBy(ownerID) {
			count++
		}
	}
	return count, nil
}

// Delete removes a board and all of its contents
func (r *BoardRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.boards[id]; !ok {
		return pkgerrors.NewBoardNotFoundError(id)
	}
	delete(r.store.boards, id)
	delete(r.store.nodes, id)
	delete(r.store.order, id)
	delete(r.store.edges, id)
	return nil
}

// NodeRepository stores nodes in memory, preserving creation order per board
type NodeRepository struct {
	store *Store
}

// Save persists a node
func (r *NodeRepository) Save(_ context.Context, node *entities.Node) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	boardID := node.BoardID()
	if r.store.nodes[boardID] == nil {
		r.store.nodes[boardID] = make(map[valueobjects.NodeID]*entities.Node)
	}
	if _, exists := r.store.nodes[boardID][node.ID()]; !exists {
		r.store.order[boardID] = append(r.store.order[boardID], node.ID())
	}
	r.store.nodes[boardID][node.ID()] = node
	return nil
}

// GetByID retrieves a node by id
func (r *NodeRepository) GetByID(_ context.Context, boardID string, id valueobjects.NodeID) (*entities.Node, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	node, ok := r.store.nodes[boardID][id]
	if !ok {
		return nil, pkgerrors.NewNodeNotFoundError(id.String())
	}
	return node, nil
}

// GetByBoardID retrieves a board's nodes in creation order
func (r *NodeRepository) GetByBoardID(_ context.Context, boardID string) ([]*entities.Node, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := r.store.order[boardID]
	nodes := make([]*entities.Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := r.store.nodes[boardID][id]; ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// Delete removes a node
func (r *NodeRepository) Delete(_ context.Context, boardID string, id valueobjects.NodeID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.deleteLocked(boardID, id)
}

// DeleteBatch removes multiple nodes
func (r *NodeRepository) DeleteBatch(_ context.Context, boardID string, ids []valueobjects.NodeID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range ids {
		if err := r.deleteLocked(boardID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *NodeRepository) deleteLocked(boardID string, id valueobjects.NodeID) error {
	if _, ok := r.store.nodes[boardID][id]; !ok {
		return pkgerrors.NewNodeNotFoundError(id.String())
	}
	delete(r.store.nodes[boardID], id)
	order := r.store.order[boardID]
	for i, existing := range order {
		if existing.Equals(id) {
			r.store.order[boardID] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// EdgeRepository stores edges in memory
type EdgeRepository struct {
	store *Store
}

// Save persists an edge
func (r *EdgeRepository) Save(_ context.Context, edge *entities.Edge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.edges[edge.BoardID] == nil {
		r.store.edges[edge.BoardID] = make(map[string]*entities.Edge)
	}
	r.store.edges[edge.BoardID][edge.ID] = edge
	return nil
}

// GetByBoardID retrieves a board's edges
func (r *EdgeRepository) GetByBoardID(_ context.Context, boardID string) ([]*entities.Edge, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	edges := make([]*entities.Edge, 0, len(r.store.edges[boardID]))
	for _, edge := range r.store.edges[boardID] {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, nil
}

// Delete removes an edge
func (r *EdgeRepository) Delete(_ context.Context, boardID string, edgeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.edges[boardID][edgeID]; !ok {
		return pkgerrors.NewEdgeNotFoundError(edgeID)
	}
	delete(r.store.edges[boardID], edgeID)
	return nil
}

// DeleteBatch removes multiple edges, ignoring ids already gone
func (r *EdgeRepository) DeleteBatch(_ context.Context, boardID string, edgeIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range edgeIDs {
		delete(r.store.edges[boardID], id)
	}
	return nil
}
