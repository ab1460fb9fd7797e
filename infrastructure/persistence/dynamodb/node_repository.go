package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// NodeRepository implements ports.NodeRepository using DynamoDB
type NodeRepository struct {
	client    *dynamodb.Client
	tableName string
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

// NewNodeRepository creates a new NodeRepository
func NewNodeRepository(client *dynamodb.Client, tableName string, cfg *config.DomainConfig, logger *zap.Logger) ports.NodeRepository {
	return &NodeRepository{
		client:    client,
		tableName: tableName,
		cfg:       cfg,
		logger:    logger,
	}
}

type nodeItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"EntityType"`
	NodeID     string  `dynamodbav:"NodeID"`
	BoardID    string  `dynamodbav:"BoardID"`
	Variant    string  `dynamodbav:"Variant"`
	Content    string  `dynamodbav:"Content"`
	RootID     string  `dynamodbav:"RootID"`
	ParentID   string  `dynamodbav:"ParentID,omitempty"`
	X          float64 `dynamodbav:"X"`
	Y          float64 `dynamodbav:"Y"`
	Width      float64 `dynamodbav:"Width"`
	Height     float64 `dynamodbav:"Height"`
	CreatedAt  string  `dynamodbav:"CreatedAt"`
	UpdatedAt  string  `dynamodbav:"UpdatedAt"`
	Version    int     `dynamodbav:"Version"`
}

func newNodeItem(node *entities.Node) nodeItem {
	item := nodeItem{
		PK:         fmt.Sprintf("BOARD#%s", node.BoardID()),
		SK:         fmt.Sprintf("NODE#%s", node.ID().String()),
		EntityType: "NODE",
		NodeID:     node.ID().String(),
		BoardID:    node.BoardID(),
		Variant:    string(node.Variant()),
		Content:    node.Content().Text(),
		RootID:     node.RootID().String(),
		X:          node.Position().X,
		Y:          node.Position().Y,
		Width:      node.Size().Width,
		Height:     node.Size().Height,
		CreatedAt:  node.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  node.UpdatedAt().Format(time.RFC3339Nano),
		Version:    node.Version(),
	}
	if pid := node.ParentID(); pid != nil {
		item.ParentID = pid.String()
	}
	return item
}

func (r *NodeRepository) toEntity(item nodeItem) (*entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(item.NodeID)
	if err != nil {
		return nil, fmt.Errorf("parsing node id: %w", err)
	}
	rootID, err := valueobjects.NewNodeIDFromString(item.RootID)
	if err != nil {
		return nil, fmt.Errorf("parsing root id: %w", err)
	}
	var parentID *valueobjects.NodeID
	if item.ParentID != "" {
		pid, err := valueobjects.NewNodeIDFromString(item.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parsing parent id: %w", err)
		}
		parentID = &pid
	}
	content, err := valueobjects.NewContentWithConfig(item.Content, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("reconstructing content: %w", err)
	}
	position, err := valueobjects.NewPosition(item.X, item.Y)
	if err != nil {
		return nil, fmt.Errorf("reconstructing position: %w", err)
	}
	size, err := valueobjects.NewSize(item.Width, item.Height)
	if err != nil {
		return nil, fmt.Errorf("reconstructing size: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing node CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing node UpdatedAt: %w", err)
	}

	return entities.ReconstructNode(
		id,
		item.BoardID,
		entities.Variant(item.Variant),
		content,
		rootID,
		parentID,
		position,
		size,
		createdAt, updatedAt,
	)
}

// Save persists a node
func (r *NodeRepository) Save(ctx context.Context, node *entities.Node) error {
	av, err := attributevalue.MarshalMap(newNodeItem(node))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal node", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save node",
			zap.Error(err),
			zap.String("nodeID", node.ID().String()),
			zap.String("boardID", node.BoardID()),
		)
		return pkgerrors.NewDatabaseError("save node", err)
	}
	return nil
}

// GetByID retrieves a node by its ID
func (r *NodeRepository) GetByID(ctx context.Context, boardID string, id valueobjects.NodeID) (*entities.Node, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", boardID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("NODE#%s", id.String())},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get node", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNodeNotFoundError(id.String())
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal node", err)
	}
	return r.toEntity(item)
}

// GetByBoardID retrieves all nodes on a board in creation order.
// Storage has no order column; the nanosecond CreatedAt timestamp with the
// id as tiebreak reproduces insertion order for tree reconstruction.
func (r *NodeRepository) GetByBoardID(ctx context.Context, boardID string) ([]*entities.Node, error) {
	items, err := r.queryBoardPartition(ctx, boardID, "NODE#")
	if err != nil {
		return nil, err
	}

	nodes := make([]*entities.Node, 0, len(items))
	for _, raw := range items {
		var item nodeItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal node item", zap.Error(err))
			continue
		}
		node, err := r.toEntity(item)
		if err != nil {
			r.logger.Warn("skipping unreadable node item",
				zap.String("nodeID", item.NodeID),
				zap.Error(err),
			)
			continue
		}
		nodes = append(nodes, node)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt().Equal(nodes[j].CreatedAt()) {
			return nodes[i].CreatedAt().Before(nodes[j].CreatedAt())
		}
		return nodes[i].ID().String() < nodes[j].ID().String()
	})
	return nodes, nil
}

// Delete removes a node
func (r *NodeRepository) Delete(ctx context.Context, boardID string, id valueobjects.NodeID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", boardID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("NODE#%s", id.String())},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete node", err)
	}
	return nil
}

// DeleteBatch removes multiple nodes in a batch operation
func (r *NodeRepository) DeleteBatch(ctx context.Context, boardID string, ids []valueobjects.NodeID) error {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", boardID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("NODE#%s", id.String())},
		})
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}

func (r *NodeRepository) queryBoardPartition(ctx context.Context, boardID, skPrefix string) ([]map[string]types.AttributeValue, error) {
	return queryBoardPartition(ctx, r.client, r.tableName, boardID, skPrefix)
}
