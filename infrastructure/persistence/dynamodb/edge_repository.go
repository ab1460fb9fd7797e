package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// EdgeRepository implements ports.EdgeRepository using DynamoDB
type EdgeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewEdgeRepository creates a new EdgeRepository
func NewEdgeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.EdgeRepository {
	return &EdgeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type edgeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EdgeID     string `dynamodbav:"EdgeID"`
	BoardID    string `dynamodbav:"BoardID"`
	SourceID   string `dynamodbav:"SourceID"`
	TargetID   string `dynamodbav:"TargetID"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func newEdgeItem(edge *entities.Edge) edgeItem {
	return edgeItem{
		PK:         fmt.Sprintf("BOARD#%s", edge.BoardID),
		SK:         fmt.Sprintf("EDGE#%s", edge.ID),
		EntityType: "EDGE",
		EdgeID:     edge.ID,
		BoardID:    edge.BoardID,
		SourceID:   edge.SourceID.String(),
		TargetID:   edge.TargetID.String(),
		CreatedAt:  edge.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (it edgeItem) toEntity() (*entities.Edge, error) {
	sourceID, err := valueobjects.NewNodeIDFromString(it.SourceID)
	if err != nil {
		return nil, fmt.Errorf("parsing edge source id: %w", err)
	}
	targetID, err := valueobjects.NewNodeIDFromString(it.TargetID)
	if err != nil {
		return nil, fmt.Errorf("parsing edge target id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing edge CreatedAt: %w", err)
	}
	return &entities.Edge{
		ID:        it.EdgeID,
		BoardID:   it.BoardID,
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: createdAt,
	}, nil
}

// Save persists an edge
func (r *EdgeRepository) Save(ctx context.Context, edge *entities.Edge) error {
	av, err := attributevalue.MarshalMap(newEdgeItem(edge))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal edge", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save edge",
			zap.Error(err),
			zap.String("edgeID", edge.ID),
			zap.String("boardID", edge.BoardID),
		)
		return pkgerrors.NewDatabaseError("save edge", err)
	}
	return nil
}

// GetByBoardID retrieves all edges on a board
func (r *EdgeRepository) GetByBoardID(ctx context.Context, boardID string) ([]*entities.Edge, error) {
	items, err := queryBoardPartition(ctx, r.client, r.tableName, boardID, "EDGE#")
	if err != nil {
		return nil, err
	}

	edges := make([]*entities.Edge, 0, len(items))
	for _, raw := range items {
		var item edgeItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal edge item", zap.Error(err))
			continue
		}
		edge, err := item.toEntity()
		if err != nil {
			r.logger.Warn("skipping unreadable edge item",
				zap.String("edgeID", item.EdgeID),
				zap.Error(err),
			)
			continue
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// Delete removes an edge by its id
func (r *EdgeRepository) Delete(ctx context.Context, boardID string, edgeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", boardID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("EDGE#%s", edgeID)},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete edge", err)
	}
	return nil
}

// DeleteBatch removes multiple edges in a batch operation
func (r *EdgeRepository) DeleteBatch(ctx context.Context, boardID string, edgeIDs []string) error {
	keys := make([]map[string]types.AttributeValue, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", boardID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("EDGE#%s", id)},
		})
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}
