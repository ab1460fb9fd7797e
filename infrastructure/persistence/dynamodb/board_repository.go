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
	"ideaflow-backend/domain/core/entities"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Single-table layout:
//
//	board  PK=USER#<owner>   SK=BOARD#<id>   GSI1PK=BOARDID#<id> GSI1SK=METADATA
//	node   PK=BOARD#<id>     SK=NODE#<id>
//	edge   PK=BOARD#<id>     SK=EDGE#<id>
//
// Owner-level listing is a main-table query; board lookup by bare id goes
// through the GSI because the owner is not known at that point.

// BoardRepository implements ports.BoardRepository using DynamoDB
type BoardRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.BoardRepository {
	return &BoardRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

type boardItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	BoardID     string `dynamodbav:"BoardID"`
	OwnerID     string `dynamodbav:"OwnerID"`
	Title       string `dynamodbav:"Title"`
	Description string `dynamodbav:"Description"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func newBoardItem(board *entities.Board) boardItem {
	return boardItem{
		PK:          fmt.Sprintf("USER#%s", board.OwnerID()),
		SK:          fmt.Sprintf("BOARD#%s", board.ID()),
		GSI1PK:      fmt.Sprintf("BOARDID#%s", board.ID()),
		GSI1SK:      "METADATA",
		EntityType:  "BOARD",
		BoardID:     board.ID(),
		OwnerID:     board.OwnerID(),
		Title:       board.Title(),
		Description: board.Description(),
		CreatedAt:   board.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:   board.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func (it boardItem) toEntity() (*entities.Board, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing board CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing board UpdatedAt: %w", err)
	}
	return entities.ReconstructBoard(it.BoardID, it.OwnerID, it.Title, it.Description, createdAt, updatedAt)
}

// Save persists a board
func (r *BoardRepository) Save(ctx context.Context, board *entities.Board) error {
	av, err := attributevalue.MarshalMap(newBoardItem(board))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal board", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save board",
			zap.Error(err),
			zap.String("boardID", board.ID()),
		)
		return pkgerrors.NewDatabaseError("save board", err)
	}
	return nil
}

// GetByID retrieves a board by its ID
func (r *BoardRepository) GetByID(ctx context.Context, id string) (*entities.Board, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARDID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query board", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewBoardNotFoundError(id)
	}

	var item boardItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal board", err)
	}
	return item.toEntity()
}

// GetByOwnerID retrieves all boards owned by a user, newest first.
// DynamoDB has no native offset, so the owner partition is read in full
// and paginated in memory. Owner partitions are small by construction.
func (r *BoardRepository) GetByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entities.Board, error) {
	items, err := r.queryOwnerPartition(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	boards := make([]*entities.Board, 0, len(items))
	for _, item := range items {
		board, err := item.toEntity()
		if err != nil {
			r.logger.Warn("skipping unreadable board item",
				zap.String("boardID", item.BoardID),
				zap.Error(err),
			)
			continue
		}
		boards = append(boards, board)
	}

	sort.Slice(boards, func(i, j int) bool {
		return boards[i].CreatedAt().After(boards[j].CreatedAt())
	})

	if offset >= len(boards) {
		return []*entities.Board{}, nil
	}
	boards = boards[offset:]
	if limit > 0 && limit < len(boards) {
		boards = boards[:limit]
	}
	return boards, nil
}

// CountByOwnerID returns the total number of boards a user owns
func (r *BoardRepository) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	expr, err := prefixQueryExpr(fmt.Sprintf("USER#%s", ownerID), "BOARD#")
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("build query expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	})
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("count boards", err)
	}
	return int(result.Count), nil
}

// Delete removes the board metadata item. Node and edge cleanup is the
// caller's responsibility; it runs before this so a crash leaves an empty
// but listable board rather than orphaned content.
func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", board.OwnerID())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BOARD#%s", id)},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete board", err)
	}

	r.logger.Debug("board deleted",
		zap.String("boardID", id),
		zap.String("ownerID", board.OwnerID()),
	)
	return nil
}

func (r *BoardRepository) queryOwnerPartition(ctx context.Context, ownerID string) ([]boardItem, error) {
	expr, err := prefixQueryExpr(fmt.Sprintf("USER#%s", ownerID), "BOARD#")
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build query expression", err)
	}

	var items []boardItem
	var lastKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query boards", err)
		}

		for _, raw := range result.Items {
			var item boardItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("failed to unmarshal board item", zap.Error(err))
				continue
			}
			items = append(items, item)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}
	return items, nil
}
