package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	pkgerrors "ideaflow-backend/pkg/errors"
)

// batchWriteChunk is the DynamoDB limit on items per BatchWriteItem call
const batchWriteChunk = 25

// prefixQueryExpr builds a PK-equals / SK-begins-with key condition
func prefixQueryExpr(pk, skPrefix string) (expression.Expression, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.Key("SK").BeginsWith(skPrefix))
	return expression.NewBuilder().WithKeyCondition(keyEx).Build()
}

// queryBoardPartition reads every item in a board partition with the given
// sort-key prefix, following pagination to the end
func queryBoardPartition(ctx context.Context, client *dynamodb.Client, tableName, boardID, skPrefix string) ([]map[string]types.AttributeValue, error) {
	expr, err := prefixQueryExpr(fmt.Sprintf("BOARD#%s", boardID), skPrefix)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build query expression", err)
	}

	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	for {
		result, err := client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query board partition", err)
		}

		items = append(items, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}
	return items, nil
}

// batchDelete removes the given keys in chunks of 25. Unprocessed keys are
// retried once; anything still unprocessed after that is reported as an error
// so the caller's saga can compensate.
func batchDelete(ctx context.Context, client *dynamodb.Client, tableName string, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += batchWriteChunk {
		end := start + batchWriteChunk
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		pending := map[string][]types.WriteRequest{tableName: requests}
		for attempt := 0; attempt < 2 && len(pending[tableName]) > 0; attempt++ {
			result, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return pkgerrors.NewDatabaseError("batch delete", err)
			}
			pending = result.UnprocessedItems
		}
		if len(pending[tableName]) > 0 {
			return pkgerrors.NewDatabaseError("batch delete",
				fmt.Errorf("%d keys left unprocessed after retry", len(pending[tableName])))
		}
	}
	return nil
}
