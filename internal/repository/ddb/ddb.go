// Package ddb implements the repository interfaces using AWS DynamoDB.
// This is the only layer with knowledge of DynamoDB specifics.
//
// All five collections share one table. Every item carries a PK of the form
// ENTITY#id, a constant METADATA sort key, and an EntityType attribute used
// for collection scans. Orders, reviews and products additionally project
// into GSI1 for per-user, per-product and newest-first catalog queries.
package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	appErrors "swiftcart-backend/pkg/errors"
)

const (
	skMetadata = "METADATA"

	// Fixed-width UTC layout for GSI1 sort keys. Unlike RFC3339Nano it never
	// trims trailing zeros, so lexicographic order is chronological order.
	sortTimeLayout = "2006-01-02T15:04:05.000000000Z"

	entityProduct = "PRODUCT"
	entityOrder   = "ORDER"
	entityUser    = "USER"
	entityReview  = "REVIEW"
	entityCoupon  = "COUPON"
)

// Config carries the table layout settings shared by every repository.
type Config struct {
	TableName string
	IndexName string // GSI1: per-user orders, per-product reviews
}

func pk(entity, id string) string {
	return fmt.Sprintf("%s#%s", entity, id)
}

// getItem fetches a single metadata item and reports whether it exists.
func getItem(ctx context.Context, client *dynamodb.Client, table, partitionKey string) (map[string]types.AttributeValue, bool, error) {
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: partitionKey},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, "get item failed")
	}
	if out.Item == nil {
		return nil, false, nil
	}
	return out.Item, true, nil
}

// deleteItem removes a single metadata item.
func deleteItem(ctx context.Context, client *dynamodb.Client, table, partitionKey string) error {
	_, err := client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: partitionKey},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return appErrors.Wrap(err, "delete item failed")
	}
	return nil
}

// scanByType pages through the table returning every item of one entity
// type, optionally narrowed by an extra filter condition.
func scanByType(ctx context.Context, client *dynamodb.Client, table, entityType string, extra *expression.ConditionBuilder) ([]map[string]types.AttributeValue, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityType))
	if extra != nil {
		filter = filter.And(*extra)
	}

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build scan expression")
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, "scan failed")
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

// queryIndex pages through GSI1 for one partition key value, newest first.
// A positive limit stops the query after that many items.
func queryIndex(ctx context.Context, client *dynamodb.Client, cfg Config, indexPK string, limit int) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(indexPK))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build query expression")
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(cfg.TableName),
			IndexName:                 aws.String(cfg.IndexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false), // newest first
			ExclusiveStartKey:         startKey,
		}
		if limit > 0 {
			input.Limit = aws.Int32(int32(limit - len(items)))
		}
		out, err := client.Query(ctx, input)
		if err != nil {
			return nil, appErrors.Wrap(err, "index query failed")
		}
		items = append(items, out.Items...)
		if limit > 0 && len(items) >= limit {
			return items[:limit], nil
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}
