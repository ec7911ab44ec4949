package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"securebase-billing/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repositories call.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

type dynamoFulfillmentRepoImpl struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoFulfillmentRepository(client DynamoDBAPI, table string) FulfillmentRepository {
	return &dynamoFulfillmentRepoImpl{
		client: client,
		table:  table,
	}
}

func (r *dynamoFulfillmentRepoImpl) UpsertStatus(ctx context.Context, email string, status model.Status, plan model.Plan) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: string(status)},
		":plan":   &types.AttributeValueMemberS{Value: string(plan)},
		":now":    &types.AttributeValueMemberS{Value: now},
	}
	allowed := statusesAtOrBelow(status)
	placeholders := make([]string, len(allowed))
	for i, s := range allowed {
		key := fmt.Sprintf(":allowed%d", i)
		placeholders[i] = key
		values[key] = &types.AttributeValueMemberS{Value: s}
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		UpdateExpression: aws.String(
			"SET #status = :status, plan_identifier = :plan, last_updated_at = :now, created_at = if_not_exists(created_at, :now)",
		),
		ConditionExpression: aws.String(
			"attribute_not_exists(email) OR #status IN (" + strings.Join(placeholders, ", ") + ")",
		),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		// record already sits above the target status
		if isConditionalCheckFailed(err) {
			return nil
		}
		return err
	}

	return nil
}

func (r *dynamoFulfillmentRepoImpl) Get(ctx context.Context, email string) (*model.FulfillmentRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var record model.FulfillmentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal fulfillment record: %w", err)
	}

	return &record, nil
}

type dynamoWebhookEventRepoImpl struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoWebhookEventRepository(client DynamoDBAPI, table string) WebhookEventRepository {
	return &dynamoWebhookEventRepoImpl{
		client: client,
		table:  table,
	}
}

func (r *dynamoWebhookEventRepoImpl) Exists(ctx context.Context, sessionID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"session_id": &types.AttributeValueMemberS{Value: sessionID},
		},
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("session_id"),
	})
	if err != nil {
		return false, err
	}

	return len(out.Item) > 0, nil
}

func (r *dynamoWebhookEventRepoImpl) MarkProcessed(ctx context.Context, sessionID, eventID, eventType string) (bool, error) {
	now := time.Now().UTC()
	item, err := attributevalue.MarshalMap(&model.WebhookEvent{
		SessionID:   sessionID,
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: now,
		CreatedAt:   now,
	})
	if err != nil {
		return false, fmt.Errorf("marshal webhook event: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(session_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
