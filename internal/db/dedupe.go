package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dedupeRecord struct {
	PK        string `dynamodbav:"PK"`
	Type      string `dynamodbav:"Type"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	ExpiresAt int64  `dynamodbav:"ExpiresAt"`
}

// ClaimEvent records a Stripe event id before processing. Returns
// (isDuplicate, error); a duplicate means the provider retried an event we
// already handled and the caller should ack without side effects. A claim
// must be released with ReleaseEvent if processing then fails, or the
// provider's retries would be acked against an order that never landed.
func ClaimEvent(ctx context.Context, ddb API, eventID, eventType string) (bool, error) {
	tbl := strings.TrimSpace(WebhookDedupeTableName())
	if ddb == nil || tbl == "" {
		// If not configured, don't block processing
		return false, nil
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return false, nil
	}

	// TTL: keep dedupe records for 7 days
	item, err := attributevalue.MarshalMap(dedupeRecord{
		PK:        fmt.Sprintf("EVT#%s", eventID),
		Type:      eventType,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		ExpiresAt: time.Now().UTC().Add(7 * 24 * time.Hour).Unix(),
	})
	if err != nil {
		return false, err
	}

	_, err = ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(tbl),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return true, nil
		}
		return false, err
	}

	return false, nil
}

// ReleaseEvent deletes a claimed event id so the provider's next retry gets
// processed instead of being acked as a duplicate.
func ReleaseEvent(ctx context.Context, ddb API, eventID string) error {
	tbl := strings.TrimSpace(WebhookDedupeTableName())
	eventID = strings.TrimSpace(eventID)
	if ddb == nil || tbl == "" || eventID == "" {
		return nil
	}

	_, err := ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tbl),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVT#%s", eventID)},
		},
	})
	return err
}
