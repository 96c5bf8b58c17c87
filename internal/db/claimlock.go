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

type claimLockRecord struct {
	PK        string `dynamodbav:"PK"`
	Recipient string `dynamodbav:"Recipient"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

// AcquireClaimLock takes a permanent lock on an order id before the gift
// reconciler links a recipient to it. The sheet API has no conditional
// write, so two concurrent claims against the same single-candidate order
// would both win there; the conditional put here makes exactly one of them
// proceed. Returns (acquired, error). An unconfigured table or a nil client
// acquires unconditionally.
func AcquireClaimLock(ctx context.Context, ddb API, orderID, recipientEmail string) (bool, error) {
	tbl := strings.TrimSpace(ClaimLockTableName())
	if ddb == nil || tbl == "" {
		return true, nil
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, fmt.Errorf("empty order id")
	}

	item, err := attributevalue.MarshalMap(claimLockRecord{
		PK:        fmt.Sprintf("ORDER#%s", orderID),
		Recipient: recipientEmail,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
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
			return false, nil
		}
		return false, err
	}

	return true, nil
}
