package db

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	pk := in.Item["PK"].(*types.AttributeValueMemberS).Value
	if in.ConditionExpression != nil {
		if _, exists := f.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
	delete(f.items, pk)
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestClaimEventDetectsReplay(t *testing.T) {
	t.Setenv("WEBHOOK_DEDUPE_TABLE", "dedupe-test")
	ddb := newFakeDynamo()

	dup, err := ClaimEvent(context.Background(), ddb, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = ClaimEvent(context.Background(), ddb, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestReleaseEventReopensClaim(t *testing.T) {
	t.Setenv("WEBHOOK_DEDUPE_TABLE", "dedupe-test")
	ddb := newFakeDynamo()

	_, err := ClaimEvent(context.Background(), ddb, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	require.NoError(t, ReleaseEvent(context.Background(), ddb, "evt_1"))

	dup, err := ClaimEvent(context.Background(), ddb, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.False(t, dup, "a released event must be claimable again")
}

func TestAcquireClaimLockSingleWinner(t *testing.T) {
	t.Setenv("CLAIM_LOCK_TABLE", "locks-test")
	ddb := newFakeDynamo()

	acquired, err := AcquireClaimLock(context.Background(), ddb, "cs_1", "a@x.com")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = AcquireClaimLock(context.Background(), ddb, "cs_1", "b@x.com")
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestNilClientNeverBlocksOrPanics(t *testing.T) {
	// A table name is configured but the client failed to initialize.
	t.Setenv("WEBHOOK_DEDUPE_TABLE", "dedupe-test")
	t.Setenv("CLAIM_LOCK_TABLE", "locks-test")

	dup, err := ClaimEvent(context.Background(), nil, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, ReleaseEvent(context.Background(), nil, "evt_1"))

	acquired, err := AcquireClaimLock(context.Background(), nil, "cs_1", "a@x.com")
	require.NoError(t, err)
	assert.True(t, acquired)
}
