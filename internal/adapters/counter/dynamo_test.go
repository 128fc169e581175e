package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDynamo struct {
	mock.Mock
}

func (m *mockDynamo) UpdateItemWithContext(
	ctx aws.Context, in *dynamodb.UpdateItemInput, _ ...request.Option,
) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) GetItemWithContext(
	ctx aws.Context, in *dynamodb.GetItemInput, _ ...request.Option,
) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func TestDynamo_IncrementUsesAtomicAdd(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("UpdateItemWithContext", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.StringValue(in.TableName) == "reviewer-counters" &&
			aws.StringValue(in.UpdateExpression) == "ADD violation_count :d" &&
			aws.StringValue(in.Key["reviewer_id"].S) == "u2"
	})).Return(&dynamodb.UpdateItemOutput{
		Attributes: map[string]*dynamodb.AttributeValue{
			"violation_count": {N: aws.String("4")},
		},
	}, nil)

	d := &Dynamo{client: client, table: "reviewer-counters"}
	got, err := d.Increment(context.Background(), "u2", 1)
	require.NoError(t, err)
	require.EqualValues(t, 4, got)
	client.AssertExpectations(t)
}

func TestDynamo_IncrementMissingAttribute(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("UpdateItemWithContext", mock.Anything, mock.Anything).
		Return(&dynamodb.UpdateItemOutput{}, nil)

	d := &Dynamo{client: client, table: "t"}
	_, err := d.Increment(context.Background(), "u2", 1)
	require.Error(t, err)
}

func TestDynamo_BanSetsFlag(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("UpdateItemWithContext", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.StringValue(in.UpdateExpression) == "SET banned = :t" &&
			aws.BoolValue(in.ExpressionAttributeValues[":t"].BOOL)
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	d := &Dynamo{client: client, table: "t"}
	require.NoError(t, d.Ban(context.Background(), "u2"))
	client.AssertExpectations(t)
}

func TestDynamo_GetParsesItem(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("GetItemWithContext", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: map[string]*dynamodb.AttributeValue{
			"reviewer_id":     {S: aws.String("u2")},
			"violation_count": {N: aws.String("7")},
			"banned":          {BOOL: aws.Bool(true)},
		}}, nil)

	d := &Dynamo{client: client, table: "t"}
	c, err := d.Get(context.Background(), "u2")
	require.NoError(t, err)
	require.Equal(t, Counts{Violations: 7, Banned: true}, c)
}

func TestDynamo_GetMissingItemIsZero(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("GetItemWithContext", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{}, nil)

	d := &Dynamo{client: client, table: "t"}
	c, err := d.Get(context.Background(), "ghost")
	require.NoError(t, err)
	require.Equal(t, Counts{}, c)
}

func TestDynamo_GetError(t *testing.T) {
	t.Parallel()

	client := &mockDynamo{}
	client.On("GetItemWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled"))

	d := &Dynamo{client: client, table: "t"}
	_, err := d.Get(context.Background(), "u2")
	require.Error(t, err)
}
