package counter

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	perr "reviewflow/internal/platform/errors"
)

// DynamoOptions configures the DynamoDB backed store
type DynamoOptions struct {
	Region string
	Table  string
}

// dynamoAPI is the narrow client surface the store needs
// satisfied by *dynamodb.DynamoDB, faked in tests
type dynamoAPI interface {
	UpdateItemWithContext(aws.Context, *dynamodb.UpdateItemInput, ...request.Option) (*dynamodb.UpdateItemOutput, error)
	GetItemWithContext(aws.Context, *dynamodb.GetItemInput, ...request.Option) (*dynamodb.GetItemOutput, error)
}

// Dynamo implements Store over a DynamoDB table keyed by reviewer_id
// Increment relies on the ADD update action, which is atomic server
// side, so concurrent moderation workers never lose counts
type Dynamo struct {
	client dynamoAPI
	table  string
}

// NewDynamo dials DynamoDB in the configured region
func NewDynamo(opt DynamoOptions) (*Dynamo, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(opt.Region)})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "dynamodb session for region %q", opt.Region)
	}
	return &Dynamo{client: dynamodb.New(sess), table: opt.Table}, nil
}

func (d *Dynamo) key(reviewer string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"reviewer_id": {S: aws.String(reviewer)},
	}
}

// Increment issues an atomic ADD and reads the new total from UPDATED_NEW
func (d *Dynamo) Increment(ctx context.Context, reviewer string, delta int64) (int64, error) {
	out, err := d.client.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table),
		Key:              d.key(reviewer),
		UpdateExpression: aws.String("ADD violation_count :d"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":d": {N: aws.String(strconv.FormatInt(delta, 10))},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueUpdatedNew),
	})
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeUnavailable, "increment %s in %s", reviewer, d.table)
	}
	attr, ok := out.Attributes["violation_count"]
	if !ok || attr.N == nil {
		return 0, perr.DBf("update returned no violation_count for %s", reviewer)
	}
	n, err := strconv.ParseInt(aws.StringValue(attr.N), 10, 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "parse violation_count for %s", reviewer)
	}
	return n, nil
}

// Ban sets the banned flag, repeated calls are no-ops on the item
func (d *Dynamo) Ban(ctx context.Context, reviewer string) error {
	_, err := d.client.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table),
		Key:              d.key(reviewer),
		UpdateExpression: aws.String("SET banned = :t"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":t": {BOOL: aws.Bool(true)},
		},
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ban %s in %s", reviewer, d.table)
	}
	return nil
}

// Get reads the item with a consistent read, unseen reviewers are zero
func (d *Dynamo) Get(ctx context.Context, reviewer string) (Counts, error) {
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(reviewer),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Counts{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "get %s from %s", reviewer, d.table)
	}
	if len(out.Item) == 0 {
		return Counts{}, nil
	}
	var c Counts
	if attr, ok := out.Item["violation_count"]; ok && attr.N != nil {
		if n, perr2 := strconv.ParseInt(aws.StringValue(attr.N), 10, 64); perr2 == nil {
			c.Violations = n
		}
	}
	if attr, ok := out.Item["banned"]; ok && attr.BOOL != nil {
		c.Banned = aws.BoolValue(attr.BOOL)
	}
	return c, nil
}
