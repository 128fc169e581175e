package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSQS struct {
	mock.Mock
}

func (m *mockSQS) ReceiveMessageWithContext(
	ctx aws.Context, in *sqs.ReceiveMessageInput, _ ...request.Option,
) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sqs.ReceiveMessageOutput)
	return out, args.Error(1)
}

func (m *mockSQS) DeleteMessageWithContext(
	ctx aws.Context, in *sqs.DeleteMessageInput, _ ...request.Option,
) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, in)
	return &sqs.DeleteMessageOutput{}, args.Error(1)
}

func (m *mockSQS) ChangeMessageVisibilityWithContext(
	ctx aws.Context, in *sqs.ChangeMessageVisibilityInput, _ ...request.Option,
) (*sqs.ChangeMessageVisibilityOutput, error) {
	args := m.Called(ctx, in)
	return &sqs.ChangeMessageVisibilityOutput{}, args.Error(1)
}

func (m *mockSQS) GetQueueUrlWithContext(
	ctx aws.Context, in *sqs.GetQueueUrlInput, _ ...request.Option,
) (*sqs.GetQueueUrlOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sqs.GetQueueUrlOutput)
	return out, args.Error(1)
}

func queueURLOut(u string) *sqs.GetQueueUrlOutput {
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String(u)}
}

func message(body, receipt string) *sqs.Message {
	return &sqs.Message{Body: aws.String(body), ReceiptHandle: aws.String(receipt)}
}

func TestSQSPoller_ResolvesQueueURL(t *testing.T) {
	t.Parallel()

	client := &mockSQS{}
	client.On("GetQueueUrlWithContext", mock.Anything, mock.MatchedBy(func(in *sqs.GetQueueUrlInput) bool {
		return aws.StringValue(in.QueueName) == "reviews-created"
	})).Return(queueURLOut("https://sqs/q/reviews-created"), nil)

	p, err := newSQSPoller(context.Background(), client, SQSOptions{QueueName: "reviews-created"})
	require.NoError(t, err)
	require.Equal(t, "https://sqs/q/reviews-created", p.queueURL)
	client.AssertExpectations(t)
}

func TestSQSPoller_QueueResolveError(t *testing.T) {
	t.Parallel()

	client := &mockSQS{}
	client.On("GetQueueUrlWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("no such queue"))

	_, err := newSQSPoller(context.Background(), client, SQSOptions{QueueName: "missing"})
	require.Error(t, err)
}

func TestSQSPoller_DeletesOnSuccess(t *testing.T) {
	t.Parallel()

	client := &mockSQS{}
	client.On("GetQueueUrlWithContext", mock.Anything, mock.Anything).
		Return(queueURLOut("https://sqs/q"), nil)

	ctx, cancel := context.WithCancel(context.Background())

	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []*sqs.Message{
			message(`{"container":"raw","key":"batch-1.json"}`, "r1"),
		}}, nil).Once()
	// stop the loop after the first batch
	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&sqs.ReceiveMessageOutput{}, nil)
	client.On("DeleteMessageWithContext", mock.Anything, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.StringValue(in.ReceiptHandle) == "r1"
	})).Return(nil, nil)

	p, err := newSQSPoller(context.Background(), client, SQSOptions{QueueName: "q", WaitSeconds: 1})
	require.NoError(t, err)

	var got []Event
	err = p.Run(ctx, func(_ context.Context, evt Event) error {
		got = append(got, evt)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []Event{{Container: "raw", Key: "batch-1.json"}}, got)
	client.AssertExpectations(t)
}

func TestSQSPoller_ReleasesOnHandlerError(t *testing.T) {
	t.Parallel()

	client := &mockSQS{}
	client.On("GetQueueUrlWithContext", mock.Anything, mock.Anything).
		Return(queueURLOut("https://sqs/q"), nil)

	ctx, cancel := context.WithCancel(context.Background())

	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []*sqs.Message{
			message(`{"container":"raw","key":"batch-1.json"}`, "r1"),
		}}, nil).Once()
	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&sqs.ReceiveMessageOutput{}, nil)
	client.On("ChangeMessageVisibilityWithContext", mock.Anything, mock.MatchedBy(
		func(in *sqs.ChangeMessageVisibilityInput) bool {
			return aws.StringValue(in.ReceiptHandle) == "r1" && aws.Int64Value(in.VisibilityTimeout) == 0
		})).Return(nil, nil)

	p, err := newSQSPoller(context.Background(), client, SQSOptions{QueueName: "q", WaitSeconds: 1})
	require.NoError(t, err)

	err = p.Run(ctx, func(_ context.Context, _ Event) error {
		return errors.New("downstream unavailable")
	})
	require.NoError(t, err)

	// message must not be deleted on failure
	client.AssertNotCalled(t, "DeleteMessageWithContext", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestSQSPoller_DropsMalformedBody(t *testing.T) {
	t.Parallel()

	client := &mockSQS{}
	client.On("GetQueueUrlWithContext", mock.Anything, mock.Anything).
		Return(queueURLOut("https://sqs/q"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loopCtx, stop := context.WithCancel(ctx)

	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []*sqs.Message{
			message(`not json at all`, "r1"),
		}}, nil).Once()
	client.On("ReceiveMessageWithContext", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { stop() }).
		Return(&sqs.ReceiveMessageOutput{}, nil)
	client.On("DeleteMessageWithContext", mock.Anything, mock.Anything).Return(nil, nil)

	p, err := newSQSPoller(context.Background(), client, SQSOptions{QueueName: "q", WaitSeconds: 1})
	require.NoError(t, err)

	handled := 0
	err = p.Run(loopCtx, func(_ context.Context, _ Event) error {
		handled++
		return nil
	})
	require.NoError(t, err)
	require.Zero(t, handled, "malformed bodies must not reach the handler")
	client.AssertExpectations(t)
}
