package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"

	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/logger"
)

// SQSOptions configures the queue poller
type SQSOptions struct {
	Region    string
	QueueName string

	// WaitSeconds is the long poll duration, default 10
	WaitSeconds int64
	// BatchSize is messages per receive, default 10 (the SQS maximum)
	BatchSize int64
}

// sqsAPI is the narrow client surface the poller needs
// satisfied by *sqs.SQS, faked in tests
type sqsAPI interface {
	ReceiveMessageWithContext(aws.Context, *sqs.ReceiveMessageInput, ...request.Option) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageWithContext(aws.Context, *sqs.DeleteMessageInput, ...request.Option) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibilityWithContext(aws.Context, *sqs.ChangeMessageVisibilityInput, ...request.Option) (*sqs.ChangeMessageVisibilityOutput, error)
	GetQueueUrlWithContext(aws.Context, *sqs.GetQueueUrlInput, ...request.Option) (*sqs.GetQueueUrlOutput, error)
}

// sqsEnvelope is the message body shape published by the storage notifier
type sqsEnvelope struct {
	Container string `json:"container"`
	Key       string `json:"key"`
}

// SQSPoller consumes creation events from an SQS queue and hands
// them to a single handler, deleting messages only after success
// so delivery stays at-least-once
type SQSPoller struct {
	client   sqsAPI
	queueURL string
	wait     int64
	batch    int64
}

// NewSQSPoller dials SQS and resolves the queue URL
func NewSQSPoller(ctx context.Context, opt SQSOptions) (*SQSPoller, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(opt.Region)})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqs session for region %q", opt.Region)
	}
	return newSQSPoller(ctx, sqs.New(sess), opt)
}

func newSQSPoller(ctx context.Context, client sqsAPI, opt SQSOptions) (*SQSPoller, error) {
	out, err := client.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(opt.QueueName),
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "resolve queue url for %q", opt.QueueName)
	}
	wait := opt.WaitSeconds
	if wait <= 0 {
		wait = 10
	}
	batch := opt.BatchSize
	if batch <= 0 || batch > 10 {
		batch = 10
	}
	return &SQSPoller{
		client:   client,
		queueURL: aws.StringValue(out.QueueUrl),
		wait:     wait,
		batch:    batch,
	}, nil
}

// Run polls until ctx is cancelled
// failed messages get their visibility reset to zero for prompt redelivery
func (p *SQSPoller) Run(ctx context.Context, h Handler) error {
	log := logger.Named("sqs")
	log.Info().Str("queue_url", p.queueURL).Msg("sqs poller starting")

	for {
		if err := ctx.Err(); err != nil {
			log.Info().Msg("sqs poller shutting down")
			return nil
		}

		out, err := p.client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(p.queueURL),
			MaxNumberOfMessages: aws.Int64(p.batch),
			WaitTimeSeconds:     aws.Int64(p.wait),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("receive failed")
			time.Sleep(time.Second)
			continue
		}

		for _, msg := range out.Messages {
			p.handleMessage(ctx, h, msg, log)
		}
	}
}

func (p *SQSPoller) handleMessage(ctx context.Context, h Handler, msg *sqs.Message, log *logger.Logger) {
	var env sqsEnvelope
	if err := json.Unmarshal([]byte(aws.StringValue(msg.Body)), &env); err != nil {
		// malformed bodies can never succeed, drop them
		log.Error().Err(err).Str("body", aws.StringValue(msg.Body)).Msg("dropping undecodable message")
		p.delete(ctx, msg, log)
		return
	}

	evt := Event{Container: env.Container, Key: env.Key}
	if err := h(ctx, evt); err != nil {
		log.Warn().
			Err(err).
			Str("container", evt.Container).
			Str("key", evt.Key).
			Msg("handler failed, releasing message")
		_, verr := p.client.ChangeMessageVisibilityWithContext(ctx, &sqs.ChangeMessageVisibilityInput{
			QueueUrl:          aws.String(p.queueURL),
			ReceiptHandle:     msg.ReceiptHandle,
			VisibilityTimeout: aws.Int64(0),
		})
		if verr != nil {
			log.Error().Err(verr).Msg("visibility reset failed")
		}
		return
	}

	p.delete(ctx, msg, log)
}

func (p *SQSPoller) delete(ctx context.Context, msg *sqs.Message, log *logger.Logger) {
	_, err := p.client.DeleteMessageWithContext(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		log.Error().Err(err).Msg("delete failed, message will redeliver")
	}
}
