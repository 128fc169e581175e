package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObjectWithContext(
	ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option,
) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(1)
}

func (m *mockS3) GetObjectWithContext(
	ctx aws.Context, in *s3.GetObjectInput, _ ...request.Option,
) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) ListObjectsV2PagesWithContext(
	ctx aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option,
) error {
	args := m.Called(ctx, in)
	if pages, ok := args.Get(0).([]*s3.ListObjectsV2Output); ok {
		for i, p := range pages {
			if !fn(p, i == len(pages)-1) {
				break
			}
		}
	}
	return args.Error(1)
}

func TestS3_PutTargetsPrefixedBucket(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("PutObjectWithContext", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.StringValue(in.Bucket) == "reviewflow-raw" && aws.StringValue(in.Key) == "batch.json"
	})).Return(nil, nil)

	st := &S3{client: client, prefix: "reviewflow-"}
	err := st.Put(context.Background(), "raw", "batch.json", []byte("x"))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestS3_GetMapsNoSuchKey(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("GetObjectWithContext", mock.Anything, mock.Anything).
		Return(nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil))

	st := &S3{client: client}
	_, err := st.Get(context.Background(), "raw", "missing.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3_GetReadsBody(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("GetObjectWithContext", mock.Anything, mock.Anything).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"ok":true}`))}, nil)

	st := &S3{client: client}
	got, err := st.Get(context.Background(), "raw", "k")
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(got))
}

func TestS3_ListCollectsPages(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	pages := []*s3.ListObjectsV2Output{
		{Contents: []*s3.Object{{Key: aws.String("a.json")}, {Key: aws.String("b.json")}}},
		{Contents: []*s3.Object{{Key: aws.String("c.json")}}},
	}
	client.On("ListObjectsV2PagesWithContext", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.StringValue(in.Prefix) == "batch-"
	})).Return(pages, nil)

	st := &S3{client: client}
	got, err := st.List(context.Background(), "split", "batch-")
	require.NoError(t, err)
	require.Equal(t, []string{"a.json", "b.json", "c.json"}, got)
}

func TestS3_ListError(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("ListObjectsV2PagesWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled"))

	st := &S3{client: client}
	_, err := st.List(context.Background(), "split", "")
	require.Error(t, err)
}
