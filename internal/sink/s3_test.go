package sink

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	objects map[string]string
	types   map[string]string
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = string(b)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkUploadsCSVPerTable(t *testing.T) {
	fp := &fakePutter{objects: map[string]string{}, types: map[string]string{}}
	s := newS3Sink(fp, "bucket", "runs")
	ds := sampleDataset(t)

	out, err := s.Write(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s3://bucket/runs/" + ds.ID + "/tuples.csv",
		"s3://bucket/runs/" + ds.ID + "/categories.csv",
	}, out)
	assert.Equal(t, "zid,z\n0,2\n1,1\n2,0\n", fp.objects["bucket/runs/"+ds.ID+"/categories.csv"])
	assert.Equal(t, "text/csv", fp.types["bucket/runs/"+ds.ID+"/tuples.csv"])
}

func TestS3SinkPropagatesErrors(t *testing.T) {
	fp := &fakePutter{err: errors.New("access denied")}
	_, err := newS3Sink(fp, "bucket", "").Write(context.Background(), sampleDataset(t))
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}
