package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds construction parameters for an S3 or MinIO target.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	Prefix          string
	PathStyle       bool
	AccessKeyID     string // optional; falls back to the default credential chain
	SecretAccessKey string
	SessionToken    string
}

// objectPutter is the slice of the S3 client the sink needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each table as <prefix>/<dataset id>/<table>.csv.
type S3Sink struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3 builds an S3 client from cfg and the ambient AWS configuration.
func NewS3(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Sink(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Sink(client objectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

func (*S3Sink) Name() string { return NameS3 }

// Key returns the object key used for a table of ds.
func (s *S3Sink) Key(ds *dataset.Dataset, table string) string {
	return path.Join(s.prefix, ds.ID, table+".csv")
}

func (s *S3Sink) Write(ctx context.Context, ds *dataset.Dataset) ([]string, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	var out []string
	for i := range ds.Tables {
		t := &ds.Tables[i]
		var buf bytes.Buffer
		if err := t.WriteCSV(&buf); err != nil {
			return out, fmt.Errorf("encode %s: %w", t.Name, err)
		}
		key := s.Key(ds, t.Name)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("text/csv"),
			Metadata: map[string]string{
				"dataset-id":   ds.ID,
				"dataset-kind": ds.Kind,
			},
		})
		if err != nil {
			return out, fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
		}
		out = append(out, fmt.Sprintf("s3://%s/%s", s.bucket, key))
	}
	return out, nil
}
