package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/dealsync/internal/config"
	"github.com/dmitrijs2005/dealsync/internal/logging"
)

// S3Client implements Client against an S3-compatible bucket (AWS, MinIO, R2).
// Blob names map to object keys under the configured prefix.
type S3Client struct {
	cfg    config.S3Config
	prefix string
	logger logging.Logger
	client *s3.Client
}

func NewS3Client(cfg config.S3Config, prefix string, logger logging.Logger) *S3Client {
	return &S3Client{cfg: cfg, prefix: strings.Trim(prefix, "/"), logger: logger}
}

func (c *S3Client) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return path.Join(c.prefix, name)
}

// Connect builds the SDK client and verifies the bucket is reachable.
func (c *S3Client) Connect(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.cfg.AccessKey,
			c.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return classifyS3(fmt.Errorf("load aws config: %w", err))
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.cfg.Endpoint)
			// MinIO and friends serve buckets by path, not by virtual host.
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	}); err != nil {
		return classifyS3(fmt.Errorf("head bucket %s: %w", c.cfg.Bucket, err))
	}

	c.client = client
	c.logger.Debug(ctx, "connected to s3 drop", "bucket", c.cfg.Bucket)
	return nil
}

func (c *S3Client) List(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, ErrNotConnected
	}

	var names []string
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.cfg.Bucket),
	}
	if c.prefix != "" {
		in.Prefix = aws.String(c.prefix + "/")
	}

	paginator := s3.NewListObjectsV2Paginator(c.client, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyS3(fmt.Errorf("list objects: %w", err))
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			names = append(names, path.Base(*obj.Key))
		}
	}
	return names, nil
}

func (c *S3Client) Upload(ctx context.Context, name string, data []byte) error {
	if c.client == nil {
		return ErrNotConnected
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(c.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return classifyS3(fmt.Errorf("put %s: %w", name, err))
	}
	return nil
}

func (c *S3Client) Download(ctx context.Context, name string) ([]byte, error) {
	if c.client == nil {
		return nil, ErrNotConnected
	}
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(c.key(name)),
	})
	if err != nil {
		return nil, classifyS3(fmt.Errorf("get %s: %w", name, err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, classifyS3(fmt.Errorf("get %s: %w", name, err))
	}
	return data, nil
}

func (c *S3Client) Delete(ctx context.Context, name string) error {
	if c.client == nil {
		return ErrNotConnected
	}
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(c.key(name)),
	})
	if err != nil {
		return classifyS3(fmt.Errorf("delete %s: %w", name, err))
	}
	return nil
}

func (c *S3Client) Disconnect() error {
	c.client = nil
	return nil
}

// classifyS3 maps an SDK failure to one of the transport failure classes,
// preserving the original error in the chain.
func classifyS3(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
			"ExpiredToken", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case "SlowDown", "ServiceUnavailable", "InternalError", "RequestTimeout":
			return fmt.Errorf("%w: %v", ErrTemporary, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return err
}
