package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
)

// S3ClientConfig holds configuration for S3-compatible storage
type S3ClientConfig struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // custom endpoint for S3-compatible providers
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"ap-south-1":     "s3.ap-south-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// NewS3ClientConfigFromEnv creates S3 config from environment variables.
// bucket comes from the application config.
func NewS3ClientConfigFromEnv(bucket string) S3ClientConfig {
	provider := S3ProviderAWS
	if os.Getenv("S3_PROVIDER") == "wasabi" {
		provider = S3ProviderWasabi
	}

	cfg := S3ClientConfig{
		Provider:        provider,
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Region:          os.Getenv("S3_REGION"),
		Bucket:          bucket,
		Endpoint:        os.Getenv("S3_ENDPOINT"),
	}

	if provider == S3ProviderWasabi && cfg.Endpoint == "" {
		if endpoint, ok := WasabiEndpoints[cfg.Region]; ok {
			cfg.Endpoint = endpoint
		} else {
			cfg.Endpoint = "s3.ap-south-1.wasabisys.com"
		}
	}

	return cfg
}

// NewS3Client creates an S3 client with the given config
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	// S3-compatible providers need path-style addressing
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// ObjectPutter is the subset of the S3 API the archive needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResumeArchive keeps a copy of every accepted resume
type ResumeArchive struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

func NewResumeArchive(client ObjectPutter, bucket string) *ResumeArchive {
	return &ResumeArchive{client: client, bucket: bucket, now: time.Now}
}

// Archive stores data under resumes/<form>/<yyyy>/<mm>/<instance><ext> and
// returns the object key
func (a *ResumeArchive) Archive(ctx context.Context, formType, instanceID, filename, contentType string, data []byte) (string, error) {
	ts := a.now().UTC()
	key := path.Join("resumes", formType, ts.Format("2006"), ts.Format("01"),
		instanceID+strings.ToLower(filepath.Ext(filename)))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata: map[string]string{
			"form-type":   formType,
			"instance-id": instanceID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive resume to %s: %w", a.bucket, err)
	}
	return key, nil
}
