package config

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object storage for claim file uploads and backup exports. Nil clients mean
// storage is not configured; the upload endpoints report the feature as
// unavailable instead of crashing.
var (
	S3Client  *s3.Client
	S3Presign *s3.PresignClient
)

// StorageBucket returns the bucket claim files and backups land in.
func StorageBucket() string {
	return os.Getenv("S3_BUCKET")
}

// InitStorage builds the S3 clients, honouring AWS_ENDPOINT_URL for
// LocalStack-style local development.
func InitStorage(ctx context.Context) {
	if StorageBucket() == "" {
		log.Println("Warning: S3_BUCKET not set (file uploads disabled)")
		return
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-west-2"
	}

	endpoint := os.Getenv("AWS_ENDPOINT_URL") // e.g. http://localstack:4566
	var cfg aws.Config
	var err error
	if endpoint == "" {
		cfg, err = awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region))
	} else {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, r string, _ ...any) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				HostnameImmutable: true,
				PartitionID:       "aws",
			}, nil
		})
		cfg, err = awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region), awsCfg.WithEndpointResolverWithOptions(resolver))
	}
	if err != nil {
		log.Printf("Warning: failed to load AWS config: %v (file uploads disabled)", err)
		return
	}

	S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})
	S3Presign = s3.NewPresignClient(S3Client)
	log.Println("Object storage configured")
}
