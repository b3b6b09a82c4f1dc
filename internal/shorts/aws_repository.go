package shorts

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type AWSRepository interface {
	GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error)
	DownloadFile(ctx context.Context, bucket, key, localPath string) error
	UploadFile(ctx context.Context, bucket, key, localPath, contentType string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	RemoveObject(ctx context.Context, bucket, key string) error
}
