package repository

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) shorts.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download s3://%s/%s", bucket, key)
	}
	return res, nil
}

func (a *awsRepository) DownloadFile(ctx context.Context, bucket, key, localPath string) error {
	obj, err := a.GetObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	outFile, err := os.Create(localPath)
	if err != nil {
		return errors.Wrap(err, "failed to create local file")
	}
	defer outFile.Close()

	if _, err = io.Copy(outFile, obj.Body); err != nil {
		return errors.Wrap(err, "failed to write local file")
	}
	return nil
}

func (a *awsRepository) UploadFile(ctx context.Context, bucket, key, localPath, contentType string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, "failed to open file for upload")
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat file for upload")
	}
	size := stat.Size()

	_, err = a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &bucket,
			Key:           &key,
			Body:          file,
			ContentLength: &size,
			ContentType:   &contentType,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upload s3://%s/%s", bucket, key)
	}
	return nil
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(expiry),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to presign get object")
	}
	return req.URL, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to remove s3://%s/%s", bucket, key)
	}
	return nil
}
