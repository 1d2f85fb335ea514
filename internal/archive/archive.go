// Package archive uploads a generated series directory to an S3-compatible
// bucket. Pins can be unpinned and local disks die; the bucket is the durable
// copy of every artifact a drop produced.
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/tokendrop/internal/logging"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Client is the S3 surface the uploader needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Settings carry the bucket coordinates. Endpoint is optional and covers
// MinIO and other S3-compatible stores.
type Settings struct {
	Bucket   string
	Region   string
	Endpoint string
	User     string
	Password string
}

type Uploader struct {
	settings Settings
	log      logging.Logger
}

func NewUploader(settings Settings, log logging.Logger) *Uploader {
	return &Uploader{settings: settings, log: log}
}

func (u *Uploader) client(ctx context.Context) (S3Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.settings.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.settings.User,
			u.settings.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.settings.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// UploadDir walks dir and puts every regular file under
// "drops/{seriesID}/{relative path}" in the bucket. Uploads are sequential;
// the first failure aborts the walk.
func (u *Uploader) UploadDir(ctx context.Context, seriesID, dir string) (int, error) {
	client, err := u.client(ctx)
	if err != nil {
		return 0, fmt.Errorf("building s3 client: %w", err)
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("drops/%s/%s", seriesID, filepath.ToSlash(rel))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(u.settings.Bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		if err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}

		u.log.Debug(ctx, "archived file", "key", key)
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	u.log.Info(ctx, "series archived", "series", seriesID, "files", count, "bucket", u.settings.Bucket)
	return count, nil
}
