package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tokendrop/internal/logging"
)

type fakeS3 struct {
	keys []string
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, aws.ToString(params.Key))
	return &s3.PutObjectOutput{}, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func stubClient(t *testing.T, fake *fakeS3) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3Client {
		return fake
	}
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})
}

func seedSeriesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "000A-13994-images"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "000A-13994-metadata"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000A-13994-images", "a.jpeg"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000A-13994-metadata", "a.json"), []byte("{}"), 0o644))
	return dir
}

func TestUploadDir_PutsEveryFile(t *testing.T) {
	fake := &fakeS3{}
	stubClient(t, fake)

	u := NewUploader(Settings{Bucket: "drops", Region: "us-east-1"}, testLogger())
	n, err := u.UploadDir(context.Background(), "000A-13994", seedSeriesDir(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{
		"drops/000A-13994/000A-13994-images/a.jpeg",
		"drops/000A-13994/000A-13994-metadata/a.json",
	}, fake.keys)
}

func TestUploadDir_StopsOnPutError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	stubClient(t, fake)

	u := NewUploader(Settings{Bucket: "drops"}, testLogger())
	n, err := u.UploadDir(context.Background(), "000A-13994", seedSeriesDir(t))
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestUploadDir_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	u := NewUploader(Settings{Bucket: "drops"}, testLogger())
	_, err := u.UploadDir(context.Background(), "000A-13994", t.TempDir())
	assert.Error(t, err)
}
