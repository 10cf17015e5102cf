package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
)

var fixed = time.UnixMilli(1718000000123)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "beach.jpg", "memories/1718000000123-beach.jpg"},
		{"whitespace runs", "my  summer\tpic.png", "memories/1718000000123-my-summer-pic.png"},
		{"directories dropped", "C:\\Users\\me\\photo 1.jpg", "memories/1718000000123-photo-1.jpg"},
		{"empty", "", "memories/1718000000123-upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.in, fixed))
		})
	}
}

type fakePut struct {
	in  *s3.PutObjectInput
	raw []byte
	err error
}

func (f *fakePut) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.raw, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	put := &fakePut{}
	st := newS3Store(put, "memorylane", "http://127.0.0.1:9000")
	st.now = func() time.Time { return fixed }

	u, err := st.Upload(context.Background(), "summer day.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/memorylane/memories/1718000000123-summer-day.jpg", u)

	assert.Equal(t, "memorylane", aws.ToString(put.in.Bucket))
	assert.Equal(t, "memories/1718000000123-summer-day.jpg", aws.ToString(put.in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(put.in.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(put.in.ContentLength))
	assert.Equal(t, []byte("jpeg"), put.raw)
}

func TestS3Store_UploadBuffersUnseekableBody(t *testing.T) {
	put := &fakePut{}
	st := newS3Store(put, "b", "http://cdn.example")

	body := io.MultiReader(bytes.NewReader([]byte("ab")), bytes.NewReader([]byte("cd")))
	_, err := st.Upload(context.Background(), "x.png", body, 0, "")
	require.NoError(t, err)

	_, seekable := put.in.Body.(io.ReadSeeker)
	assert.True(t, seekable)
	assert.Equal(t, int64(4), aws.ToInt64(put.in.ContentLength))
	assert.Nil(t, put.in.ContentType)
}

func TestS3Store_UploadError(t *testing.T) {
	st := newS3Store(&fakePut{err: errors.New("access denied")}, "b", "http://x")

	_, err := st.Upload(context.Background(), "x.png", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), S3Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "memorylane",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000", st.public)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)
}

type fakeStorage struct {
	bucket, path, contentType string
	err                       error
}

func (f *fakeStorage) UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	f.bucket, f.path = bucketID, relativePath
	if len(fileOptions) > 0 && fileOptions[0].ContentType != nil {
		f.contentType = *fileOptions[0].ContentType
	}
	return storage_go.FileUploadResponse{}, f.err
}

func (f *fakeStorage) GetPublicUrl(bucketID, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse {
	return storage_go.SignedUrlResponse{SignedURL: "https://proj.supabase.co/storage/v1/object/public/" + bucketID + "/" + filePath}
}

func TestSupabaseStore_Upload(t *testing.T) {
	fs := &fakeStorage{}
	st := newSupabaseStore(fs, "images")
	st.now = func() time.Time { return fixed }

	u, err := st.Upload(context.Background(), "a b.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/images/memories/1718000000123-a-b.jpg", u)
	assert.Equal(t, "images", fs.bucket)
	assert.Equal(t, "image/jpeg", fs.contentType)

	fs.err = errors.New("quota")
	_, err = st.Upload(context.Background(), "a.jpg", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}
