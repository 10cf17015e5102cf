package assets

import (
	"context"
	"fmt"
	"io"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

type storageAPI interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseStore writes to a public Supabase Storage bucket.
type SupabaseStore struct {
	client storageAPI
	bucket string
	now    func() time.Time
}

// NewSupabaseStore takes the Storage field of a *supabase.Client.
func NewSupabaseStore(client *storage_go.Client, bucket string) *SupabaseStore {
	return newSupabaseStore(client, bucket)
}

func newSupabaseStore(client storageAPI, bucket string) *SupabaseStore {
	return &SupabaseStore{client: client, bucket: bucket, now: time.Now}
}

func (s *SupabaseStore) Upload(ctx context.Context, name string, body io.Reader, _ int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(name, s.now())

	var opts storage_go.FileOptions
	if contentType != "" {
		opts.ContentType = &contentType
	}
	if _, err := s.client.UploadFile(s.bucket, key, body, opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.client.GetPublicUrl(s.bucket, key).SignedURL, nil
}
