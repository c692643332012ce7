package application

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

// MediaStore uploads a file and returns its public URL.
type MediaStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// GCSMedia stores uploads in one Cloud Storage bucket.
type GCSMedia struct {
	Client *storage.Client
	Bucket string
}

func NewGCSMedia(client *storage.Client, bucket string) *GCSMedia {
	return &GCSMedia{Client: client, Bucket: bucket}
}

func (m *GCSMedia) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, m.Client, m.Bucket, objectPath, contentType, r)
}

var _ MediaStore = (*GCSMedia)(nil)
