// Package storage uploads backup files to Backblaze B2.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

type B2Storage struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

func Init(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("b2 bucket %s: %w", bucketName, err)
	}
	return &B2Storage{Client: client, Bucket: bucket}, nil
}

// Upload stores r under key and returns the object's download URL.
func (s *B2Storage) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	w := s.Bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/file/%s/%s", s.Bucket.BaseURL(), s.Bucket.Name(), key), nil
}
