package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores payment screenshots and generated registration documents.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

func joinPublicURL(base, key string) string {
	if base == "" || key == "" {
		return ""
	}

	baseURL, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return ""
	}
	keyURL, err := url.Parse(strings.TrimPrefix(key, "/"))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(keyURL).String()
}
