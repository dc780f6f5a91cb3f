package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sync"

	"github.com/pkg/errors"
)

var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	ContentType string
	Data        []byte
}

// MemoryUploader keeps objects in process. It backs the memory storage driver
// and tests.
type MemoryUploader struct {
	mu            sync.RWMutex
	objects       map[string]Object
	publicBaseURL string
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	return &MemoryUploader{
		objects:       make(map[string]Object),
		publicBaseURL: publicBaseURL,
	}
}

func (u *MemoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, errors.Wrapf(err, "read object %s", key)
	}
	sum := md5.Sum(buf.Bytes())

	u.mu.Lock()
	u.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	u.mu.Unlock()

	return &UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
		ETag:     hex.EncodeToString(sum[:]),
	}, nil
}

func (u *MemoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(u.objects, key)
	return nil
}

func (u *MemoryUploader) GetPublicURL(key string) string {
	return joinPublicURL(u.publicBaseURL, key)
}

func (u *MemoryUploader) Get(key string) (Object, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	obj, ok := u.objects[key]
	return obj, ok
}
