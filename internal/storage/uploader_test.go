package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{name: "plain", base: "https://cdn.example.com", key: "documents/TM0001_registration.pdf", want: "https://cdn.example.com/documents/TM0001_registration.pdf"},
		{name: "trailing slash", base: "https://cdn.example.com/", key: "/a.png", want: "https://cdn.example.com/a.png"},
		{name: "base with path", base: "https://cdn.example.com/bucket", key: "a.png", want: "https://cdn.example.com/bucket/a.png"},
		{name: "no base", base: "", key: "a.png", want: ""},
		{name: "no key", base: "https://cdn.example.com", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinPublicURL(tt.base, tt.key))
		})
	}
}

func TestMemoryUploader(t *testing.T) {
	u := NewMemoryUploader("https://files.local")
	ctx := context.Background()

	res, err := u.Upload(ctx, "screenshots/TM0001.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "screenshots/TM0001.png", res.Key)
	assert.Equal(t, "https://files.local/screenshots/TM0001.png", res.Location)
	assert.NotEmpty(t, res.ETag)

	obj, ok := u.Get("screenshots/TM0001.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte("png-bytes"), obj.Data)

	require.NoError(t, u.Delete(ctx, "screenshots/TM0001.png"))
	assert.ErrorIs(t, u.Delete(ctx, "screenshots/TM0001.png"), ErrObjectNotFound)
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3UploaderConfig{PublicBaseURL: "https://cdn.example.com"})
	assert.Error(t, err)
}
