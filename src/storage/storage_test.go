package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccepts(t *testing.T) {
	cases := []struct {
		field       string
		contentType string
		want        bool
	}{
		{"image", "image/png", true},
		{"image", "image/heic", true},
		{"image", "video/mp4", true},
		{"image", "video/webm", false},
		{"image", "application/pdf", false},
		{"profilePicture", "image/jpeg", true},
		{"profilePicture", "video/mp4", false},
		{"bannerImage", "image/webp", true},
		{"bannerImage", "text/html", false},
		{"resume", "application/pdf", true},
		{"resume", "application/msword", true},
		{"resume", "image/png", false},
		{"unknown", "image/png", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Accepts(tc.field, tc.contentType),
			"field=%s contentType=%s", tc.field, tc.contentType)
	}
}

func TestLocalSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "image", "cat.png", "image/png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/image-"), "url %q", url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pngbytes", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalDeleteIdempotent(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "/uploads/image-gone.png"))
}

func TestLocalDeleteIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere.example.com/a.png"))
	assert.NoError(t, store.Delete(context.Background(), "/uploads/../secrets.txt"))
	assert.NoError(t, store.Delete(context.Background(), "/uploads/nested/entry.png"))
}

func TestLocalSaveDistinctNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "image", "cat.png", "image/png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "image", "cat.png", "image/png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
