package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(config.UploadConfig{
		Path:              t.TempDir(),
		PublicPrefix:      "/uploads",
		MaxSize:           16,
		AllowedExtensions: []string{"png", ".JPG"},
	}, logger.Discard())
}

func TestSaveImage(t *testing.T) {
	svc := newTestService(t)

	stored, err := svc.SaveImage("Shirt.PNG", 4, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Path, "/uploads/"))
	assert.True(t, strings.HasSuffix(stored.Filename, ".png"))
	assert.Equal(t, "image/png", stored.MimeType)
	assert.True(t, stored.IsImage())
	assert.Equal(t, int64(4), stored.Size)

	content, err := os.ReadFile(filepath.Join(svc.Dir(), stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestSaveImageRejectsExtension(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveImage("script.sh", 4, strings.NewReader("echo"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.SaveImage("noext", 4, strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveImageRejectsOversize(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveImage("big.jpg", 100, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// Declared size lies; the stream is still capped
	_, err = svc.SaveImage("big.jpg", 1, strings.NewReader(strings.Repeat("x", 64)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(svc.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "partial files are removed")
}

func TestFormattedSize(t *testing.T) {
	assert.Equal(t, "512 B", (&StoredFile{Size: 512}).GetFormattedSize())
	assert.Equal(t, "1.5 KB", (&StoredFile{Size: 1536}).GetFormattedSize())
}
