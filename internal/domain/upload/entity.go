// internal/domain/upload/entity.go
package upload

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// StoredFile describes an image saved by the upload service
type StoredFile struct {
	Path         string `json:"path"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

// IsImage checks if the file is an image
func (f *StoredFile) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

// GetFormattedSize returns human-readable file size
func (f *StoredFile) GetFormattedSize() string {
	const unit = 1024
	if f.Size < unit {
		return fmt.Sprintf("%d B", f.Size)
	}

	div, exp := int64(unit), 0
	for n := f.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(f.Size)/float64(div), "KMGTPE"[exp])
}

func mimeTypeFor(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
