// internal/domain/upload/service.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured size
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for extensions outside the allow list
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Service handles file upload business logic
type Service struct {
	dir          string
	publicPrefix string
	maxSize      int64
	allowed      map[string]struct{}
	log          logrus.FieldLogger
}

// NewService creates a new upload service
func NewService(cfg config.UploadConfig, log logrus.FieldLogger) *Service {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Service{
		dir:          cfg.Path,
		publicPrefix: cfg.PublicPrefix,
		maxSize:      cfg.MaxSize,
		allowed:      allowed,
		log:          log.WithField("component", "upload_service"),
	}
}

// Dir returns the directory uploads are written to
func (s *Service) Dir() string {
	return s.dir
}

// SaveImage validates and stores an image under a fresh uuid filename
func (s *Service) SaveImage(originalName string, size int64, src io.Reader) (*StoredFile, error) {
	ext, err := s.validate(originalName, size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.NewString() + "." + ext
	fullPath := filepath.Join(s.dir, filename)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Copy one byte past the limit so a lying Content-Length is still caught
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	stored := &StoredFile{
		Path:         path.Join(s.publicPrefix, filename),
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeTypeFor(filename),
		Size:         written,
	}
	s.log.WithFields(logrus.Fields{"file": filename, "size": stored.GetFormattedSize()}).Info("image uploaded")
	return stored, nil
}

func (s *Service) validate(originalName string, size int64) (string, error) {
	if size > s.maxSize {
		return "", fmt.Errorf("%w: maximum is %d bytes", ErrFileTooLarge, s.maxSize)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if _, ok := s.allowed[ext]; !ok || ext == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(originalName))
	}
	return ext, nil
}
