// Package storage keeps uploaded work-log attachments on the local disk.
package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// PublicPrefix is the URL path the upload dir is served under
const PublicPrefix = "/uploads"

// LocalStore writes files under dir using generated names
type LocalStore struct {
	dir     string
	maxSize int64
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the directory files are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save copies one uploaded file to disk and returns its reference
func (s *LocalStore) Save(fh *multipart.FileHeader) (models.Attachment, error) {
	original := filepath.Base(fh.Filename)
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return models.Attachment{}, &apierrors.ValidationError{Violations: []string{
			fmt.Sprintf("File %s exceeds the maximum size of %d bytes", original, s.maxSize),
		}}
	}

	src, err := fh.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open upload %s: %w", original, err)
	}
	defer src.Close()

	stored := uuid.NewString() + strings.ToLower(filepath.Ext(original))
	dst, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to create %s: %w", stored, err)
	}

	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, stored))
		return models.Attachment{}, fmt.Errorf("failed to write %s: %w", stored, err)
	}

	return models.Attachment{
		StoredName:   stored,
		OriginalName: original,
		Path:         path.Join(PublicPrefix, stored),
		Size:         written,
	}, nil
}

// SaveAll saves every file or none of them
func (s *LocalStore) SaveAll(files []*multipart.FileHeader) (models.Attachments, error) {
	if len(files) > constants.MaxAttachmentsPerUpdate {
		return nil, &apierrors.ValidationError{Violations: []string{
			fmt.Sprintf("At most %d attachments are allowed per update", constants.MaxAttachmentsPerUpdate),
		}}
	}

	saved := make(models.Attachments, 0, len(files))
	for _, fh := range files {
		ref, err := s.Save(fh)
		if err != nil {
			s.Remove(saved)
			return nil, err
		}
		saved = append(saved, ref)
	}
	return saved, nil
}

// Remove deletes stored files, logging failures
func (s *LocalStore) Remove(refs models.Attachments) {
	for _, ref := range refs {
		name := filepath.Base(ref.StoredName)
		if name == "." || name == string(filepath.Separator) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove attachment %s: %v", name, err)
		}
	}
}
