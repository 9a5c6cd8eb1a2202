package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"profilehub/internal/entity"
	"profilehub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FileField string

const (
	ProfileImageField FileField = "profileImage"
	CVFileField       FileField = "cvFile"
	IntroVideoField   FileField = "introVideo"
)

const megabyte = 1 << 20

type fileRule struct {
	folder  string
	maxSize int64
	types   []string
}

var fileRules = map[FileField]fileRule{
	ProfileImageField: {
		folder:  "user-profiles",
		maxSize: 5 * megabyte,
		types:   []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
	},
	CVFileField: {
		folder:  "user-cvs",
		maxSize: 10 * megabyte,
		types: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	},
	IntroVideoField: {
		folder:  "user-videos",
		maxSize: 50 * megabyte,
		types:   []string{"video/mp4", "video/avi", "video/mov", "video/wmv"},
	},
}

// FileFields lists the accepted upload fields in form order.
var FileFields = []FileField{ProfileImageField, CVFileField, IntroVideoField}

func MaxFileSize(field FileField) int64 {
	return fileRules[field].maxSize
}

type UploadFile struct {
	Field       FileField
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type FileService struct {
	users  repository.UserRepository
	blobs  BlobStore
	logger logrus.FieldLogger
}

func NewFileService(users repository.UserRepository, blobs BlobStore, logger logrus.FieldLogger) *FileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileService{
		users:  users,
		blobs:  blobs,
		logger: logger.WithField("component", "file_service"),
	}
}

// Upload stores every file, points the user's columns at the new URLs and
// then drops the blobs they replaced.
func (s *FileService) Upload(ctx context.Context, userID uuid.UUID, files []UploadFile) (*entity.User, []string, error) {
	if len(files) == 0 {
		return nil, nil, ErrInvalidInput
	}
	for _, file := range files {
		if err := validateUpload(file); err != nil {
			return nil, nil, err
		}
	}
	if s.blobs == nil {
		return nil, nil, ErrStorageUnavailable
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	var replaced []*string
	var uploadedKeys []string
	uploaded := make([]string, 0, len(files))
	for _, file := range files {
		rule := fileRules[file.Field]
		ext := strings.ToLower(filepath.Ext(file.Filename))
		object, err := s.blobs.Upload(ctx, file.Content, file.Size, rule.folder, mediaType(file.ContentType), ext)
		if err != nil {
			s.discard(ctx, uploadedKeys)
			return nil, nil, err
		}
		uploadedKeys = append(uploadedKeys, object.Key)

		slot := fileSlot(user, file.Field)
		replaced = append(replaced, *slot)
		url := object.URL
		*slot = &url
		uploaded = append(uploaded, string(file.Field))
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.discard(ctx, uploadedKeys)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	for _, old := range replaced {
		s.removeBlob(ctx, old)
	}
	return user, uploaded, nil
}

func (s *FileService) DeleteFile(ctx context.Context, userID uuid.UUID, fileType string) (*entity.User, error) {
	field := FileField(fileType)
	if _, ok := fileRules[field]; !ok {
		return nil, ErrInvalidFileType
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	slot := fileSlot(user, field)
	if *slot == nil || **slot == "" {
		return nil, ErrFileNotFound
	}

	s.removeBlob(ctx, *slot)
	*slot = nil
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *FileService) removeBlob(ctx context.Context, url *string) {
	if s.blobs == nil || url == nil || *url == "" {
		return
	}
	key, ok := s.blobs.KeyFromURL(*url)
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("stored file not deleted")
	}
}

func (s *FileService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("orphaned upload not deleted")
		}
	}
}

func validateUpload(file UploadFile) error {
	rule, ok := fileRules[file.Field]
	if !ok {
		return ErrInvalidFileType
	}
	if file.Content == nil {
		return ErrInvalidInput
	}
	if file.Size > rule.maxSize {
		return ErrFileTooLarge
	}
	if !slices.Contains(rule.types, mediaType(file.ContentType)) {
		return ErrUnsupportedFileType
	}
	return nil
}

func mediaType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return parsed
}

func fileSlot(user *entity.User, field FileField) **string {
	switch field {
	case ProfileImageField:
		return &user.ProfileImage
	case CVFileField:
		return &user.CVFile
	default:
		return &user.IntroVideo
	}
}
