package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileServiceFixture() (*FileService, *memoryUserRepo, *fakeBlobStore) {
	logger, _ := test.NewNullLogger()
	users := newMemoryUserRepo()
	blobs := newFakeBlobStore()
	return NewFileService(users, blobs, logger), users, blobs
}

func upload(field FileField, filename, contentType string, size int64) UploadFile {
	return UploadFile{
		Field:       field,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Content:     strings.NewReader("payload"),
	}
}

func TestFileService_UploadStoresURLs(t *testing.T) {
	svc, users, blobs := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")

	user, uploaded, err := svc.Upload(context.Background(), alice.ID, []UploadFile{
		upload(ProfileImageField, "me.PNG", "image/png", 1024),
		upload(CVFileField, "cv.pdf", "application/pdf", 2048),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"profileImage", "cvFile"}, uploaded)
	require.NotNil(t, user.ProfileImage)
	require.NotNil(t, user.CVFile)
	assert.Nil(t, user.IntroVideo)
	assert.True(t, strings.HasPrefix(*user.ProfileImage, blobBaseURL+"user-profiles/"))
	assert.True(t, strings.HasSuffix(*user.ProfileImage, ".png"))
	assert.True(t, strings.HasPrefix(*user.CVFile, blobBaseURL+"user-cvs/"))
	assert.Len(t, blobs.objects, 2)

	stored := users.get(alice.ID)
	assert.Equal(t, *user.ProfileImage, *stored.ProfileImage)
}

func TestFileService_UploadReplacesOldBlob(t *testing.T) {
	svc, users, blobs := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	ctx := context.Background()

	first, _, err := svc.Upload(ctx, alice.ID, []UploadFile{upload(ProfileImageField, "a.png", "image/png", 10)})
	require.NoError(t, err)
	oldKey, _ := blobs.KeyFromURL(*first.ProfileImage)

	second, _, err := svc.Upload(ctx, alice.ID, []UploadFile{upload(ProfileImageField, "b.jpg", "image/jpeg", 10)})
	require.NoError(t, err)
	assert.NotEqual(t, *first.ProfileImage, *second.ProfileImage)
	assert.Equal(t, []string{oldKey}, blobs.deleted)
}

func TestFileService_UploadValidation(t *testing.T) {
	svc, users, blobs := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	ctx := context.Background()

	tests := []struct {
		name string
		file UploadFile
		want error
	}{
		{"image too large", upload(ProfileImageField, "a.png", "image/png", 5*megabyte+1), ErrFileTooLarge},
		{"cv too large", upload(CVFileField, "a.pdf", "application/pdf", 10*megabyte+1), ErrFileTooLarge},
		{"video too large", upload(IntroVideoField, "a.mp4", "video/mp4", 50*megabyte+1), ErrFileTooLarge},
		{"image as pdf", upload(ProfileImageField, "a.pdf", "application/pdf", 10), ErrUnsupportedFileType},
		{"cv as image", upload(CVFileField, "a.png", "image/png", 10), ErrUnsupportedFileType},
		{"video as text", upload(IntroVideoField, "a.txt", "text/plain", 10), ErrUnsupportedFileType},
		{"unknown field", upload(FileField("avatar"), "a.png", "image/png", 10), ErrInvalidFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Upload(ctx, alice.ID, []UploadFile{tt.file})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, blobs.objects)

	_, _, err := svc.Upload(ctx, alice.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFileService_UploadAcceptsLimitAndParams(t *testing.T) {
	svc, users, _ := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")

	_, uploaded, err := svc.Upload(context.Background(), alice.ID, []UploadFile{
		upload(IntroVideoField, "intro.mp4", "video/mp4; codecs=avc1", 50*megabyte),
		upload(CVFileField, "cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 10*megabyte),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"introVideo", "cvFile"}, uploaded)
}

func TestFileService_UploadUnknownUser(t *testing.T) {
	svc, _, _ := newFileServiceFixture()
	_, _, err := svc.Upload(context.Background(), uuid.New(), []UploadFile{upload(ProfileImageField, "a.png", "image/png", 10)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFileService_UploadRollsBackBlobsWhenSaveFails(t *testing.T) {
	svc, users, blobs := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	users.updateErr = errBoom

	_, _, err := svc.Upload(context.Background(), alice.ID, []UploadFile{upload(ProfileImageField, "a.png", "image/png", 10)})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, blobs.objects)
	assert.Len(t, blobs.deleted, 1)
}

func TestFileService_UploadWithoutStorage(t *testing.T) {
	logger, _ := test.NewNullLogger()
	users := newMemoryUserRepo()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	svc := NewFileService(users, nil, logger)

	_, _, err := svc.Upload(context.Background(), alice.ID, []UploadFile{upload(ProfileImageField, "a.png", "image/png", 10)})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileService_DeleteFile(t *testing.T) {
	svc, users, blobs := newFileServiceFixture()
	alice := seedUser(t, users, "Alice", "alice@example.com")
	ctx := context.Background()

	_, err := svc.DeleteFile(ctx, alice.ID, "avatar")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.DeleteFile(ctx, alice.ID, "cvFile")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, _, err = svc.Upload(ctx, alice.ID, []UploadFile{upload(CVFileField, "cv.pdf", "application/pdf", 10)})
	require.NoError(t, err)

	user, err := svc.DeleteFile(ctx, alice.ID, "cvFile")
	require.NoError(t, err)
	assert.Nil(t, user.CVFile)
	assert.Nil(t, users.get(alice.ID).CVFile)
	assert.Len(t, blobs.deleted, 1)
	assert.Empty(t, blobs.objects)

	_, err = svc.DeleteFile(ctx, uuid.New(), "cvFile")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
