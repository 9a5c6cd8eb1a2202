package handler

import (
	"mime/multipart"
	"net/http"

	"profilehub/api/middleware"
	"profilehub/internal/dto"
	"profilehub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type FileHandler struct {
	Files  *service.FileService
	Logger logrus.FieldLogger
}

func NewFileHandler(files *service.FileService, logger logrus.FieldLogger) *FileHandler {
	return &FileHandler{Files: files, Logger: logger}
}

func (h *FileHandler) Upload(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, http.StatusBadRequest, "no files uploaded")
	}

	var files []service.UploadFile
	for _, field := range service.FileFields {
		headers := form.File[string(field)]
		if len(headers) == 0 {
			continue
		}
		header := headers[0]
		content, err := header.Open()
		if err != nil {
			return writeError(c, http.StatusBadRequest, "could not read uploaded file")
		}
		defer closeFile(content, h.Logger)
		files = append(files, service.UploadFile{
			Field:       field,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     content,
		})
	}
	if len(files) == 0 {
		return writeError(c, http.StatusBadRequest, "no files uploaded")
	}

	user, uploaded, err := h.Files.Upload(c.Request().Context(), userID, files)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Files uploaded successfully", dto.UploadResponse{
		User:     dto.UserResponseFromEntity(user),
		Uploaded: uploaded,
	})
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "authentication required")
	}
	user, err := h.Files.DeleteFile(c.Request().Context(), userID, c.Param("fileType"))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "File deleted successfully", map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}

func closeFile(file multipart.File, logger logrus.FieldLogger) {
	if err := file.Close(); err != nil && logger != nil {
		logger.WithError(err).Warn("close uploaded file")
	}
}
