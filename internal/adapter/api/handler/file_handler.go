package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/domain/service"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
	"github.com/xujalz/Lost-And-Found/pkg/logger"
	"github.com/xujalz/Lost-And-Found/pkg/response"
)

type FileHandler struct {
	fileService service.FileUploadService
	maxFileSize int64
}

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxFileSize: 5 * 1024 * 1024,
	}
}

// UploadFile stores a multipart upload and returns its public URL. The
// caller then references that URL from a chat message or an item report.
func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	logger.Debug("upload: %s, %d bytes, %s", file.Filename, file.Size, file.Header.Get("Content-Type"))

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !isAllowedFileType(fileType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := sanitizeFolderName(c.FormValue("folder"))
	if folder == "" {
		folder = "uploads"
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, folder)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	return response.Created(c, map[string]string{
		"file_url": url,
	})
}

func isAllowedFileType(fileType string) bool {
	switch fileType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "application/pdf":
		return true
	}
	return false
}

func sanitizeFolderName(folder string) string {
	folder = strings.Trim(folder, "/")
	if strings.Contains(folder, "..") {
		return ""
	}
	return folder
}
