package service

import (
	"context"
	"io"
)

// FileUploadService is the external storage collaborator. Uploads return a
// reference URL that messages and item reports carry verbatim.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
