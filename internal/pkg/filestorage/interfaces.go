package filestorage

import (
	"mime/multipart"
)

// FileInfo represents an uploaded file loaded into memory for blob storage
type FileInfo struct {
	Filename string // Original filename
	FileSize int64  // Size in bytes
	MimeType string // MIME type reported by the client
	Data     []byte // File content
}

// FileStorage defines how uploaded files are turned into storable blobs
type FileStorage interface {
	// ReadFile validates an uploaded file and loads its content
	ReadFile(fileHeader *multipart.FileHeader) (*FileInfo, error)

	// MaxSize returns the largest accepted upload in bytes
	MaxSize() int64
}
