package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/logger"
	"github.com/yigit/qpaper/internal/pkg/validation"
)

// BlobStorage reads PDF uploads into memory so they can be stored in the database
type BlobStorage struct {
	maxSize int64
}

// NewBlobStorage creates a BlobStorage accepting files up to maxSize bytes
func NewBlobStorage(maxSize int64) *BlobStorage {
	return &BlobStorage{maxSize: maxSize}
}

// MaxSize returns the largest accepted upload in bytes
func (bs *BlobStorage) MaxSize() int64 {
	return bs.maxSize
}

// ReadFile checks the extension and size of an upload and returns its content
func (bs *BlobStorage) ReadFile(fileHeader *multipart.FileHeader) (*FileInfo, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrFileRequired, "All required fields must be filled.")
	}

	if !validation.IsPDFFilename(fileHeader.Filename) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidFileType, "Only PDF files are allowed.")
	}

	if bs.maxSize > 0 && fileHeader.Size > bs.maxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge, tooLargeMessage(bs.maxSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	reader := io.Reader(file)
	if bs.maxSize > 0 {
		reader = io.LimitReader(file, bs.maxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to read uploaded file content")
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if bs.maxSize > 0 && int64(len(data)) > bs.maxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge, tooLargeMessage(bs.maxSize))
	}

	logger.Debug().Str("filename", fileHeader.Filename).Int("size", len(data)).Msg("Upload read into memory")

	return &FileInfo{
		Filename: fileHeader.Filename,
		FileSize: int64(len(data)),
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func tooLargeMessage(maxSize int64) string {
	return fmt.Sprintf("File exceeds the maximum upload size of %d MB.", maxSize>>20)
}
