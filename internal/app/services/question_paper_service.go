package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/pkg/filestorage"
	"github.com/yigit/qpaper/internal/pkg/helpers"
	"github.com/yigit/qpaper/internal/pkg/logger"
	"github.com/yigit/qpaper/internal/pkg/validation"
)

// QuestionPaperService defines the interface for question paper operations
type QuestionPaperService interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.QuestionPaperListResult, error)
	Get(ctx context.Context, id int64) (*models.QuestionPaper, error)
	Create(ctx context.Context, input dto.QuestionPaperInput, file *multipart.FileHeader) (int64, error)
	Update(ctx context.Context, id int64, input dto.QuestionPaperInput, file *multipart.FileHeader) error
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, id int64) (*dto.FileDownload, error)
}

// questionPaperServiceImpl implements QuestionPaperService
type questionPaperServiceImpl struct {
	repo      *repositories.QuestionPaperRepository
	storage   filestorage.FileStorage
	validator *validation.Validator
}

// NewQuestionPaperService creates a new QuestionPaperService
func NewQuestionPaperService(
	repo *repositories.QuestionPaperRepository,
	storage filestorage.FileStorage,
	validator *validation.Validator,
) QuestionPaperService {
	return &questionPaperServiceImpl{
		repo:      repo,
		storage:   storage,
		validator: validator,
	}
}

// newQuestionPaper adds the mandatory file to the fields checked on add
type newQuestionPaper struct {
	dto.QuestionPaperInput
	File *multipart.FileHeader `validate:"required"`
}

// List returns one page of the listing with its pagination info
func (s *questionPaperServiceImpl) List(ctx context.Context, q dto.ListQuery) (*dto.QuestionPaperListResult, error) {
	q = q.Normalized()

	papers, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error listing question papers: %w", err)
	}

	return &dto.QuestionPaperListResult{
		Papers:     papers,
		Query:      q,
		Pagination: dto.NewPaginationInfo(total, q.Page, helpers.DefaultPageSize),
	}, nil
}

// Get returns the metadata of one question paper
func (s *questionPaperServiceImpl) Get(ctx context.Context, id int64) (*models.QuestionPaper, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and the uploaded PDF, then stores both
func (s *questionPaperServiceImpl) Create(ctx context.Context, input dto.QuestionPaperInput, file *multipart.FileHeader) (int64, error) {
	if file != nil && file.Filename == "" {
		file = nil
	}

	if err := s.validator.Struct(newQuestionPaper{QuestionPaperInput: input, File: file}, validation.QuestionPaperMessages); err != nil {
		return 0, err
	}

	upload, err := s.storage.ReadFile(file)
	if err != nil {
		return 0, err
	}

	paper := input.ToModel()
	paper.FileData = upload.Data

	id, err := s.repo.Create(ctx, paper)
	if err != nil {
		return 0, fmt.Errorf("error creating question paper: %w", err)
	}

	logger.Info().Int64("id", id).Str("subject", paper.SubjectName).Int64("size", upload.FileSize).Msg("Question paper created")
	return id, nil
}

// Update validates the input and overwrites the record; the stored PDF is kept unless a new one is uploaded
func (s *questionPaperServiceImpl) Update(ctx context.Context, id int64, input dto.QuestionPaperInput, file *multipart.FileHeader) error {
	if err := s.validator.Struct(input, validation.QuestionPaperMessages); err != nil {
		return err
	}

	paper := input.ToModel()
	paper.ID = id

	replaceFile := file != nil && file.Filename != ""
	if replaceFile {
		upload, err := s.storage.ReadFile(file)
		if err != nil {
			return err
		}
		paper.FileData = upload.Data
	}

	if err := s.repo.Update(ctx, paper, replaceFile); err != nil {
		return err
	}

	logger.Info().Int64("id", id).Bool("fileReplaced", replaceFile).Msg("Question paper updated")
	return nil
}

// Delete removes a question paper; a missing id yields ErrQuestionPaperNotFound
func (s *questionPaperServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("id", id).Msg("Question paper deleted")
	return nil
}

// Download returns the stored PDF with its download filename
func (s *questionPaperServiceImpl) Download(ctx context.Context, id int64) (*dto.FileDownload, error) {
	file, err := s.repo.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.FileDownload{
		Filename:    helpers.QuestionPaperFilename(file.ID, file.SubjectName, file.YearName),
		ContentType: "application/pdf",
		Data:        file.Data,
	}, nil
}
