package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/db"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/helpers"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

// QuestionPaperRepository handles question paper database operations
type QuestionPaperRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewQuestionPaperRepository creates a new QuestionPaperRepository
func NewQuestionPaperRepository(database *db.Database) *QuestionPaperRepository {
	return &QuestionPaperRepository{
		db: database,
		sb: database.Builder,
	}
}

// List returns one page of question papers matching the listing query and the total number of matches
func (r *QuestionPaperRepository) List(ctx context.Context, q dto.ListQuery) ([]models.QuestionPaper, int64, error) {
	lq := NewListingQuery(r.sb, q)

	countSQL, countArgs, err := lq.CountQuery().ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count question papers SQL")
		return nil, 0, fmt.Errorf("failed to build count question papers query: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count question papers query")
		return nil, 0, fmt.Errorf("failed to count question papers: %w", err)
	}

	// Pages past the last one are empty and never reach OFFSET
	if total == 0 || lq.Page() > helpers.TotalPages(total, lq.PageSize()) {
		return []models.QuestionPaper{}, total, nil
	}

	pageSQL, pageArgs, err := lq.PageQuery().ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list question papers SQL")
		return nil, 0, fmt.Errorf("failed to build list question papers query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		logger.Error().Err(err).Str("sql", pageSQL).Msg("Error executing list question papers query")
		return nil, 0, fmt.Errorf("failed to list question papers: %w", err)
	}
	defer rows.Close()

	papers := make([]models.QuestionPaper, 0, lq.PageSize())
	for rows.Next() {
		paper, err := scanQuestionPaper(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning question paper row")
			return nil, 0, fmt.Errorf("failed to scan question paper: %w", err)
		}
		papers = append(papers, *paper)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating question paper rows")
		return nil, 0, fmt.Errorf("failed to iterate question papers: %w", err)
	}

	return papers, total, nil
}

// GetByID returns the metadata of a question paper without its file
func (r *QuestionPaperRepository) GetByID(ctx context.Context, id int64) (*models.QuestionPaper, error) {
	query, args, err := r.sb.Select(listColumns...).
		From(questionPapersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question paper query: %w", err)
	}

	paper, err := scanQuestionPaper(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrQuestionPaperNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error getting question paper by ID")
		return nil, fmt.Errorf("failed to get question paper: %w", err)
	}

	return paper, nil
}

// GetFile returns the stored PDF together with the fields used to name the download
func (r *QuestionPaperRepository) GetFile(ctx context.Context, id int64) (*models.QuestionPaperFile, error) {
	query, args, err := r.sb.Select("id", "subject_name", "year_name", "file_data").
		From(questionPapersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question paper file query: %w", err)
	}

	var file models.QuestionPaperFile
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&file.ID, &file.SubjectName, &file.YearName, &file.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrQuestionPaperNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error getting question paper file")
		return nil, fmt.Errorf("failed to get question paper file: %w", err)
	}

	return &file, nil
}

// Create inserts a question paper including its file and returns the new id
func (r *QuestionPaperRepository) Create(ctx context.Context, paper *models.QuestionPaper) (int64, error) {
	query, args, err := r.sb.Insert(questionPapersTable).
		Columns("year_name", "semester_no", "subject_name", "subject_code", "paper_type", "paper_year", "file_data").
		Values(
			paper.YearName,
			paper.SemesterNo,
			paper.SubjectName,
			helpers.GetNullString(paper.SubjectCode),
			string(paper.PaperType),
			helpers.GetNullInt64(paper.PaperYear),
			paper.FileData,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create question paper query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("subject", paper.SubjectName).Msg("Error creating question paper")
		return 0, fmt.Errorf("failed to create question paper: %w", err)
	}

	paper.ID = id
	return id, nil
}

// Update overwrites the metadata of a question paper; the file is replaced only when replaceFile is set
func (r *QuestionPaperRepository) Update(ctx context.Context, paper *models.QuestionPaper, replaceFile bool) error {
	update := r.sb.Update(questionPapersTable).
		Set("year_name", paper.YearName).
		Set("semester_no", paper.SemesterNo).
		Set("subject_name", paper.SubjectName).
		Set("subject_code", helpers.GetNullString(paper.SubjectCode)).
		Set("paper_type", string(paper.PaperType)).
		Set("paper_year", helpers.GetNullInt64(paper.PaperYear))

	if replaceFile {
		update = update.Set("file_data", paper.FileData)
	}

	query, args, err := update.Where(squirrel.Eq{"id": paper.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update question paper query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", paper.ID).Msg("Error updating question paper")
		return fmt.Errorf("failed to update question paper: %w", err)
	}

	return requireAffected(result, paper.ID)
}

// Delete removes a question paper by id
func (r *QuestionPaperRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(questionPapersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete question paper query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error deleting question paper")
		return fmt.Errorf("failed to delete question paper: %w", err)
	}

	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error reading affected rows")
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrQuestionPaperNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestionPaper(row rowScanner) (*models.QuestionPaper, error) {
	var (
		paper       models.QuestionPaper
		subjectCode sql.NullString
		paperType   string
		paperYear   sql.NullInt64
	)

	if err := row.Scan(
		&paper.ID,
		&paper.YearName,
		&paper.SemesterNo,
		&paper.SubjectName,
		&subjectCode,
		&paperType,
		&paperYear,
	); err != nil {
		return nil, err
	}

	paper.SubjectCode = helpers.StringPtr(subjectCode)
	paper.PaperType = models.PaperType(paperType)
	paper.PaperYear = helpers.IntPtr(paperYear)
	return &paper, nil
}
