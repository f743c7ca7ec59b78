package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/pkg/helpers"
)

// Listing sort keys
const (
	SortByID         = "id"
	SortByYearName   = "year_name"
	SortBySemesterNo = "semester_no"
	SortByPaperYear  = "paper_year"
)

// SortOptions lists the allowed sort keys in display order
var SortOptions = []string{SortByID, SortByYearName, SortBySemesterNo, SortByPaperYear}

// QuestionPaperForm is the raw multipart form of the add and update pages
type QuestionPaperForm struct {
	YearName    string `form:"year_name"`
	SemesterNo  string `form:"semester_no"`
	SubjectName string `form:"subject_name"`
	SubjectCode string `form:"subject_code"`
	PaperType   string `form:"paper_type"`
	PaperYear   string `form:"paper_year"`
}

// QuestionPaperInput is the validated shape of a question paper before persistence
type QuestionPaperInput struct {
	YearName    string  `validate:"required,max=20"`
	SubjectName string  `validate:"required,max=100"`
	SubjectCode *string `validate:"omitempty,max=20"`
	SemesterNo  *int    `validate:"required,min=1,max=12"`
	PaperType   string  `validate:"required,oneof=Regular Arrear"`
	PaperYear   *int    `validate:"omitempty,min=1900,max=9999"`
}

// ToInput trims the form values and converts the numeric fields.
// Numbers that do not parse are mapped out of range so validation reports them.
func (f QuestionPaperForm) ToInput() QuestionPaperInput {
	input := QuestionPaperInput{
		YearName:    strings.TrimSpace(f.YearName),
		SubjectName: strings.TrimSpace(f.SubjectName),
		PaperType:   strings.TrimSpace(f.PaperType),
	}

	if code := strings.TrimSpace(f.SubjectCode); code != "" {
		input.SubjectCode = &code
	}

	if raw := strings.TrimSpace(f.SemesterNo); raw != "" {
		semester, err := strconv.Atoi(raw)
		if err != nil {
			semester = 0
		}
		input.SemesterNo = &semester
	}

	if raw := strings.TrimSpace(f.PaperYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			year = -1
		}
		input.PaperYear = &year
	}

	return input
}

// ToModel builds the record described by a validated input
func (in QuestionPaperInput) ToModel() *models.QuestionPaper {
	paper := &models.QuestionPaper{
		YearName:    in.YearName,
		SubjectName: in.SubjectName,
		SubjectCode: in.SubjectCode,
		PaperType:   models.PaperType(in.PaperType),
		PaperYear:   in.PaperYear,
	}
	if in.SemesterNo != nil {
		paper.SemesterNo = *in.SemesterNo
	}
	return paper
}

// FormFromModel fills the edit form with the stored values
func FormFromModel(paper *models.QuestionPaper) QuestionPaperForm {
	form := QuestionPaperForm{
		YearName:    paper.YearName,
		SemesterNo:  strconv.Itoa(paper.SemesterNo),
		SubjectName: paper.SubjectName,
		PaperType:   string(paper.PaperType),
	}
	if paper.SubjectCode != nil {
		form.SubjectCode = *paper.SubjectCode
	}
	if paper.PaperYear != nil {
		form.PaperYear = strconv.Itoa(*paper.PaperYear)
	}
	return form
}

// ListQuery holds the listing parameters taken from the query string
type ListQuery struct {
	Page   int
	Search string
	Sort   string
}

// NewListQuery normalizes raw query parameters
func NewListQuery(page, search, sort string) ListQuery {
	return ListQuery{
		Page:   helpers.ParsePage(page),
		Search: search,
		Sort:   sort,
	}.Normalized()
}

// Normalized clamps the page to 1 and falls back to the default sort; the search text is used as given
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = helpers.DefaultPage
	}
	q.Sort = NormalizeSort(q.Sort)
	return q
}

// NormalizeSort returns sort when it is an allowed key and "id" otherwise
func NormalizeSort(sort string) string {
	for _, option := range SortOptions {
		if sort == option {
			return sort
		}
	}
	return SortByID
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// HasPrevious reports whether a previous page exists
func (p PaginationInfo) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a following page exists
func (p PaginationInfo) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// OutOfRange reports a page past the last one while records exist
func (p PaginationInfo) OutOfRange() bool {
	return p.TotalItems > 0 && p.CurrentPage > p.TotalPages
}

// NewPaginationInfo creates PaginationInfo for a 1-based page
func NewPaginationInfo(totalItems int64, page, size int) PaginationInfo {
	return PaginationInfo{
		CurrentPage: page,
		TotalPages:  helpers.TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// QuestionPaperListResult is one page of the listing
type QuestionPaperListResult struct {
	Papers     []models.QuestionPaper
	Query      ListQuery
	Pagination PaginationInfo
}

// FileDownload is a file ready to be sent as an attachment
type FileDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}
