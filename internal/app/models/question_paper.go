package models

// PaperType represents the sitting a question paper was set for
type PaperType string

// PaperType constants
const (
	PaperTypeRegular PaperType = "Regular"
	PaperTypeArrear  PaperType = "Arrear"
)

// QuestionPaper represents a question paper record in the database
type QuestionPaper struct {
	ID          int64     `json:"id" db:"id"`
	YearName    string    `json:"year_name" db:"year_name"`
	SemesterNo  int       `json:"semester_no" db:"semester_no"`
	SubjectName string    `json:"subject_name" db:"subject_name"`
	SubjectCode *string   `json:"subject_code,omitempty" db:"subject_code"` // Pointer for potential NULL
	PaperType   PaperType `json:"paper_type" db:"paper_type"`
	PaperYear   *int      `json:"paper_year,omitempty" db:"paper_year"` // Pointer for potential NULL
	FileData    []byte    `json:"-" db:"file_data"`                     // Only loaded for downloads
}

// QuestionPaperFile is the payload and naming data needed to serve a download
type QuestionPaperFile struct {
	ID          int64
	SubjectName string
	YearName    string
	Data        []byte
}
