// Package views holds the embedded HTML templates and the data each page renders.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	appauth "github.com/yigit/qpaper/internal/app/auth"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/pkg/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	IndexPage  = "index.html"
	LoginPage  = "login.html"
	SignupPage = "signup.html"
	UpdatePage = "update.html"
	AdminPage  = "admin.html"
)

// Page is the data shared by every rendered page
type Page struct {
	Title        string
	Flashes      []flash.Message
	Principal    *appauth.Principal
	Capabilities appauth.Capabilities
	Scheme       string
	LoginPath    string
	LogoutPath   string
	Data         interface{}
}

// SortOption is one entry of the sort selector
type SortOption struct {
	Value string
	Label string
}

// SortOptions are the listing sort choices in display order
var SortOptions = []SortOption{
	{Value: dto.SortByID, Label: "ID"},
	{Value: dto.SortByYearName, Label: "Year"},
	{Value: dto.SortBySemesterNo, Label: "Semester"},
	{Value: dto.SortByPaperYear, Label: "Paper Year"},
}

// IndexData is rendered by the listing page
type IndexData struct {
	Result      *dto.QuestionPaperListResult
	SortOptions []SortOption
	PaperTypes  []models.PaperType
}

// NoRecords reports an empty listing as opposed to a page past the end
func (d IndexData) NoRecords() bool {
	return d.Result == nil || d.Result.Pagination.TotalItems == 0
}

// OutOfRange reports a requested page past the last one
func (d IndexData) OutOfRange() bool {
	return d.Result != nil && d.Result.Pagination.OutOfRange()
}

// LoginData is rendered by both login pages
type LoginData struct {
	Heading    string
	Action     string
	Username   string
	ShowSignup bool
}

// UpdateData is rendered by the edit page
type UpdateData struct {
	ID         int64
	Form       dto.QuestionPaperForm
	PaperTypes []models.PaperType
}

// DashboardData is rendered by the admin dashboard
type DashboardData struct {
	Summary *models.VisitorSummary
}

// Load parses every embedded template with the helper functions
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs returns the helper functions available to templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"pageURL":  PageURL,
		"optStr":   optString,
		"optInt":   optInt,
		"day":      func(t time.Time) string { return t.Format("Mon, 02 Jan 2006") },
		"add":      func(a, b int) int { return a + b },
		"alertFor": alertClass,
	}
}

// PageURL links to page of the listing keeping the search and sort
func PageURL(q dto.ListQuery, page int) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Sort != "" && q.Sort != dto.SortByID {
		values.Set("sort", q.Sort)
	}
	return "/?" + values.Encode()
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func alertClass(category string) string {
	switch category {
	case flash.CategorySuccess, flash.CategoryWarning, flash.CategoryInfo:
		return "alert-" + category
	default:
		return "alert-" + flash.CategoryError
	}
}
