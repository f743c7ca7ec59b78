package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yigit/qpaper/internal/app/migrations"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/db"
)

// TestConfig returns a configuration pointing at a fresh SQLite file in dir
func TestConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "5000"
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(dir, "test.db")
	cfg.Session.Secret = "test-secret"
	cfg.Session.Expiration = "1h"
	cfg.Session.CookieName = "qpaper_session"
	cfg.Auth.Scheme = config.SchemeAccounts
	cfg.Auth.AdminLoginPath = "/admin_login"
	cfg.Auth.AdminUsername = "admin"
	cfg.Auth.AdminPassword = "admin-pass"
	cfg.Auth.PasswordMinLength = 1
	cfg.Upload.MaxSizeMB = 16
	cfg.Logging.Level = "disabled"
	return cfg
}

// SetupTestDB creates a fresh migrated SQLite database that is closed when the test ends
func SetupTestDB(t *testing.T) *db.Database {
	t.Helper()

	database, err := db.Open(TestConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.NewMigrator(database).Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}

// PDF returns a minimal PDF document of exactly size bytes (or the bare document when size is smaller)
func PDF(size int) []byte {
	const header = "%PDF-1.4\n1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n2 0 obj << /Type /Pages /Kids [] /Count 0 >> endobj\n"
	const trailer = "%%EOF\n"

	var buf bytes.Buffer
	buf.WriteString(header)
	if pad := size - len(header) - len(trailer); pad > 1 {
		buf.WriteByte('%')
		for i := 0; i < pad-2; i++ {
			buf.WriteByte(byte('a' + i%26))
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(trailer)
	return buf.Bytes()
}

// FileField is a file part of a multipart form
type FileField struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartRequest builds a POST request with the given form fields and optional file
func MultipartRequest(t *testing.T, path string, fields map[string]string, file *FileField) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field %s: %v", key, err)
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// FormRequest builds a urlencoded POST request
func FormRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// CookieJar carries response cookies into later requests like a browser
type CookieJar struct {
	cookies map[string]*http.Cookie
}

// NewCookieJar creates an empty CookieJar
func NewCookieJar() *CookieJar {
	return &CookieJar{cookies: map[string]*http.Cookie{}}
}

// Store records the cookies set by a response, dropping expired ones
func (j *CookieJar) Store(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c
	}
}

// Apply adds the stored cookies to req
func (j *CookieJar) Apply(req *http.Request) {
	for _, c := range j.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

// Get returns a stored cookie value
func (j *CookieJar) Get(name string) (string, bool) {
	c, ok := j.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

// Do serves req on handler with the jar's cookies and stores the response cookies
func (j *CookieJar) Do(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	j.Apply(req)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	j.Store(w.Result())
	return w
}

// FileHeader returns an uploaded file header as the server would see it
func FileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	req := MultipartRequest(t, "/upload", nil, &FileField{Field: "file", Filename: filename, Content: content})
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })

	headers := req.MultipartForm.File["file"]
	if len(headers) != 1 {
		t.Fatalf("expected one uploaded file, got %d", len(headers))
	}
	return headers[0]
}
