package routes_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/qpaper/internal/bootstrap"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/auth"
	"github.com/yigit/qpaper/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

type testApp struct {
	t       *testing.T
	handler http.Handler
	cfg     *config.Config
}

func newTestApp(t *testing.T, scheme string) *testApp {
	t.Helper()

	cfg := testutil.TestConfig(t.TempDir())
	cfg.Auth.Scheme = scheme
	bootstrap.ConfigureLogger(cfg)

	database, err := bootstrap.SetupDatabase(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	deps, err := bootstrap.BuildDependencies(cfg, database, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies() error = %v", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter() error = %v", err)
	}

	return &testApp{t: t, handler: router, cfg: cfg}
}

func (a *testApp) get(jar *testutil.CookieJar, path string) *httptest.ResponseRecorder {
	return jar.Do(a.handler, httptest.NewRequest(http.MethodGet, path, nil))
}

// follow performs the GET a browser would issue after a redirect
func (a *testApp) follow(jar *testutil.CookieJar, w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	a.t.Helper()
	location := w.Header().Get("Location")
	if location == "" {
		a.t.Fatalf("expected a redirect, got status %d", w.Code)
	}
	return a.get(jar, location)
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, status int, location string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %q)", w.Code, status, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func expectBody(t *testing.T, w *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := w.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Errorf("body does not contain %q", f)
		}
	}
}

func loginUser(t *testing.T, app *testApp, jar *testutil.CookieJar) {
	t.Helper()
	creds := url.Values{"username": {"alice"}, "password": {"wonderland"}}

	w := jar.Do(app.handler, testutil.FormRequest("/signup", creds))
	expectRedirect(t, w, http.StatusSeeOther, "/login")

	w = jar.Do(app.handler, testutil.FormRequest("/login", creds))
	expectRedirect(t, w, http.StatusSeeOther, "/")
	if _, ok := jar.Get(app.cfg.Session.CookieName); !ok {
		t.Fatal("session cookie not set after login")
	}
}

func paperFields(subject, yearName string) map[string]string {
	return map[string]string{
		"year_name":    yearName,
		"semester_no":  "3",
		"subject_name": subject,
		"paper_type":   "Regular",
	}
}

func TestAccountsSchemeRequiresSession(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)
	jar := testutil.NewCookieJar()

	for _, path := range []string{"/", "/download/1", "/update/1", "/delete/1", "/list_users"} {
		w := app.get(testutil.NewCookieJar(), path)
		expectRedirect(t, w, http.StatusFound, "/login")
	}

	w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Data Structures", "2024"), nil))
	expectRedirect(t, w, http.StatusSeeOther, "/login")

	w = app.follow(jar, w)
	if w.Code != http.StatusOK {
		t.Fatalf("login page status = %d", w.Code)
	}
	expectBody(t, w, "alert-warning", "Please log in to access this page.")

	if w := app.get(testutil.NewCookieJar(), "/admin"); w.Code != http.StatusNotFound {
		t.Errorf("/admin status = %d, want 404 in the accounts scheme", w.Code)
	}
}

func TestAccountsEndToEnd(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)
	jar := testutil.NewCookieJar()
	loginUser(t, app, jar)

	pdf := testutil.PDF(5 * 1024)
	w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Data Structures", "2024"),
		&testutil.FileField{Field: "file", Filename: "ds.pdf", Content: pdf}))
	expectRedirect(t, w, http.StatusSeeOther, "/")

	w = app.follow(jar, w)
	if w.Code != http.StatusOK {
		t.Fatalf("listing status = %d", w.Code)
	}
	expectBody(t, w, "Question paper added successfully!", "Data Structures", "2024", "Regular", "/download/1", "Page 1 of 1")

	w = app.get(jar, "/download/1")
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="Data Structures_2024.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Errorf("downloaded %d bytes, want the original %d", w.Body.Len(), len(pdf))
	}

	w = app.get(jar, "/list_users")
	if w.Code != http.StatusOK {
		t.Fatalf("/list_users status = %d", w.Code)
	}
	expectBody(t, w, `"status":"success"`, `"users":["alice"]`, "Found 1 users in")
}

func TestAddValidationFlash(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)
	jar := testutil.NewCookieJar()
	loginUser(t, app, jar)

	fields := paperFields("Operating Systems", "III Year")
	fields["semester_no"] = "13"
	w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", fields,
		&testutil.FileField{Field: "file", Filename: "os.pdf", Content: testutil.PDF(512)}))
	expectRedirect(t, w, http.StatusSeeOther, "/")
	expectBody(t, app.follow(jar, w), "alert-error", "Semester No must be between 1 and 12.", "No records found.")

	w = jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Operating Systems", "III Year"),
		&testutil.FileField{Field: "file", Filename: "os.docx", Content: []byte("not a pdf")}))
	expectBody(t, app.follow(jar, w), "Only PDF files are allowed.")
}

func TestUpdateAndDelete(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)
	jar := testutil.NewCookieJar()
	loginUser(t, app, jar)

	pdf := testutil.PDF(1024)
	w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Networks", "IV Year"),
		&testutil.FileField{Field: "file", Filename: "net.pdf", Content: pdf}))
	expectRedirect(t, w, http.StatusSeeOther, "/")

	w = app.get(jar, "/update/1")
	if w.Code != http.StatusOK {
		t.Fatalf("edit form status = %d", w.Code)
	}
	expectBody(t, w, `value="Networks"`, `action="/update/1"`)

	fields := paperFields("Computer Networks", "IV Year")
	fields["semester_no"] = "0"
	w = jar.Do(app.handler, testutil.MultipartRequest(t, "/update/1", fields, nil))
	expectRedirect(t, w, http.StatusSeeOther, "/update/1")
	expectBody(t, app.follow(jar, w), "Semester No must be between 1 and 12.")

	w = jar.Do(app.handler, testutil.MultipartRequest(t, "/update/1", paperFields("Computer Networks", "IV Year"), nil))
	expectRedirect(t, w, http.StatusSeeOther, "/")
	expectBody(t, app.follow(jar, w), "Question paper updated successfully!", "Computer Networks")

	w = app.get(jar, "/download/1")
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Error("update without a file changed the stored PDF")
	}

	w = jar.Do(app.handler, testutil.MultipartRequest(t, "/update/99", paperFields("Ghost", "I Year"), nil))
	expectRedirect(t, w, http.StatusSeeOther, "/")
	expectBody(t, app.follow(jar, w), "Question paper not found.")

	w = app.get(jar, "/delete/1")
	expectRedirect(t, w, http.StatusFound, "/")
	expectBody(t, app.follow(jar, w), "Question paper deleted successfully!", "No records found.")

	w = app.get(jar, "/delete/1")
	expectRedirect(t, w, http.StatusFound, "/")
	expectBody(t, app.follow(jar, w), "Question paper not found.")

	w = app.get(jar, "/delete/abc")
	expectRedirect(t, w, http.StatusFound, "/")
	expectBody(t, app.follow(jar, w), "Invalid question paper ID.")

	w = app.get(jar, "/download/42")
	expectRedirect(t, w, http.StatusFound, "/")
	expectBody(t, app.follow(jar, w), "Question paper not found.")
}

func TestListingPaginationAndSearch(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)
	jar := testutil.NewCookieJar()
	loginUser(t, app, jar)

	w := app.get(jar, "/")
	expectBody(t, w, `id="no-records"`, "No records found.")

	for i := 1; i <= 11; i++ {
		w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields(fmt.Sprintf("Subject %02d", i), "I Year"),
			&testutil.FileField{Field: "file", Filename: "p.pdf", Content: testutil.PDF(256)}))
		expectRedirect(t, w, http.StatusSeeOther, "/")
	}

	w = app.get(jar, "/")
	expectBody(t, w, "Page 1 of 2", "Subject 01", "Subject 10")
	if strings.Contains(w.Body.String(), "Subject 11") {
		t.Error("page 1 should hold ten rows")
	}

	w = app.get(jar, "/?page=2")
	expectBody(t, w, "Page 2 of 2", "Subject 11")

	w = app.get(jar, "/?page=3")
	expectBody(t, w, `id="out-of-range"`, "Page 3 is out of range. There are only 2 pages.")

	w = app.get(jar, "/?page=9223372036854775807")
	expectBody(t, w, `id="out-of-range"`, "There are only 2 pages.")
	if strings.Contains(w.Body.String(), "Error fetching records") {
		t.Error("a huge page number must not fail the listing")
	}

	w = app.get(jar, "/?search=subject+07")
	expectBody(t, w, "Subject 07", "Page 1 of 1")
	if strings.Contains(w.Body.String(), "Subject 08") {
		t.Error("search should filter out non-matching rows")
	}

	w = app.get(jar, "/?sort=not_a_column")
	if w.Code != http.StatusOK {
		t.Errorf("unknown sort status = %d, want 200", w.Code)
	}
}

func TestTestDB(t *testing.T) {
	app := newTestApp(t, config.SchemeAccounts)

	w := app.get(testutil.NewCookieJar(), "/test_db")
	if w.Code != http.StatusOK {
		t.Fatalf("/test_db status = %d", w.Code)
	}
	want := fmt.Sprintf("Connected to SQLite. Found 3 tables in '%s' database.", app.cfg.Database.Path)
	expectBody(t, w, `"status":"success"`, want)
}

func TestAdminSchemeVisitorCounts(t *testing.T) {
	app := newTestApp(t, config.SchemeAdmin)

	const clients = 3
	var first *testutil.CookieJar
	for i := 0; i < clients; i++ {
		jar := testutil.NewCookieJar()
		w := app.get(jar, "/")
		if w.Code != http.StatusOK {
			t.Fatalf("anonymous listing status = %d, want 200", w.Code)
		}
		if strings.Contains(w.Body.String(), "Add New Question Paper") {
			t.Error("anonymous visitors must not see the add form")
		}
		if _, ok := jar.Get("visitor_id"); !ok {
			t.Fatal("visitor cookie not set")
		}
		if first == nil {
			first = jar
		}
	}

	admin := testutil.NewCookieJar()
	w := admin.Do(app.handler, testutil.FormRequest("/admin_login", url.Values{"username": {"admin"}, "password": {"admin-pass"}}))
	expectRedirect(t, w, http.StatusSeeOther, "/")

	w = app.get(admin, "/admin")
	if w.Code != http.StatusOK {
		t.Fatalf("/admin status = %d", w.Code)
	}
	expectBody(t, w, fmt.Sprintf(`id="total-visits">%d<`, clients), fmt.Sprintf(`id="unique-visitors">%d<`, clients))

	app.get(first, "/")

	w = app.get(admin, "/admin")
	expectBody(t, w, fmt.Sprintf(`id="total-visits">%d<`, clients+1), fmt.Sprintf(`id="unique-visitors">%d<`, clients))
}

func TestAdminSchemeGuardsManagement(t *testing.T) {
	app := newTestApp(t, config.SchemeAdmin)

	for _, path := range []string{"/admin", "/update/1", "/delete/1"} {
		w := app.get(testutil.NewCookieJar(), path)
		expectRedirect(t, w, http.StatusFound, "/admin_login")
	}

	jar := testutil.NewCookieJar()
	w := jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Data Structures", "2024"),
		&testutil.FileField{Field: "file", Filename: "ds.pdf", Content: testutil.PDF(1024)}))
	expectRedirect(t, w, http.StatusSeeOther, "/admin_login")
	expectBody(t, app.follow(jar, w), "Please log in to access this page.")

	w = jar.Do(app.handler, testutil.FormRequest("/admin_login", url.Values{"username": {"admin"}, "password": {"wrong"}}))
	expectRedirect(t, w, http.StatusSeeOther, "/admin_login")
	expectBody(t, app.follow(jar, w), "Invalid username or password.")

	for _, path := range []string{"/login", "/signup", "/list_users"} {
		if w := app.get(testutil.NewCookieJar(), path); w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404 in the admin scheme", path, w.Code)
		}
	}

	w = jar.Do(app.handler, testutil.FormRequest("/admin_login", url.Values{"username": {"admin"}, "password": {"admin-pass"}}))
	expectRedirect(t, w, http.StatusSeeOther, "/")

	pdf := testutil.PDF(2048)
	w = jar.Do(app.handler, testutil.MultipartRequest(t, "/add", paperFields("Data Structures", "2024"),
		&testutil.FileField{Field: "file", Filename: "ds.pdf", Content: pdf}))
	expectRedirect(t, w, http.StatusSeeOther, "/")
	expectBody(t, app.follow(jar, w), "Question paper added successfully!", "Add New Question Paper")

	anon := app.get(testutil.NewCookieJar(), "/download/1")
	if anon.Code != http.StatusOK || !bytes.Equal(anon.Body.Bytes(), pdf) {
		t.Errorf("anonymous download status = %d, want 200 with the stored bytes", anon.Code)
	}

	w = app.get(jar, "/admin_logout")
	expectRedirect(t, w, http.StatusFound, "/")
	if _, ok := jar.Get(app.cfg.Session.CookieName); ok {
		t.Error("session cookie should be cleared on logout")
	}
}
