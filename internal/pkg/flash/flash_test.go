package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFlashSurvivesRedirect(t *testing.T) {
	router := gin.New()
	router.GET("/act", func(c *gin.Context) {
		Success(c, "Question paper added successfully!")
		c.Redirect(http.StatusFound, "/")
	})
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, Pop(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/act", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a flash cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	want := `[{"category":"success","message":"Question paper added successfully!"}]`
	if got := w.Body.String(); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("flash cookie was not cleared after Pop")
	}
}

func TestPopWithoutMessages(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if got := Pop(c); len(got) != 0 {
		t.Errorf("Pop() = %v, want empty", got)
	}
}

func TestMalformedCookieIsIgnored(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%not-base64"})

	Error(c, "Invalid username or password.")
	got := Pop(c)
	if len(got) != 1 || got[0].Category != CategoryError {
		t.Errorf("Pop() = %v, want the single queued error", got)
	}
}

func TestCookieSecureFlagFollowsConfiguration(t *testing.T) {
	for _, secure := range []bool{false, true} {
		router := gin.New()
		router.Use(Cookies(secure))
		router.GET("/act", func(c *gin.Context) {
			Warning(c, "Please log in to access this page.")
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/act", nil))

		found := false
		for _, ck := range w.Result().Cookies() {
			if ck.Name != CookieName {
				continue
			}
			found = true
			if ck.Secure != secure {
				t.Errorf("secure=%v: cookie Secure = %v", secure, ck.Secure)
			}
		}
		if !found {
			t.Errorf("secure=%v: flash cookie not set", secure)
		}
	}
}
