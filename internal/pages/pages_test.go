package pages

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPagesRender(t *testing.T) {
	h := SetupRoutes()

	cases := []struct {
		path string
		want string
	}{
		{"/", "Create an account"},
		{"/citizen", "Submit request"},
		{"/admin", "Export CSV"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected html content type, got %q", ct)
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Errorf("expected body to contain %q", tc.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"healthy"`) {
		t.Errorf("unexpected body %q", body)
	}
}
