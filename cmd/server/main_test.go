package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"glossary-manager/internal/model"
	"glossary-manager/internal/terms"
)

// newTestApplication creates an application over a fresh storage file
// holding list.
func newTestApplication(t *testing.T, list []model.Term) (*application, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Terms.xml")
	svc := terms.NewService(path)
	if err := svc.RecreateStorage(list); err != nil {
		t.Fatalf("Failed to seed storage: %v", err)
	}

	app, err := newApplication(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newApplication() failed: %v", err)
	}
	return app, path
}

func serve(app *application, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	rr := httptest.NewRecorder()
	app.routes().ServeHTTP(rr, req)
	return rr
}

func TestGlossaryPage(t *testing.T) {
	app, _ := newTestApplication(t, []model.Term{
		model.NewTerm("zebra", "striped"),
		model.NewTerm("apple", "fruit"),
	})

	rr := serve(app, "/")
	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if ctype := rr.Header().Get("Content-Type"); ctype != "text/html; charset=utf-8" {
		t.Errorf("handler returned wrong content type: got %q", ctype)
	}

	body := rr.Body.String()
	apple, zebra := strings.Index(body, "apple"), strings.Index(body, "zebra")
	if apple < 0 || zebra < 0 || apple > zebra {
		t.Errorf("page does not list terms sorted by name:\n%s", body)
	}
}

func TestGlossaryPage_ReflectsExternalEdits(t *testing.T) {
	app, path := newTestApplication(t, []model.Term{})

	if _, err := terms.NewService(path).AddTerm(model.NewTerm("late", "added after start")); err != nil {
		t.Fatalf("AddTerm() failed: %v", err)
	}

	if body := serve(app, "/").Body.String(); !strings.Contains(body, "added after start") {
		t.Errorf("page does not show a term added after startup:\n%s", body)
	}
}

func TestGlossaryPage_InvalidStorage(t *testing.T) {
	app, path := newTestApplication(t, []model.Term{})
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	rr := serve(app, "/")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(rr.Body.String(), "storage is invalid") {
		t.Errorf("page does not show the storage notice:\n%s", rr.Body.String())
	}
}

func TestTermsJSON(t *testing.T) {
	want := []model.Term{model.NewTerm("term0", "def 0"), model.NewTerm("term1", "")}
	app, _ := newTestApplication(t, want)

	rr := serve(app, "/terms.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var got []model.Term
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terms.json = %+v, want %+v", got, want)
	}
}

func TestTermsJSON_MissingStorage(t *testing.T) {
	app, path := newTestApplication(t, []model.Term{})
	if err := os.Remove(path); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	rr := serve(app, "/terms.json")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(rr.Body.String(), terms.KindStorageInvalid) {
		t.Errorf("response does not carry the error kind: %s", rr.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApplication(t, []model.Term{})
	if rr := serve(app, "/static/test.css"); rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
}

// failingWriter is a ResponseWriter whose body writes always fail.
type failingWriter struct {
	header http.Header
}

func (f *failingWriter) Header() http.Header       { return f.header }
func (f *failingWriter) WriteHeader(int)           {}
func (f *failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestHandlers_LogWriteFailures(t *testing.T) {
	app, _ := newTestApplication(t, []model.Term{model.NewTerm("term0", "")})

	for _, target := range []string{"/", "/terms.json"} {
		var logs strings.Builder
		app.logger = slog.New(slog.NewTextHandler(&logs, nil))

		req := httptest.NewRequest("GET", target, nil)
		app.routes().ServeHTTP(&failingWriter{header: http.Header{}}, req)

		if !strings.Contains(logs.String(), "broken pipe") {
			t.Errorf("GET %s did not log the write failure, logs: %q", target, logs.String())
		}
	}
}
