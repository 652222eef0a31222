package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStaticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<html>pulseboard</html>",
		"app.js":     "console.log('pulseboard')",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func getBody(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Code, string(body)
}

func TestSPAHandler_ServesExistingFile(t *testing.T) {
	h := spaHandler(writeStaticDir(t))

	code, body := getBody(t, h, "/app.js")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if !strings.Contains(body, "console.log") {
		t.Errorf("body = %q, want app.js contents", body)
	}
}

func TestSPAHandler_FallsBackToIndex(t *testing.T) {
	h := spaHandler(writeStaticDir(t))

	// A client-side route has no file on disk; the handler must serve
	// index.html so the frontend router can take over.
	code, body := getBody(t, h, "/pipeline/history")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if !strings.Contains(body, "pulseboard") {
		t.Errorf("body = %q, want index.html contents", body)
	}
}

func TestSPAHandler_TraversalStaysInsideDir(t *testing.T) {
	dir := writeStaticDir(t)
	secret := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("do not serve"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := spaHandler(dir)

	for _, path := range []string{
		"/../secret.txt",
		"/%2e%2e/secret.txt",
		"/static/../../secret.txt",
	} {
		_, body := getBody(t, h, path)
		if strings.Contains(body, "do not serve") {
			t.Errorf("path %q escaped the static dir", path)
		}
	}
}
