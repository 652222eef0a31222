package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulseboard/pulseboard/internal/config"
)

func deployCfg(baseURL string) config.Upstream {
	return config.Upstream{BaseURL: baseURL, KeyEnv: "TEST_COOLIFY_TOKEN"}
}

func TestDeploy_FetchApplications(t *testing.T) {
	t.Setenv("TEST_COOLIFY_TOKEN", "tok")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/applications" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header: got %q", got)
		}
		// Fields beyond name/status/fqdn must be dropped by the projection.
		w.Write([]byte(`[
			{"name":"video-api","status":"running","fqdn":"video.example.com","uuid":"abc","git_branch":"main"},
			{"name":"renderer","status":"exited","fqdn":"render.example.com"}
		]`))
	}))
	defer srv.Close()

	d, err := NewDeploy(deployCfg(srv.URL)).FetchApplications(context.Background())
	if err != nil {
		t.Fatalf("FetchApplications: %v", err)
	}
	if d.TotalApps != 2 || len(d.Applications) != 2 {
		t.Fatalf("totals: got %+v", d)
	}
	if d.Applications[0] != (Application{Name: "video-api", Status: "running", FQDN: "video.example.com"}) {
		t.Errorf("apps[0]: got %+v", d.Applications[0])
	}
}

func TestDeploy_FetchApplications_Empty(t *testing.T) {
	t.Setenv("TEST_COOLIFY_TOKEN", "tok")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	d, err := NewDeploy(deployCfg(srv.URL)).FetchApplications(context.Background())
	if err != nil {
		t.Fatalf("FetchApplications: %v", err)
	}
	if d.TotalApps != 0 || d.Applications == nil {
		t.Errorf("empty listing: got %+v, want zero apps with non-nil slice", d)
	}
}

func TestDeploy_FetchApplications_NotConfigured(t *testing.T) {
	t.Setenv("TEST_COOLIFY_TOKEN", "")

	_, err := NewDeploy(deployCfg("http://127.0.0.1:0")).FetchApplications(context.Background())
	if !NotConfigured(err) {
		t.Fatalf("err: got %v, want ErrNotConfigured", err)
	}
}
