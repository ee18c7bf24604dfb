package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirChecker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "openalex_0123.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewCacheDirChecker(dir).Check(context.Background())
	if r.Status != StatusHealthy {
		t.Fatalf("Check() = %+v, want healthy", r)
	}
	if r.Details["entries"] != 1 {
		t.Errorf("entries = %v, want 1", r.Details["entries"])
	}

	left, _ := filepath.Glob(filepath.Join(dir, ".healthcheck-*"))
	if len(left) != 0 {
		t.Errorf("scratch files left behind: %v", left)
	}
}

func TestCacheDirChecker_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if r := NewCacheDirChecker(dir).Check(context.Background()); r.Status != StatusHealthy {
		t.Fatalf("Check() = %+v", r)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}

func TestCacheDirChecker_Unusable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	for _, dir := range []string{"", file} {
		if r := NewCacheDirChecker(dir).Check(context.Background()); r.Status != StatusUnhealthy {
			t.Errorf("Check(%q) = %v, want unhealthy", dir, r.Status)
		}
	}
}

func TestCredentialsChecker(t *testing.T) {
	resolveErr := errors.New("OPENAI_API_KEY is not set")
	tests := []struct {
		name    string
		resolve ResolveFunc
		want    Status
	}{
		{"resolved", func(context.Context) (string, error) { return "sk-test-abcd", nil }, StatusHealthy},
		{"empty", func(context.Context) (string, error) { return " ", nil }, StatusUnhealthy},
		{"error", func(context.Context) (string, error) { return "", resolveErr }, StatusUnhealthy},
		{"nil", nil, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCredentialsChecker("openai", tt.resolve).Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Check() = %+v, want %v", r, tt.want)
			}
		})
	}

	r := NewCredentialsChecker("openai", tests[0].resolve).Check(context.Background())
	if r.Details["value"] != "********abcd" {
		t.Errorf("value = %v, want masked key", r.Details["value"])
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"abc":       "***",
		"abcd":      "****",
		"sk-123456": "*****3456",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEndpointChecker(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{http.StatusOK, StatusHealthy},
		{http.StatusForbidden, StatusDegraded},
		{http.StatusBadGateway, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			r := NewEndpointChecker("crossref", srv.URL, srv.Client()).Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Check() = %v, want %v", r.Status, tt.want)
			}
			if r.Details["status_code"] != tt.code {
				t.Errorf("status_code = %v, want %d", r.Details["status_code"], tt.code)
			}
		})
	}
}

func TestEndpointChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewEndpointChecker("web", url, nil).Check(context.Background())
	if r.Status != StatusUnhealthy || r.Error == nil {
		t.Errorf("Check() = %+v, want unhealthy", r)
	}
}
