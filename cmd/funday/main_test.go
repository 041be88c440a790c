package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vmtco/funday/internal/config"
	"github.com/vmtco/funday/internal/errors"
	"github.com/vmtco/funday/pkg/content"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output missing Go version: %q", out)
	}
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, content.DefaultYAML(), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("name: Picnic\nschedule: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode string
	}{
		{"built-in", nil, "built-in event: VMT Fun Day 2025", ""},
		{"file", []string{"--content", good}, "(6 schedule items, 4 FAQs, 6 activities)", ""},
		{"missing", []string{"--content", filepath.Join(dir, "nope.yaml")}, "", errors.CodeContentMissing},
		{"invalid", []string{"--content", bad}, "", errors.CodeContentInvalid},
		{"missing config", []string{"--config", filepath.Join(dir, "funday.json")}, "", errors.CodeConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"check"}, tt.args...)...)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	cfg, err := loadConfig(serveFlags{addr: "127.0.0.1:3000", contentPath: "event.yaml", dev: true})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:3000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Content.Path != "event.yaml" {
		t.Errorf("Content.Path = %q", cfg.Content.Path)
	}
	if cfg.LogLevel() != slog.LevelDebug || cfg.CacheControl() != config.CacheNone {
		t.Error("dev flag should force debug logging and disable caching")
	}

	if _, err := loadConfig(serveFlags{addr: "nonsense"}); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("bad addr err = %v, want %s", err, errors.CodeConfigInvalid)
	}
}

func TestBuildSite(t *testing.T) {
	cfg := config.New()
	cfg.Submit.Delay = config.Duration(time.Millisecond)

	s, err := buildSite(cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, path := range []string{"/", "/rsvp", "/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}

	cfg.Content.Path = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := buildSite(cfg, quietLogger()); !errors.Is(err, errors.CodeContentMissing) {
		t.Errorf("err = %v, want %s", err, errors.CodeContentMissing)
	}
}

func TestBuildSite_MetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Telemetry.Metrics = false

	s, err := buildSite(cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", rec.Code)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, ln, time.Second, quietLogger())
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestRunServe_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.New()
	cfg.Server.Addr = ln.Addr().String()

	err = runServe(context.Background(), cfg, quietLogger())
	if !errors.Is(err, errors.CodeServerListen) {
		t.Errorf("err = %v, want %s", err, errors.CodeServerListen)
	}
}
