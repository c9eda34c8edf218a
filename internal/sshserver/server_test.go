// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testCatalogTOML = `name = "test-build"

[[components]]
id = "base"
name = "Base Pack"

[[components]]
id = "patch"
name = "Compat Patch"
dependencies = ["base"]
`

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(testCatalogTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CatalogPath = CatalogSource(writeTestCatalog(t))
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "hostkey_ed25519")
	return cfg
}

func TestServerState_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		state ServerState
		want  string
	}{
		{StateCreated, "created"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{ServerState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ServerState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{Host: "127.0.0.1", CatalogPath: "/tmp/catalog.toml"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	invalid := Config{Host: "  ", CatalogPath: ""}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("invalid config accepted")
	}
	if !errors.Is(err, ErrInvalidServerConfig) {
		t.Errorf("error should wrap ErrInvalidServerConfig, got %v", err)
	}

	var cfgErr *InvalidServerConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *InvalidServerConfigError, got %T", err)
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(cfgErr.FieldErrors))
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	srv, err := New(Config{Host: "127.0.0.1", CatalogPath: "/tmp/catalog.toml"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if srv.cfg.StartupTimeout != 5*time.Second {
		t.Errorf("StartupTimeout = %v, want default", srv.cfg.StartupTimeout)
	}
	if srv.cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default", srv.cfg.ShutdownTimeout)
	}
	if srv.State() != StateCreated {
		t.Errorf("State() = %s, want created", srv.State())
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	if !errors.Is(err, ErrInvalidServerConfig) {
		t.Fatalf("expected ErrInvalidServerConfig, got %v", err)
	}
}

func TestServer_StopBeforeStart(t *testing.T) {
	t.Parallel()

	srv, err := New(Config{Host: "127.0.0.1", CatalogPath: "/tmp/catalog.toml"})
	if err != nil {
		t.Fatal(err)
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() before Start() should be a no-op, got %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", srv.State())
	}
}

func TestServer_StartAndStop(t *testing.T) {
	t.Parallel()

	srv, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop() })

	if !srv.IsRunning() {
		t.Error("server should be running after Start()")
	}
	if srv.Address() == "" {
		t.Error("Address() should be set after Start()")
	}
	if srv.Port() == 0 {
		t.Error("Port() should be resolved after Start()")
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", srv.State())
	}

	// A second Stop must be a no-op.
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop() })

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestServer_StartFailsOnBadCatalog(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.CatalogPath = CatalogSource(filepath.Join(t.TempDir(), "missing.toml"))

	srv, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail for a missing catalog")
	}
	if srv.State() != StateFailed {
		t.Errorf("State() = %s, want failed", srv.State())
	}
}

func TestFailModel_View(t *testing.T) {
	t.Parallel()

	m := failModel{err: errors.New("boom")}
	if !strings.Contains(m.View(), "boom") {
		t.Error("failModel view should include the error")
	}
}
