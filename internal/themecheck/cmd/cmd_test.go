package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"themecheck/internal/config"
	"themecheck/internal/snapshot"
	"themecheck/internal/ui/colorize"
)

const source = "package main\n\nfunc main() {}\n"

type fixture struct {
	dir       string
	src       string
	snapshots string
	config    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:       dir,
		src:       filepath.Join(dir, "main.go"),
		snapshots: filepath.Join(dir, "snapshots"),
		config:    filepath.Join(dir, "themecheck.yaml"),
	}
	require.NoError(t, os.WriteFile(f.src, []byte(source), 0o644))
	cfg := fmt.Sprintf(`theme: chroma:vscode-dark
files:
  - %q
snapshot_dir: %q
server:
  enabled: false
`, f.src, f.snapshots)
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVerifyLifecycle(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "--config", f.config)
	require.NoError(t, err)
	require.Contains(t, out, "| created |")
	require.FileExists(t, filepath.Join(f.snapshots, "main.go.json"))

	out, err = execute(t, "--config", f.config)
	require.NoError(t, err)
	require.Contains(t, out, "| ok |")

	out, err = execute(t, "--config", f.config, "--theme", "chroma:monokai")
	require.ErrorIs(t, err, snapshot.ErrMismatch)
	require.Contains(t, out, "| mismatch |")
	require.Contains(t, out, "## Mismatches")
	require.FileExists(t, filepath.Join(f.snapshots, "main.go.diff"))

	out, err = execute(t, "--config", f.config, "--theme", "chroma:monokai", "--update")
	require.NoError(t, err)
	require.Contains(t, out, "| updated |")
	require.NoFileExists(t, filepath.Join(f.snapshots, "main.go.diff"))
}

func TestVerifyFatalErrors(t *testing.T) {
	f := newFixture(t)

	_, err := execute(t, "--config", f.config, "--theme", "chroma:no-such-style")
	require.ErrorContains(t, err, "loading theme")

	_, err = execute(t, "--config", f.config, filepath.Join(f.dir, "missing.go"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "--config", filepath.Join(f.dir, "nope.yaml"))
	require.Error(t, err)
}

func TestRunFormats(t *testing.T) {
	f := newFixture(t)
	t.Setenv(colorize.NoColorEnv, "")

	out, err := execute(t, "run", f.src, "--config", f.config)
	require.NoError(t, err)
	require.Equal(t, source+"\n", out)
	require.Empty(t, os.Getenv(colorize.NoColorEnv))

	out, err = execute(t, "run", f.src, "--config", f.config, "--format", "json")
	require.NoError(t, err)
	var snap snapshot.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Equal(t, snapshot.FormatVersion, snap.Version)
	require.Equal(t, "go", snap.Language)
	require.NotEmpty(t, snap.Ranges)

	page := filepath.Join(f.dir, "main.html")
	_, err = execute(t, "run", f.src, "--config", f.config, "--format", "html", "-o", page)
	require.NoError(t, err)
	data, err := os.ReadFile(page)
	require.NoError(t, err)
	require.Contains(t, string(data), "<pre>")

	_, err = execute(t, "run", f.src, "--config", f.config, "--format", "pdf")
	require.ErrorContains(t, err, "unknown output format")
}

func TestInitAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themecheck.yaml")

	out, err := execute(t, "init", "--config", path, "src/*.go")
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)

	cfg, _, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"src/*.go"}, cfg.Files)

	_, err = execute(t, "init", "--config", path)
	require.ErrorContains(t, err, "already exists")

	out, err = execute(t, "schema")
	require.NoError(t, err)
	require.Contains(t, out, `"snapshot_dir"`)
	require.Contains(t, out, `"wildcard_modifiers"`)
}

func TestWatchLoop(t *testing.T) {
	f := newFixture(t)
	cfg, _, err := config.Load(f.config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := openSession(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()

	changes := make(chan struct{})
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, &out, s, []string{f.src}, false, changes) }()

	changes <- struct{}{}
	close(changes)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
	require.Equal(t, 2, strings.Count(out.String(), "# themecheck"))
	require.Contains(t, out.String(), "| created |")
	require.Contains(t, out.String(), "| ok |")
}

func TestOpenSessionServerFailure(t *testing.T) {
	cfg := config.Defaults()
	cfg.Files = []string{"a.go"}
	cfg.Server.Enabled = true
	cfg.Server.Command = filepath.Join(t.TempDir(), "no-such-server")

	_, err := openSession(context.Background(), cfg)
	require.Error(t, err)
}

func TestReportMarkdown(t *testing.T) {
	md := reportMarkdown("Dark", []fileReport{
		{Path: "a.go", Outcome: snapshot.Matched},
		{Path: "b.go", Outcome: snapshot.Mismatched, Detail: "snap/b.go.json", Diagnostics: []string{"semantic tokens: a|b"}},
	})
	require.Contains(t, md, "Theme `Dark`, 2 files")
	require.Contains(t, md, "| `a.go` | ok |  |")
	require.Contains(t, md, `semantic tokens: a\|b`)
	require.Contains(t, md, "see `snap/b.go.diff` and `snap/b.go.actual.json`")

	require.NoError(t, mismatchError([]fileReport{{Outcome: snapshot.Created}}))
	require.ErrorIs(t, mismatchError([]fileReport{{Outcome: snapshot.Mismatched}}), snapshot.ErrMismatch)
}
