package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/dragboard/internal/config"
	"github.com/hylla/dragboard/internal/tui"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("DRAGBOARD_DEV_MODE", "false")
	_ = os.Unsetenv("DRAGBOARD_CONFIG")
	_ = os.Unsetenv("DRAGBOARD_APP_NAME")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// executeRoot runs the command tree with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(&out, io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes one TOML config file into a temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// stubProgram swaps the program factory for the duration of one test.
func stubProgram(t *testing.T, factory func(tea.Model) program) {
	t.Helper()
	orig := programFactory
	t.Cleanup(func() { programFactory = orig })
	programFactory = factory
}

// keyPress builds a printable key press message.
func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	var captured tea.Model
	stubProgram(t, func(m tea.Model) program {
		captured = m
		return fakeProgram{}
	})

	cfgPath := writeConfig(t, "[board]\ninitial_columns = [\"To Do\", \"Done\"]\n")
	if _, err := executeRoot(t, "--config", cfgPath); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if _, ok := captured.(tui.Model); !ok {
		t.Fatalf("expected tui.Model, got %T", captured)
	}
}

// TestRunReturnsProgramError verifies behavior for the covered scenario.
func TestRunReturnsProgramError(t *testing.T) {
	stubProgram(t, func(tea.Model) program {
		return fakeProgram{runErr: errors.New("boom")}
	})

	_, err := executeRoot(t, "--config", writeConfig(t, ""))
	if err == nil || !strings.Contains(err.Error(), "run tui program") {
		t.Fatalf("expected program error, got %v", err)
	}
}

// TestRunRejectsInvalidConfig verifies behavior for the covered scenario.
func TestRunRejectsInvalidConfig(t *testing.T) {
	stubProgram(t, func(tea.Model) program {
		t.Fatal("program should not start with invalid config")
		return fakeProgram{}
	})

	_, err := executeRoot(t, "--config", writeConfig(t, "[ui]\ncolumn_width = 1\n"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

// TestRunUsesConfigEnv verifies behavior for the covered scenario.
func TestRunUsesConfigEnv(t *testing.T) {
	stubProgram(t, func(tea.Model) program { return fakeProgram{} })
	t.Setenv("DRAGBOARD_CONFIG", writeConfig(t, "[logging]\nlevel = \"loud\"\n"))

	_, err := executeRoot(t)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected env config to be loaded, got %v", err)
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	stubProgram(t, func(tea.Model) program { return fakeProgram{} })

	_, err := executeRoot(t, "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	out, err := executeRoot(t, "--version")
	if err != nil {
		t.Fatalf("execute(version) error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Fatalf("expected version output, got %q", out)
	}
}

// TestPathsCommand verifies behavior for the covered scenario.
func TestPathsCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	out, err := executeRoot(t, "paths", "--config", cfgPath)
	if err != nil {
		t.Fatalf("execute(paths) error = %v", err)
	}
	for _, want := range []string{"app: dragboard", "dev_mode: false", "config: " + cfgPath, "data_dir:", "log_dir:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output %q", want, out)
		}
	}
}

// TestPathsCommandDevMode verifies behavior for the covered scenario.
func TestPathsCommandDevMode(t *testing.T) {
	out, err := executeRoot(t, "paths", "--app", "demo", "--dev")
	if err != nil {
		t.Fatalf("execute(paths) error = %v", err)
	}
	if !strings.Contains(out, "demo-dev") || !strings.Contains(out, "dev_mode: true") {
		t.Fatalf("expected dev-suffixed paths, got %q", out)
	}
}

// TestNewSessionSeedsAndRecords verifies behavior for the covered scenario.
func TestNewSessionSeedsAndRecords(t *testing.T) {
	cfg := config.Default()
	cfg.Board.InitialColumns = []string{"To Do", "Done"}
	cfg.Keys.LiftTask = "t"

	s, err := newSession(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	t.Cleanup(s.Close)

	snap := s.board.Snapshot()
	if len(snap.Columns) != 2 || snap.Columns[0].Title != "To Do" || snap.Columns[1].Title != "Done" {
		t.Fatalf("unexpected seeded columns %#v", snap.Columns)
	}
	if s.repo == nil {
		t.Fatal("expected activity ledger to be open")
	}

	var model tea.Model = s.model()
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(keyPress('a'))
	_ = model

	if got := len(s.board.Snapshot().Tasks); got != 1 {
		t.Fatalf("expected one task after add, got %d", got)
	}
	count, err := s.repo.CountChangeEvents(context.Background())
	if err != nil {
		t.Fatalf("CountChangeEvents() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 recorded events, got %d", count)
	}
	events, err := s.repo.ListChangeEvents(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListChangeEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].EntityType != "task" {
		t.Fatalf("expected newest event to be the task create, got %#v", events)
	}
}

// TestNewSessionActivityDisabled verifies behavior for the covered scenario.
func TestNewSessionActivityDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Activity.Enabled = false

	s, err := newSession(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	t.Cleanup(s.Close)
	if s.repo != nil {
		t.Fatal("expected no activity ledger when disabled")
	}
	if _, ok := s.board.AddColumn(); !ok {
		t.Fatal("expected AddColumn() to apply without a ledger")
	}
}

// TestToTUIKeyConfig verifies behavior for the covered scenario.
func TestToTUIKeyConfig(t *testing.T) {
	got := toTUIKeyConfig(config.KeyConfig{ActivityLog: "L", LiftTask: "t", LiftColumn: "M", CopyTask: "c"})
	want := tui.KeyConfig{ActivityLog: "L", LiftTask: "t", LiftColumn: "M", CopyTask: "c"}
	if got != want {
		t.Fatalf("toTUIKeyConfig() = %#v, want %#v", got, want)
	}
}

// TestNewRuntimeLoggerWritesDevFile verifies behavior for the covered scenario.
func TestNewRuntimeLoggerWritesDevFile(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	logger, err := newRuntimeLogger(&stderr, "dragboard", true, config.LoggingConfig{
		Level:   "debug",
		DevFile: config.DevFileLogConfig{Enabled: true, Dir: dir},
	}, now)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	wantPath := filepath.Join(dir, "dragboard-20260102.log")
	if logger.DevLogPath() != wantPath {
		t.Fatalf("DevLogPath() = %q, want %q", logger.DevLogPath(), wantPath)
	}

	logger.SetConsoleEnabled(false)
	logger.Info("board ready", "columns", 2)
	logger.Component("board").Debug("board command applied", "op", "create")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{"board ready", "columns=2", "component=board"} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %q in dev log %q", want, content)
		}
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected muted console, got %q", stderr.String())
	}
}

// TestRuntimeLoggerConsoleToggle verifies behavior for the covered scenario.
func TestRuntimeLoggerConsoleToggle(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := newRuntimeLogger(&stderr, "dragboard", false, config.Default().Logging, nil)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	if logger.DevLogPath() != "" {
		t.Fatalf("expected no dev log outside dev mode, got %q", logger.DevLogPath())
	}

	logger.SetConsoleEnabled(false)
	logger.Warn("hidden")
	if stderr.Len() != 0 {
		t.Fatalf("expected muted console, got %q", stderr.String())
	}
	logger.SetConsoleEnabled(true)
	logger.Warn("visible")
	if !strings.Contains(stderr.String(), "visible") {
		t.Fatalf("expected console output, got %q", stderr.String())
	}
	logger.Debug("below level")
	if strings.Contains(stderr.String(), "below level") {
		t.Fatalf("expected debug to be filtered at info level, got %q", stderr.String())
	}
}

// TestNewRuntimeLoggerRejectsLevel verifies behavior for the covered scenario.
func TestNewRuntimeLoggerRejectsLevel(t *testing.T) {
	if _, err := newRuntimeLogger(io.Discard, "dragboard", false, config.LoggingConfig{Level: "loud"}, nil); err == nil {
		t.Fatal("expected invalid level error")
	}
}

// TestRuntimeLoggerNilSafe verifies behavior for the covered scenario.
func TestRuntimeLoggerNilSafe(t *testing.T) {
	var logger *runtimeLogger
	logger.Info("ignored")
	logger.SetConsoleEnabled(true)
	if logger.DevLogPath() != "" || logger.Close() != nil {
		t.Fatal("expected nil logger to be inert")
	}
	if logger.Component("board") == nil {
		t.Fatal("expected a discard component logger")
	}
}

// TestDevLogFilePathRelative verifies behavior for the covered scenario.
func TestDevLogFilePathRelative(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	t.Chdir(nested)

	got, err := devLogFilePath("logs", "my app", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	want := filepath.Join(root, "logs", "my-app-20260304.log")
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(got)); err == nil {
		got = filepath.Join(resolved, filepath.Base(got))
	}
	if resolvedRoot, err := filepath.EvalSymlinks(root); err == nil {
		want = filepath.Join(resolvedRoot, "logs", "my-app-20260304.log")
	}
	if got != want {
		t.Fatalf("devLogFilePath() = %q, want %q", got, want)
	}
}

// TestWorkspaceRootFromWithoutMarker verifies behavior for the covered scenario.
func TestWorkspaceRootFromWithoutMarker(t *testing.T) {
	if got := workspaceRootFrom(""); got != "." {
		t.Fatalf("workspaceRootFrom(\"\") = %q, want \".\"", got)
	}
}

// TestSanitizeLogFileStem verifies behavior for the covered scenario.
func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"dragboard":   "dragboard",
		"my app":      "my-app",
		"team/board":  "team-board",
		" ":           "dragboard",
		"//":          "dragboard",
		"c:\\boards ": "c--boards",
	}
	for in, want := range cases {
		if got := sanitizeLogFileStem(in); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", in, got, want)
		}
	}
}
