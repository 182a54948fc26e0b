package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Board.ColumnTitlePrefix != "Column" || cfg.Board.TaskContentPrefix != "Task" {
		t.Fatalf("unexpected board prefixes %#v", cfg.Board)
	}
	if len(cfg.Board.InitialColumns) != 0 {
		t.Fatalf("expected empty initial columns, got %#v", cfg.Board.InitialColumns)
	}
	if !cfg.Activity.Enabled || cfg.Activity.Limit != 50 {
		t.Fatalf("unexpected activity defaults %#v", cfg.Activity)
	}
	if cfg.Logging.Level != "info" || !cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging defaults %#v", cfg.Logging)
	}
	if !cfg.UI.RenderMarkdown || cfg.UI.ColumnWidth != 28 {
		t.Fatalf("unexpected ui defaults %#v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.ColumnWidth != defaults.UI.ColumnWidth {
		t.Fatalf("expected default column width, got %d", cfg.UI.ColumnWidth)
	}
}

func TestLoadEmptyPathAndFileUseDefaults(t *testing.T) {
	cfg, err := Load("", Default())
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Activity.Limit != 50 {
		t.Fatalf("unexpected activity limit %d", cfg.Activity.Limit)
	}
	cfg, err = Load(writeConfig(t, ""), Default())
	if err != nil {
		t.Fatalf("Load(empty file) error = %v", err)
	}
	if cfg.Board.ColumnTitlePrefix != "Column" {
		t.Fatalf("unexpected prefix %q", cfg.Board.ColumnTitlePrefix)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[board]
column_title_prefix = " Lane "
initial_columns = ["To Do", " Doing ", "Done"]

[activity]
limit = 10

[logging]
level = "DEBUG"

[logging.dev_file]
enabled = false

[ui]
render_markdown = false
column_width = 40

[keys]
lift_task = " t "
`)
	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.ColumnTitlePrefix != "Lane" {
		t.Fatalf("unexpected column prefix %q", cfg.Board.ColumnTitlePrefix)
	}
	if cfg.Board.TaskContentPrefix != "Task" {
		t.Fatalf("expected default task prefix, got %q", cfg.Board.TaskContentPrefix)
	}
	if !slices.Equal(cfg.Board.InitialColumns, []string{"To Do", "Doing", "Done"}) {
		t.Fatalf("unexpected initial columns %#v", cfg.Board.InitialColumns)
	}
	if cfg.Activity.Limit != 10 || !cfg.Activity.Enabled {
		t.Fatalf("unexpected activity config %#v", cfg.Activity)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging config %#v", cfg.Logging)
	}
	if cfg.UI.RenderMarkdown || cfg.UI.ColumnWidth != 40 {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if cfg.Keys.LiftTask != "t" || cfg.Keys.ActivityLog != "" {
		t.Fatalf("unexpected keys config %#v", cfg.Keys)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "activity limit", content: "[activity]\nlimit = 0\n", want: "activity.limit"},
		{name: "logging level", content: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
		{name: "column width", content: "[ui]\ncolumn_width = 4\n", want: "ui.column_width"},
		{name: "blank initial column", content: "[board]\ninitial_columns = [\"ok\", \" \"]\n", want: "board.initial_columns[1]"},
		{name: "blank prefix", content: "[board]\ntask_content_prefix = \"\"\n", want: "board.task_content_prefix"},
		{name: "dev file dir", content: "[logging.dev_file]\nenabled = true\ndir = \"\"\n", want: "logging.dev_file.dir"},
		{name: "duplicate key", content: "[keys]\nlift_task = \"t\"\ncopy_task = \"t\"\n", want: "keys.copy_task duplicates keys.lift_task"},
		{name: "bad toml", content: "[ui\n", want: "decode toml"},
	}
	for _, tc := range cases {
		_, err := Load(writeConfig(t, tc.content), Default())
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
