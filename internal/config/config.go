package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// MinColumnWidth is the narrowest rendered column the tui accepts.
const MinColumnWidth = 12

type Config struct {
	Board    BoardConfig    `toml:"board"`
	Activity ActivityConfig `toml:"activity"`
	Logging  LoggingConfig  `toml:"logging"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
}

type BoardConfig struct {
	ColumnTitlePrefix string   `toml:"column_title_prefix"`
	TaskContentPrefix string   `toml:"task_content_prefix"`
	InitialColumns    []string `toml:"initial_columns"`
}

type ActivityConfig struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

type LoggingConfig struct {
	Level   string           `toml:"level"` // debug | info | warn | error
	DevFile DevFileLogConfig `toml:"dev_file"`
}

// DevFileLogConfig controls the dev-mode log file sink.
type DevFileLogConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type UIConfig struct {
	RenderMarkdown bool `toml:"render_markdown"`
	ColumnWidth    int  `toml:"column_width"`
}

// KeyConfig overrides single tui bindings. Blank values keep the built-in key.
type KeyConfig struct {
	ActivityLog string `toml:"activity_log"`
	LiftTask    string `toml:"lift_task"`
	LiftColumn  string `toml:"lift_column"`
	CopyTask    string `toml:"copy_task"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			ColumnTitlePrefix: "Column",
			TaskContentPrefix: "Task",
			InitialColumns:    []string{},
		},
		Activity: ActivityConfig{
			Enabled: true,
			Limit:   50,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileLogConfig{
				Enabled: true,
				Dir:     ".dragboard/log",
			},
		},
		UI: UIConfig{
			RenderMarkdown: true,
			ColumnWidth:    28,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize trims free-form values decoded from the file.
func (c *Config) normalize() {
	c.Board.ColumnTitlePrefix = strings.TrimSpace(c.Board.ColumnTitlePrefix)
	c.Board.TaskContentPrefix = strings.TrimSpace(c.Board.TaskContentPrefix)
	titles := make([]string, 0, len(c.Board.InitialColumns))
	for _, title := range c.Board.InitialColumns {
		titles = append(titles, strings.TrimSpace(title))
	}
	c.Board.InitialColumns = titles
	c.Logging.Level = strings.TrimSpace(strings.ToLower(c.Logging.Level))
	c.Logging.DevFile.Dir = strings.TrimSpace(c.Logging.DevFile.Dir)
	c.Keys.ActivityLog = strings.TrimSpace(c.Keys.ActivityLog)
	c.Keys.LiftTask = strings.TrimSpace(c.Keys.LiftTask)
	c.Keys.LiftColumn = strings.TrimSpace(c.Keys.LiftColumn)
	c.Keys.CopyTask = strings.TrimSpace(c.Keys.CopyTask)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Board.ColumnTitlePrefix) == "" {
		return errors.New("board.column_title_prefix is required")
	}
	if strings.TrimSpace(c.Board.TaskContentPrefix) == "" {
		return errors.New("board.task_content_prefix is required")
	}
	for idx, title := range c.Board.InitialColumns {
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("board.initial_columns[%d] is empty", idx)
		}
	}

	if c.Activity.Limit <= 0 {
		return fmt.Errorf("activity.limit must be > 0: %d", c.Activity.Limit)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when dev_file is enabled")
	}

	if c.UI.ColumnWidth < MinColumnWidth {
		return fmt.Errorf("ui.column_width must be >= %d: %d", MinColumnWidth, c.UI.ColumnWidth)
	}

	seen := map[string]string{}
	for _, binding := range []struct{ name, value string }{
		{"keys.activity_log", c.Keys.ActivityLog},
		{"keys.lift_task", c.Keys.LiftTask},
		{"keys.lift_column", c.Keys.LiftColumn},
		{"keys.copy_task", c.Keys.CopyTask},
	} {
		if binding.value == "" {
			continue
		}
		if prev, ok := seen[binding.value]; ok {
			return fmt.Errorf("%s duplicates %s: %q", binding.name, prev, binding.value)
		}
		seen[binding.value] = binding.name
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
