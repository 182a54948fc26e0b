package tui

// minColumnWidth is the narrowest column body the board renders.
const minColumnWidth = 12

type Option func(*Model)

// WithColumnWidth sets the rendered width of each column body.
func WithColumnWidth(width int) Option {
	return func(m *Model) {
		if width >= minColumnWidth {
			m.columnWidth = width
		}
	}
}

// WithMarkdown toggles glamour rendering in the task detail overlay.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) {
		m.renderMarkdown = enabled
	}
}

// WithActivity wires the activity overlay to a ledger reader.
func WithActivity(reader ActivityReader, limit int) Option {
	return func(m *Model) {
		m.activity = reader
		if limit > 0 {
			m.activityLimit = limit
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithKeyConfig applies key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}
