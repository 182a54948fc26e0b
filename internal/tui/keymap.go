package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user overrides for rebindable keys. Blank fields keep the defaults.
type KeyConfig struct {
	ActivityLog string
	LiftTask    string
	LiftColumn  string
	CopyTask    string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	toggleHelp   key.Binding
	moveLeft     key.Binding
	moveRight    key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	addColumn    key.Binding
	addTask      key.Binding
	editTask     key.Binding
	renameColumn key.Binding
	deleteTask   key.Binding
	deleteColumn key.Binding
	taskInfo     key.Binding
	copyTask     key.Binding
	activityLog  key.Binding
	liftTask     key.Binding
	liftColumn   key.Binding
	drop         key.Binding
	cancel       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addColumn:    key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "add column")),
		addTask:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		editTask:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		renameColumn: key.NewBinding(key.WithKeys("E", "shift+e"), key.WithHelp("E", "rename column")),
		deleteTask:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete task")),
		deleteColumn: key.NewBinding(key.WithKeys("X", "shift+x"), key.WithHelp("X", "delete column")),
		taskInfo:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "task info")),
		copyTask:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		activityLog:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		liftTask:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "lift task")),
		liftColumn:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "lift column")),
		drop:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// applyConfig rebinds configurable keys.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
	configureBinding(&k.liftTask, cfg.LiftTask, "space", "lift task")
	configureBinding(&k.liftColumn, cfg.LiftColumn, "m", "lift column")
	configureBinding(&k.copyTask, cfg.CopyTask, "y", "copy task")
}

// configureBinding replaces the keys and help text of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys converts one configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.addColumn, k.editTask, k.liftTask, k.liftColumn, k.activityLog, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.addColumn, k.addTask, k.editTask, k.renameColumn, k.deleteTask, k.deleteColumn},
		{k.liftTask, k.liftColumn, k.drop, k.cancel},
		{k.taskInfo, k.copyTask, k.activityLog, k.toggleHelp, k.quit},
	}
}

// dragKeyMap limits help to the bindings active while an item is lifted.
type dragKeyMap struct {
	keys keyMap
}

// ShortHelp handles short help.
func (d dragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{d.keys.moveLeft, d.keys.moveRight, d.keys.moveUp, d.keys.moveDown, d.keys.drop, d.keys.cancel}
}

// FullHelp handles full help.
func (d dragKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{d.ShortHelp()}
}
