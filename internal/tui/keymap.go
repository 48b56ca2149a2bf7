package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Backspace key.Binding
	Check     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "move up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "move down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "move left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "move right")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next word")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next word")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
		Check:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "check answers")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}
