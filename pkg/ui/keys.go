package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the full set of bindings. It satisfies help.KeyMap.
type keyMap struct {
	SmartCity  key.Binding
	Utility    key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Focus      key.Binding
	Clear      key.Binding
	Animate    key.Binding
	Tab        key.Binding
	Run        key.Binding
	PrevGuide  key.Binding
	NextGuide  key.Binding
	PrevStep   key.Binding
	NextStep   key.Binding
	Copy       key.Binding
	Dark       key.Binding
	Help       key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SmartCity: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "smart city")),
		Utility:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "utility")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "layer left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "layer right")),
		Focus:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close details")),
		Animate:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/play")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "outcome/setup")),
		Run:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run simulation")),
		PrevGuide: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev guide")),
		NextGuide: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next guide")),
		PrevStep:  key.NewBinding(key.WithKeys("{", "shift+up"), key.WithHelp("{", "prev step")),
		NextStep:  key.NewBinding(key.WithKeys("}", "shift+down"), key.WithHelp("}", "next step")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy code")),
		Dark:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark mode")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		ScrollUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
	}
}

// ShortHelp is the one-line footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SmartCity, k.Utility, k.Focus, k.Animate, k.Tab, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per concern.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SmartCity, k.Utility, k.Dark, k.Help, k.Quit},
		{k.Up, k.Down, k.Left, k.Right, k.Focus, k.Clear, k.Animate},
		{k.Tab, k.Run, k.PrevGuide, k.NextGuide, k.PrevStep, k.NextStep, k.Copy},
		{k.ScrollUp, k.ScrollDown},
	}
}
