package assessment

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

type keyMap struct {
	Option1  key.Binding
	Option2  key.Binding
	Option3  key.Binding
	Option4  key.Binding
	Up       key.Binding
	Down     key.Binding
	Choose   key.Binding
	Prev     key.Binding
	Next     key.Binding
	Overview key.Binding
	Submit   key.Binding
	Back     key.Binding
	Yes      key.Binding
	No       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Option1:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "Answer")),
		Option2:  key.NewBinding(key.WithKeys("2")),
		Option3:  key.NewBinding(key.WithKeys("3")),
		Option4:  key.NewBinding(key.WithKeys("4")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Move")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Choose:   key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Choose")),
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "Prev/Next")),
		Next:     key.NewBinding(key.WithKeys("right", "l")),
		Overview: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Overview")),
		Submit:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Submit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Close")),
		Yes:      key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Submit")),
		No:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
	}
}

// optionIndex returns the option index for a number key, or -1.
func (k keyMap) optionIndex(msg tea.KeyPressMsg) int {
	for i, b := range []key.Binding{k.Option1, k.Option2, k.Option3, k.Option4} {
		if key.Matches(msg, b) {
			return i
		}
	}
	return -1
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Option1, k.Up, k.Choose, k.Prev, k.Overview, k.Submit}
}

func keyMatches(msg tea.KeyPressMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}
