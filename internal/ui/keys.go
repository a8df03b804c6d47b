package ui

import "github.com/charmbracelet/bubbles/key"

const (
	keyDownConstant         = "j"
	keyDownArrowConstant    = "down"
	keyUpConstant           = "k"
	keyUpArrowConstant      = "up"
	keyToggleConstant       = " "
	keyConfirmConstant      = "enter"
	keyQuitConstant         = "q"
	keyInterruptConstant    = "ctrl+c"
	helpDownKeysConstant    = "j/↓"
	helpDownTextConstant    = "move down"
	helpUpKeysConstant      = "k/↑"
	helpUpTextConstant      = "move up"
	helpToggleKeysConstant  = "space"
	helpToggleTextConstant  = "select or unselect branch"
	helpConfirmKeysConstant = "enter"
	helpConfirmTextConstant = "delete selected branches"
	helpQuitKeysConstant    = "q"
	helpQuitTextConstant    = "quit without deleting"
)

type keyMap struct {
	Down    key.Binding
	Up      key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Down: key.NewBinding(
			key.WithKeys(keyDownConstant, keyDownArrowConstant),
			key.WithHelp(helpDownKeysConstant, helpDownTextConstant),
		),
		Up: key.NewBinding(
			key.WithKeys(keyUpConstant, keyUpArrowConstant),
			key.WithHelp(helpUpKeysConstant, helpUpTextConstant),
		),
		Toggle: key.NewBinding(
			key.WithKeys(keyToggleConstant),
			key.WithHelp(helpToggleKeysConstant, helpToggleTextConstant),
		),
		Confirm: key.NewBinding(
			key.WithKeys(keyConfirmConstant),
			key.WithHelp(helpConfirmKeysConstant, helpConfirmTextConstant),
		),
		Quit: key.NewBinding(
			key.WithKeys(keyQuitConstant, keyInterruptConstant),
			key.WithHelp(helpQuitKeysConstant, helpQuitTextConstant),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Down, keys.Up, keys.Toggle, keys.Confirm, keys.Quit}
}

// FullHelp implements help.KeyMap with one binding per line.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{keys.Down, keys.Up, keys.Toggle, keys.Confirm, keys.Quit}}
}

func (keys *keyMap) setEnabled(enabled bool) {
	keys.Down.SetEnabled(enabled)
	keys.Up.SetEnabled(enabled)
	keys.Toggle.SetEnabled(enabled)
	keys.Confirm.SetEnabled(enabled)
	keys.Quit.SetEnabled(enabled)
}
