package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

// form is a small stack of text inputs with one focused field.
type form struct {
	title   string
	inputs  []textinput.Model
	focus   int
	err     string
	pending bool
}

func newInput(placeholder string, limit int, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

func newLoginForm() form {
	f := form{
		title: "Sign in",
		inputs: []textinput.Model{
			newInput("email", 254, false),
			newInput("password", 72, true),
		},
	}
	f.inputs[0].Focus()
	return f
}

func newRegisterForm() form {
	f := form{
		title: "Create account",
		inputs: []textinput.Model{
			newInput("name", 50, false),
			newInput("email", 254, false),
			newInput("password (8+ characters)", 72, true),
		},
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) credentials() shop.Credentials {
	return shop.Credentials{Email: f.value(0), Password: f.inputs[1].Value()}
}

func (f *form) registration() shop.Registration {
	return shop.Registration{Name: f.value(0), Email: f.value(1), Password: f.inputs[2].Value()}
}

func (f *form) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	f.inputs[f.focus].Focus()
}

// lastField reports whether the focused input is the final one, where enter
// submits instead of advancing.
func (f *form) lastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}
