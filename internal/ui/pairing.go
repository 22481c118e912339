package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PairingFunc runs the pairing flow, calling prompt when the device starts
// waiting for the user
type PairingFunc func(ctx context.Context, prompt func(message string)) (string, error)

type pairingPromptMsg struct {
	message string
}

type pairingDoneMsg struct {
	token string
	err   error
}

// PairingModel shows a spinner while the Freebox waits for the user to
// confirm the pairing request on its front panel
type PairingModel struct {
	Host      string
	Spinner   spinner.Model
	Prompt    string
	Started   time.Time
	Done      bool
	Cancelled bool
	Token     string
	Err       error
	now       func() time.Time
}

// NewPairingModel creates the model for pairing with host
func NewPairingModel(host string) PairingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return PairingModel{
		Host:    host,
		Spinner: s,
		Started: time.Now(),
		now:     time.Now,
	}
}

// Init starts the spinner
func (m PairingModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles messages and updates the model
func (m PairingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Cancelled = true
			return m, tea.Quit
		}

	case pairingPromptMsg:
		m.Prompt = msg.message

	case pairingDoneMsg:
		m.Done = true
		m.Token = msg.token
		m.Err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the waiting screen. Once pairing ends the view is empty and
// the caller prints the result.
func (m PairingModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(m.Spinner.View())
	b.WriteString(" Requesting authorization from ")
	b.WriteString(HeaderParamValueStyle.Render(m.Host))
	b.WriteString("\n")

	if m.Prompt != "" {
		b.WriteString("\n  ")
		b.WriteString(PendingStyle.Render(m.Prompt))
		b.WriteString("\n")
	}

	elapsed := m.now().Sub(m.Started).Truncate(time.Second)
	b.WriteString("\n  ")
	b.WriteString(NoteStyle.Render(fmt.Sprintf("waiting %s, press q to cancel", elapsed)))
	b.WriteString("\n")
	return b.String()
}

// RunPairing runs fn behind a spinner when out is a terminal, and with plain
// prompt lines otherwise. Quitting the spinner cancels the pairing.
func RunPairing(ctx context.Context, out io.Writer, host string, fn PairingFunc) (string, error) {
	if !IsTerminal(out) {
		return fn(ctx, func(message string) {
			_, _ = fmt.Fprintln(out, message)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewPairingModel(host), tea.WithOutput(out))

	results := make(chan pairingDoneMsg, 1)
	go func() {
		token, err := fn(ctx, func(message string) {
			p.Send(pairingPromptMsg{message: message})
		})
		results <- pairingDoneMsg{token: token, err: err}
		p.Send(pairingDoneMsg{token: token, err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-results
		return "", err
	}

	cancel()
	res := <-results
	return res.token, res.err
}
