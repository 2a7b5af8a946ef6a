package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"supra/internal/session"
)

// RunWithProgress runs build in the background and renders its events until
// it returns. build must call the supplied sink for every event; the sink is
// safe for concurrent use.
func RunWithProgress(out io.Writer, title string, files []string, build func(sink func(session.Event)) error) error {
	events := make(chan session.Event, 256)
	done := make(chan error, 1)
	go func() {
		err := build(func(ev session.Event) { events <- ev })
		close(events)
		done <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	err := <-done
	if uiErr != nil {
		return uiErr
	}
	return err
}
