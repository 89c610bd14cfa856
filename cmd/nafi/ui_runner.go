package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nafi/internal/driver"
	"nafi/internal/ui"
)

// runWithUI runs work with a ChannelSink wired into opts and shows the
// progress model until work returns.
func runWithUI(title string, files []string, opts driver.Options, work func(driver.Options) error) error {
	events := make(chan driver.Event, 256)
	outcome := make(chan error, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		err := work(opts)
		outcome <- err
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// модель могла выйти раньше (Ctrl+C): дочитываем канал, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	err := <-outcome
	if uiErr != nil {
		return uiErr
	}
	return err
}
