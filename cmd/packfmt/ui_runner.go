package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"packfmt/internal/driver"
	"packfmt/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

func runCheckWithUI(ctx context.Context, title string, paths []string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	files, err := driver.ListTemplates(paths)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckPaths(ctx, paths, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// после Ctrl+C модель больше не читает канал; дочитываем, чтобы
	// воркеры не заблокировались на отправке
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
