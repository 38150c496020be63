package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scriptgate/internal/driver"
	"scriptgate/internal/ui"
)

type checkOutcome struct {
	results []driver.CheckResult
	err     error
}

func runCheckWithUI(ctx context.Context, d *driver.Driver, dir string, files []string, opts driver.CheckOptions) ([]driver.CheckResult, error) {
	events := make(chan driver.CheckEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev driver.CheckEvent) { events <- ev }
		res, err := d.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	title := fmt.Sprintf("checking %d script(s) in %s", len(files), dir)
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// UI мог выйти раньше (ctrl+c): дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
