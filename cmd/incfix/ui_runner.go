package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"incfix/internal/driver"
	"incfix/internal/logging"
	"incfix/internal/ui"
)

type batchOutcome struct {
	results []driver.FileResult
	err     error
}

func runBatchWithUI(ctx context.Context, title string, files []string, req driver.Request) ([]driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, files, reqCopy)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// view закрыт (Ctrl+C или ошибка): останавливаем планирование и дочитываем
	// события, чтобы воркеры не заблокировались на канале
	cancel()
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		logging.OrNop(logger).Warn("progress view failed", zap.Error(uiErr))
	}
	return outcome.results, outcome.err
}
