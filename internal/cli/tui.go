package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"trialscope/internal/eventbus"
	"trialscope/internal/history"
	"trialscope/internal/ui"
)

func runTUI(ctx context.Context, opts *options) error {
	a, err := setup(opts, os.Getenv)
	if err != nil {
		return err
	}
	defer a.Close()

	hist := history.New(a.bus, a.cfgSvc, a.cfg, a.logger)
	defer hist.Close()

	model := ui.NewModel(ui.Options{
		Config:       a.cfg,
		Fetcher:      a.client,
		BackendURL:   a.client.BaseURL(),
		Bus:          a.bus,
		History:      hist,
		Logger:       a.logger,
		GlamourStyle: glamourStyle(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Forward bus events to the UI without blocking the bus
	// eventChan is never closed; stop tells late handlers and the forwarder to quit
	eventChan := make(chan eventbus.DomainEvent, 100)
	stop := make(chan struct{})
	unsubscribe := a.bus.Subscribe(eventbus.EventHistoryChanged, queueEvent(eventChan, stop, a.logger))
	done := make(chan struct{})
	go func() {
		defer close(done)
		forwardEvents(eventChan, stop, func(e eventbus.DomainEvent) { p.Send(ui.EventMsg{Event: e}) })
	}()

	_, err = p.Run()
	unsubscribe()
	close(stop)
	<-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		a.logger.Error("error running program", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	a.logger.Info("UI exited normally")
	return nil
}

// queueEvent returns a bus handler that queues events without blocking the
// bus. Events arriving after stop is closed are dropped.
func queueEvent(events chan<- eventbus.DomainEvent, stop <-chan struct{}, logger *zap.Logger) eventbus.EventHandler {
	return func(e eventbus.DomainEvent) {
		select {
		case <-stop:
			return
		default:
		}
		select {
		case events <- e:
		case <-stop:
		default:
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
}

// forwardEvents passes events to send until stop is closed
func forwardEvents(events <-chan eventbus.DomainEvent, stop <-chan struct{}, send func(eventbus.DomainEvent)) {
	for {
		select {
		case <-stop:
			return
		case e := <-events:
			send(e)
		}
	}
}

func glamourStyle() string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	if !lipgloss.HasDarkBackground() {
		return "light"
	}
	return "dark"
}
