package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/roboscan/vrviewer/internal/viewer"
)

const (
	// pumpBufferSize is the initial scanner buffer; pumpMaxMessageSize bounds
	// a single message. Point tables run to a few megabytes at most.
	pumpBufferSize     = 64 * 1024
	pumpMaxMessageSize = 16 * 1024 * 1024
)

// WithPumpLogger sets the logger for the message pump.
func WithPumpLogger(logger *slog.Logger) func(*Pump) {
	return func(p *Pump) {
		p.logger = logger
	}
}

// Pump reads newline-delimited messages from the host channel and feeds them
// to the router one at a time. A message the router rejects is logged and
// dropped; the pump keeps going, so a bad producer can never halt the viewer.
type Pump struct {
	router *viewer.Router
	logger *slog.Logger
}

// NewPump creates a message pump over the given router.
func NewPump(router *viewer.Router, options ...func(*Pump)) *Pump {
	p := Pump{
		router: router,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&p)
	}

	return &p
}

// Run consumes messages from r until EOF or context cancellation.
func (p *Pump) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, pumpBufferSize), pumpMaxMessageSize)

	var dropped int
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := p.router.Handle(ctx, line); err != nil {
			dropped++
			p.logger.Warn("dropping message",
				slog.String("error", err.Error()),
				slog.Int("dropped", dropped))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("reading message channel: %w", err)
	}

	p.logger.Info("message channel closed", slog.Int("dropped", dropped))
	return nil
}
