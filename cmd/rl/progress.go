package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// Progress redraws one status line per trial in place.
type Progress struct {
	mu    sync.Mutex
	lines []string

	frequency time.Duration
	writer    *uilive.Writer
	writers   []io.Writer
	doneCh    chan struct{}
	stopped   chan struct{}
}

func NewProgress(n int, frequency time.Duration) *Progress {
	p := &Progress{
		lines:     make([]string, n),
		frequency: frequency,
		writer:    uilive.New(),
		writers:   make([]io.Writer, n),
		doneCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	p.writers[0] = p.writer
	for i := 1; i < n; i++ {
		p.writers[i] = p.writer.Newline()
	}

	return p
}

// Set replaces the status line of trial i.
func (p *Progress) Set(i int, format string, args ...interface{}) {
	if p == nil {
		return
	}

	s := fmt.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines[i] = s
}

func (p *Progress) Start(ctx context.Context) {
	p.writer.Start()
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(p.frequency)
		defer ticker.Stop()
		for {
			select {
			case <-p.doneCh:
				p.print()
				p.writer.Stop()
				return
			case <-ctx.Done():
				p.writer.Stop()
				return
			case <-ticker.C:
				p.print()
			}
		}
	}()
}

// Stop prints the final status and waits for the printer to exit.
func (p *Progress) Stop() {
	if p == nil {
		return
	}

	close(p.doneCh)
	<-p.stopped
}

func (p *Progress) print() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, line := range p.lines {
		fmt.Fprintln(p.writers[i], line)
	}
	p.writer.Flush()
}

// newProgress returns a Progress for n trials, or nil if disabled.
func newProgress(ctx context.Context, n int) *Progress {
	if !flags.Progress {
		return nil
	}

	p := NewProgress(n, 200*time.Millisecond)
	p.Start(ctx)
	return p
}
