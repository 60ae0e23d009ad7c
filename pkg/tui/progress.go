// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var DefaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress shows a spinner with a done/total counter, e.g. "⠹ binding 3/10".
// Done may be called from any goroutine.
type Progress struct {
	out      io.Writer
	color    Colorizer
	label    string
	total    int
	interval time.Duration

	done atomic.Int64

	mu      sync.Mutex
	running bool
	frame   int
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewProgress returns a stopped Progress for total items.
func NewProgress(out io.Writer, c Colorizer, label string, total int) *Progress {
	return &Progress{
		out:      out,
		color:    c,
		label:    label,
		total:    total,
		interval: 120 * time.Millisecond,
	}
}

// Start begins rendering. It is a no-op if p is already running.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	fmt.Fprint(p.out, "\x1b[?25l")
	p.renderLocked()
	go p.loop(p.stopCh, p.doneCh)
}

// Done marks one item as finished.
func (p *Progress) Done() {
	p.done.Add(1)
}

// Count returns the number of finished items.
func (p *Progress) Count() int {
	return int(p.done.Load())
}

// Stop stops rendering and clears the line.
func (p *Progress) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)
	<-doneCh
	fmt.Fprint(p.out, "\r\033[K\x1b[?25h")
}

func (p *Progress) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.mu.Lock()
			p.frame++
			p.renderLocked()
			p.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (p *Progress) renderLocked() {
	f := DefaultFrames[p.frame%len(DefaultFrames)]
	fmt.Fprintf(p.out, "\r\033[K%s %s %d/%d", p.color.Wrap(ColorWarning, f), p.label, p.Count(), p.total)
}
