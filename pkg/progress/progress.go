// Package progress reports coarse progress of long loops. Observers are
// plain functions so callers can plug in a terminal bar, a logger or
// nothing at all.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/csutil/pkg/constants"
)

// Func observes progress: done out of total units are complete.
type Func func(done, total int)

// Ticker forwards updates to an observer only when the completed share
// advances by at least one step (1% with the default resolution), plus the
// final update.
type Ticker struct {
	next  Func
	steps int
	last  int
}

// NewTicker wraps next. A nil next yields a Ticker that drops everything.
func NewTicker(next Func) *Ticker {
	return &Ticker{next: next, steps: constants.ProgressSteps, last: -1}
}

// Update records progress and forwards it if a new step was reached.
func (t *Ticker) Update(done, total int) {
	if t == nil || t.next == nil || total <= 0 {
		return
	}
	step := done * t.steps / total
	if step <= t.last && done != total {
		return
	}
	if done == total && t.last == t.steps {
		return
	}
	t.last = step
	t.next(done, total)
}

// Bar renders a carriage-return progress bar:
//
//	Progress: [||||||      ] (     42 /     100)
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewBar creates a bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w, width: constants.ProgressBarWidth}
}

// Update redraws the bar. It satisfies Func.
func (b *Bar) Update(done, total int) {
	if total <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	filled := min(done*b.width/total, b.width)
	fmt.Fprintf(b.w, "\rProgress: [%-*s] (%7d / %7d)", b.width, strings.Repeat("|", filled), done, total)
}

// Finish terminates the bar line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.w)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
