package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// WalkSpinner reports commits walked and reported while a range is walked.
// A disabled WalkSpinner is a no-op, so callers need not branch.
type WalkSpinner struct {
	s       *spinner.Spinner
	w       io.Writer
	symbols ProgressSymbols
	label   string
}

// NewWalkSpinner returns a spinner writing to w. It is disabled unless caps
// reports a terminal.
func NewWalkSpinner(w io.Writer, caps TerminalCapabilities, label string) *WalkSpinner {
	ws := &WalkSpinner{w: w, symbols: SelectSymbols(caps), label: label}
	if !caps.IsTTY {
		return ws
	}
	ws.s = spinner.New(spinner.CharSets[ws.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(w))
	ws.s.Suffix = " " + label
	return ws
}

// Enabled reports whether the spinner draws anything.
func (ws *WalkSpinner) Enabled() bool { return ws.s != nil }

// Start begins animating.
func (ws *WalkSpinner) Start() {
	if ws.s != nil {
		ws.s.Start()
	}
}

// Update shows the current counts. It is safe to call from any goroutine.
func (ws *WalkSpinner) Update(walked, reported int) {
	if ws.s == nil {
		return
	}
	ws.s.Lock()
	ws.s.Suffix = fmt.Sprintf(" %s (%d commits walked, %d reported)", ws.label, walked, reported)
	ws.s.Unlock()
}

// Stop halts the spinner and prints a final status line.
func (ws *WalkSpinner) Stop(success bool) {
	if ws.s == nil {
		return
	}
	symbol := ws.symbols.Checkmark
	if !success {
		symbol = ws.symbols.Failure
	}
	ws.s.FinalMSG = fmt.Sprintf("%s %s\n", symbol, ws.label)
	ws.s.Stop()
}
