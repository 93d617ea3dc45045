package workspace

import (
	"fmt"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/pkg/types"
)

// subscribeTerminal feeds the run console from execution events. The
// handlers only touch termMu, never w.mu, so they are safe to call from
// synchronous publishes made under the workspace lock.
func (w *Workspace) subscribeTerminal() {
	w.unsubs = append(w.unsubs,
		w.bus.Subscribe(event.ExecStarted, func(e event.Event) {
			if data, ok := e.Data.(event.ExecStartedData); ok {
				w.appendTerminal(fmt.Sprintf("[run] %s", data.Language))
			}
		}),
		w.bus.Subscribe(event.ExecOutput, func(e event.Event) {
			data, ok := e.Data.(event.ExecOutputData)
			if !ok {
				return
			}
			if data.Stream == types.StreamStderr {
				w.appendTerminal("[stderr] " + data.Data)
				return
			}
			w.appendTerminal(data.Data)
		}),
		w.bus.Subscribe(event.ExecResult, func(e event.Event) {
			data, ok := e.Data.(event.ExecResultData)
			if !ok {
				return
			}
			if data.Stderr != "" {
				w.appendTerminal("[stderr] " + data.Stderr)
			}
			line := "[done]"
			if data.ExitCode != nil {
				line = fmt.Sprintf("[done] exit %d", *data.ExitCode)
			}
			if data.Performance > 0 {
				line += fmt.Sprintf(" (%dms)", data.Performance)
			}
			w.appendTerminal(line)
		}),
		w.bus.Subscribe(event.ExecError, func(e event.Event) {
			if data, ok := e.Data.(event.ExecErrorData); ok {
				w.appendTerminal("[error] " + data.Message)
			}
		}),
		w.bus.Subscribe(event.ExecStopped, func(event.Event) {
			w.appendTerminal("[stopped]")
		}),
		w.bus.Subscribe(event.SessionClosed, func(e event.Event) {
			if data, ok := e.Data.(event.SessionClosedData); ok && data.Err != "" {
				w.appendTerminal("[session] " + data.Err)
			}
		}),
	)
}

func (w *Workspace) appendTerminal(line string) {
	w.termMu.Lock()
	w.terminal = append(w.terminal, line)
	w.termMu.Unlock()
}

// Terminal returns a copy of the run console transcript.
func (w *Workspace) Terminal() []string {
	w.termMu.Lock()
	defer w.termMu.Unlock()
	out := make([]string, len(w.terminal))
	copy(out, w.terminal)
	return out
}

// ClearTerminal empties the transcript.
func (w *Workspace) ClearTerminal() {
	w.termMu.Lock()
	w.terminal = nil
	w.termMu.Unlock()
}
