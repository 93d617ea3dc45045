// Package execsession manages one streaming connection to the remote
// execution backend: connect, queue-until-open, start, stream input and
// output, stop, and the terminal states.
package execsession

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/pkg/types"
)

// State is the session's connection/run state. Every transition is driven
// by a named event; there is no ad-hoc readiness flag.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateRunning    State = "running"
	StateClosed     State = "closed"
	StateErrored    State = "errored"
)

// terminal reports whether the state ends the session instance.
func (s State) terminal() bool {
	return s == StateClosed || s == StateErrored
}

var (
	// ErrRunInProgress is returned by Run while an execution is active;
	// at most one concurrent run per session.
	ErrRunInProgress = errors.New("execsession: run already in progress")
	// ErrNotConnected is returned by Run before Connect was called.
	ErrNotConnected = errors.New("execsession: not connected")
	// ErrNotRunning is returned by Stop/SendInput when no run is active.
	ErrNotRunning = errors.New("execsession: no run in progress")
	// ErrClosed is returned once the session reached a terminal state.
	// A new run requires a fresh session instance.
	ErrClosed = errors.New("execsession: session closed")
)

// Session owns one execution transport. The transport is touched by no
// other component.
type Session struct {
	url  string
	dial Dialer
	bus  *event.Bus

	mu      sync.Mutex
	state   State
	conn    Conn
	pending *types.StartRequest
	// gen invalidates in-flight dial and read goroutines after Close.
	gen uint64
}

// Option configures a Session.
type Option func(*Session)

// WithDialer replaces the websocket dialer (tests).
func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dial = d }
}

// WithBus sets the event bus; nil means the global bus.
func WithBus(bus *event.Bus) Option {
	return func(s *Session) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// New creates an idle session for the execution endpoint derived from the
// HTTP base URL.
func New(baseURL string, opts ...Option) (*Session, error) {
	url, err := ExecURL(baseURL)
	if err != nil {
		return nil, err
	}
	s := &Session{
		url:   url,
		dial:  DialWebsocket,
		bus:   event.Default(),
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect opens the transport asynchronously. It is a no-op when the
// session is already connecting or connected; at most one live transport
// exists per session.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateConnecting, StateOpen, StateRunning:
		s.mu.Unlock()
		return nil
	case StateClosed, StateErrored:
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = StateConnecting
	gen := s.gen
	s.mu.Unlock()

	s.publishState(StateConnecting)
	go s.dialTransport(ctx, gen)
	return nil
}

// dialTransport performs the dial and flushes any buffered start request
// the instant the transport opens.
func (s *Session) dialTransport(ctx context.Context, gen uint64) {
	conn, err := s.dial(ctx, s.url)

	s.mu.Lock()
	if s.gen != gen || s.state != StateConnecting {
		// Closed while dialing.
		s.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		s.state = StateErrored
		s.pending = nil
		s.mu.Unlock()
		logging.Warn().Err(err).Str("url", s.url).Msg("execution transport dial failed")
		s.publishState(StateErrored)
		s.bus.PublishSync(event.Event{Type: event.SessionClosed, Data: event.SessionClosedData{Err: err.Error()}})
		return
	}

	s.conn = conn
	var started *types.StartRequest
	if s.pending != nil {
		started = s.pending
		s.pending = nil
		if werr := conn.WriteJSON(started); werr != nil {
			s.mu.Unlock()
			s.transportLost(gen, werr)
			return
		}
		s.state = StateRunning
	} else {
		s.state = StateOpen
	}
	newState := s.state
	s.mu.Unlock()

	s.publishState(newState)
	if started != nil {
		s.bus.PublishSync(event.Event{Type: event.ExecStarted, Data: event.ExecStartedData{Language: started.Language}})
	}
	go s.readLoop(conn, gen)
}

// Run requests execution of the payload. While connecting, the request is
// buffered in the single pending slot; the latest caller wins and the
// request fires the moment the transport opens.
func (s *Session) Run(code string, language types.Language, params []string) error {
	req := &types.StartRequest{
		Type:     types.ExecStart,
		Code:     code,
		Language: language,
		Params:   params,
	}
	if params == nil {
		req.Params = []string{}
	}

	s.mu.Lock()
	switch s.state {
	case StateRunning:
		s.mu.Unlock()
		return ErrRunInProgress
	case StateConnecting:
		s.pending = req
		s.mu.Unlock()
		logging.Debug().Msg("run buffered until transport opens")
		return nil
	case StateOpen:
		conn, gen := s.conn, s.gen
		if err := conn.WriteJSON(req); err != nil {
			s.mu.Unlock()
			s.transportLost(gen, err)
			return ErrClosed
		}
		s.state = StateRunning
		s.mu.Unlock()
		s.publishState(StateRunning)
		s.bus.PublishSync(event.Event{Type: event.ExecStarted, Data: event.ExecStartedData{Language: language}})
		return nil
	case StateIdle:
		s.mu.Unlock()
		return ErrNotConnected
	default:
		s.mu.Unlock()
		return ErrClosed
	}
}

// Stop ends the current run. While a start request is still buffered, it
// is simply discarded without ever contacting the transport. During a run
// the stop request is sent and the session optimistically re-enters Open
// without waiting for acknowledgment; a late result or error is still
// applied when it arrives.
func (s *Session) Stop() error {
	s.mu.Lock()
	switch {
	case s.state == StateRunning:
		conn, gen := s.conn, s.gen
		if err := conn.WriteJSON(types.StopRequest{Type: types.ExecStop}); err != nil {
			s.mu.Unlock()
			s.transportLost(gen, err)
			return nil
		}
		s.state = StateOpen
		s.mu.Unlock()
		s.publishState(StateOpen)
		s.bus.PublishSync(event.Event{Type: event.ExecStopped})
		return nil

	case s.pending != nil:
		s.pending = nil
		s.mu.Unlock()
		logging.Debug().Msg("buffered run discarded before transport opened")
		return nil

	default:
		s.mu.Unlock()
		return ErrNotRunning
	}
}

// SendInput forwards user input to the running execution. Input is only
// meaningful mid-execution.
func (s *Session) SendInput(data string) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	conn, gen := s.conn, s.gen
	err := conn.WriteJSON(types.InputRequest{Type: types.ExecInput, Data: data})
	s.mu.Unlock()

	if err != nil {
		s.transportLost(gen, err)
		return ErrClosed
	}
	return nil
}

// Close releases the transport and moves the session to its terminal
// state. Safe to call from any state and idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	s.pending = nil
	conn := s.conn
	s.conn = nil
	s.state = StateClosed
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	s.publishState(StateClosed)
	s.bus.PublishSync(event.Event{Type: event.SessionClosed, Data: event.SessionClosedData{}})
	return nil
}

// readLoop forwards inbound frames until the transport dies.
func (s *Session) readLoop(conn Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.transportLost(gen, err)
			return
		}
		s.handleFrame(data)
	}
}

// handleFrame decodes one inbound frame. Malformed frames become visible
// stderr output rather than being dropped.
func (s *Session) handleFrame(data []byte) {
	var msg types.ExecMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		s.bus.PublishSync(event.Event{Type: event.ExecOutput, Data: event.ExecOutputData{
			Stream: types.StreamStderr,
			Data:   string(data),
		}})
		return
	}

	switch msg.Type {
	case types.ExecOutput:
		// Forwarded verbatim; no state change.
		s.bus.PublishSync(event.Event{Type: event.ExecOutput, Data: event.ExecOutputData{
			Stream: msg.Stream,
			Data:   msg.Data,
		}})

	case types.ExecResult:
		s.runFinished()
		s.bus.PublishSync(event.Event{Type: event.ExecResult, Data: event.ExecResultData{
			ExitCode:    msg.ExitCode,
			Result:      msg.Result,
			Performance: msg.Performance,
			Stderr:      msg.Stderr,
		}})

	case types.ExecError:
		// The run failed; the session stays connected.
		s.runFinished()
		s.bus.PublishSync(event.Event{Type: event.ExecError, Data: event.ExecErrorData{Message: msg.Message}})

	default:
		s.bus.PublishSync(event.Event{Type: event.ExecOutput, Data: event.ExecOutputData{
			Stream: types.StreamStderr,
			Data:   string(data),
		}})
	}
}

// runFinished re-enters Open after a result or remote error. Idempotent:
// a late frame arriving after an optimistic stop finds the session already
// in Open and changes nothing.
func (s *Session) runFinished() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.state = StateOpen
	s.mu.Unlock()
	s.publishState(StateOpen)
}

// transportLost handles a transport-level close or error from any
// non-terminal state. Any buffered start is discarded and the running
// indicator cleared.
func (s *Session) transportLost(gen uint64, err error) {
	s.mu.Lock()
	if s.gen != gen || s.state.terminal() {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.pending = nil
	conn := s.conn
	s.conn = nil
	if isNormalClose(err) {
		s.state = StateClosed
	} else {
		s.state = StateErrored
	}
	newState := s.state
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	logging.Debug().Err(err).Str("state", string(newState)).Msg("execution transport lost")
	s.publishState(newState)

	reason := ""
	if newState == StateErrored && err != nil {
		reason = err.Error()
	}
	s.bus.PublishSync(event.Event{Type: event.SessionClosed, Data: event.SessionClosedData{Err: reason}})
}

func (s *Session) publishState(st State) {
	s.bus.PublishSync(event.Event{Type: event.ExecStateChange, Data: event.ExecStateChangeData{State: string(st)}})
}
