package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsWriter serializes concurrent frame writes to one connection.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) send(msg types.ExecMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(msg); err != nil {
		logging.Debug().Err(err).Msg("exec write failed")
	}
}

// handleExec speaks the execution protocol: start/input/stop inbound,
// output/result/error outbound. Executions are simulated: print statements
// in the submitted code become stdout lines and input is echoed back.
func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("exec upgrade failed")
		return
	}
	defer conn.Close()

	writer := &wsWriter{conn: conn}
	var (
		mu      sync.Mutex
		running bool
		stop    chan struct{}
	)

	finish := func() {
		mu.Lock()
		running = false
		mu.Unlock()
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			mu.Lock()
			if running && stop != nil {
				close(stop)
				stop = nil
			}
			mu.Unlock()
			return
		}

		var frame struct {
			Type     string         `json:"type"`
			Code     string         `json:"code"`
			Language types.Language `json:"language"`
			Data     string         `json:"data"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			writer.send(types.ExecMessage{Type: types.ExecError, Message: "malformed frame"})
			continue
		}

		switch frame.Type {
		case types.ExecStart:
			if !frame.Language.Valid() {
				writer.send(types.ExecMessage{Type: types.ExecError, Message: "unsupported language: " + string(frame.Language)})
				continue
			}
			mu.Lock()
			if running {
				mu.Unlock()
				writer.send(types.ExecMessage{Type: types.ExecError, Message: "a run is already in progress"})
				continue
			}
			running = true
			stop = make(chan struct{})
			mu.Unlock()
			runID := uuid.NewString()
			logging.Info().Str("run", runID).Str("language", string(frame.Language)).Msg("exec start")
			go func(code string, lang types.Language, stop chan struct{}) {
				defer finish()
				s.simulate(writer, code, lang, stop)
			}(frame.Code, frame.Language, stop)

		case types.ExecInput:
			mu.Lock()
			active := running
			mu.Unlock()
			if active {
				writer.send(types.ExecMessage{Type: types.ExecOutput, Stream: types.StreamStdout, Data: frame.Data})
			}

		case types.ExecStop:
			mu.Lock()
			if running && stop != nil {
				close(stop)
				stop = nil
			}
			mu.Unlock()

		default:
			writer.send(types.ExecMessage{Type: types.ExecError, Message: "unknown frame type: " + frame.Type})
		}
	}
}

// simulate streams the code's print output line by line, then a result
// frame. A stop closes the run with exit code 130.
func (s *Server) simulate(writer *wsWriter, code string, lang types.Language, stop chan struct{}) {
	started := time.Now()
	exit := func(status int) {
		elapsed := time.Since(started).Milliseconds()
		writer.send(types.ExecMessage{Type: types.ExecResult, ExitCode: &status, Performance: elapsed})
	}

	for _, line := range printedLines(code, lang) {
		select {
		case <-stop:
			exit(130)
			return
		case <-time.After(s.execDelay):
		}
		writer.send(types.ExecMessage{Type: types.ExecOutput, Stream: types.StreamStdout, Data: line + "\n"})
	}

	select {
	case <-stop:
		exit(130)
	default:
		exit(0)
	}
}

// printedLines extracts the literals passed to print statements, which is
// all the simulation can honestly produce.
func printedLines(code string, lang types.Language) []string {
	marker := "print("
	if lang == types.LangJava {
		marker = "System.out.println("
	}
	var out []string
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, marker) || !strings.HasSuffix(line, ")") {
			continue
		}
		arg := strings.TrimSuffix(strings.TrimPrefix(line, marker), ")")
		arg = strings.Trim(arg, `"'`)
		out = append(out, arg)
	}
	return out
}
