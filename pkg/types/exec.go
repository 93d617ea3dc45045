package types

// Language identifies a remote-execution language.
type Language string

const (
	LangPython Language = "python"
	LangJava   Language = "java"
)

// Valid reports whether the language is one the execution backend accepts.
func (l Language) Valid() bool {
	return l == LangPython || l == LangJava
}

// Execution transport message kinds. Outbound: start, input, stop.
// Inbound: output, result, error.
const (
	ExecStart  = "start"
	ExecInput  = "input"
	ExecStop   = "stop"
	ExecOutput = "output"
	ExecResult = "result"
	ExecError  = "error"
)

// Output stream names.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// StartRequest asks the execution backend to run a code snapshot.
type StartRequest struct {
	Type     string   `json:"type"`
	Code     string   `json:"code"`
	Language Language `json:"language"`
	Params   []string `json:"params"`
}

// InputRequest forwards user input to a running execution.
type InputRequest struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// StopRequest asks the backend to terminate the current execution.
type StopRequest struct {
	Type string `json:"type"`
}

// ExecMessage is an inbound frame from the execution transport. Exactly one
// of the kind-specific field groups is populated depending on Type.
type ExecMessage struct {
	Type string `json:"type"`

	// output
	Stream string `json:"stream,omitempty"`
	Data   string `json:"data,omitempty"`

	// result
	ExitCode    *int   `json:"exitCode,omitempty"`
	Result      string `json:"result,omitempty"`
	Performance int64  `json:"performance,omitempty"`
	Stderr      string `json:"stderr,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}
