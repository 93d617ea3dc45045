package commands

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/internal/execsession"
	"github.com/mobidic/webide/internal/workspace"
	"github.com/mobidic/webide/pkg/types"
)

var (
	runProject  string
	runLanguage string
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Run a project file on the execution backend",
	Long: `Open a file from the project tree and execute it remotely, streaming
output to the terminal. Lines typed on stdin are forwarded to the
running program.

Examples:
  webide run --project 01ABC src/main.py
  webide run --project 01ABC --language java src/Main.java`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

func init() {
	runCmd.Flags().StringVarP(&runProject, "project", "p", "", "Project ID")
	runCmd.Flags().StringVarP(&runLanguage, "language", "l", "", "Execution language (python|java)")
}

var stderrColor = color.New(color.FgRed)

func runExecute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	project, err := resolveProject(cmd, runProject)
	if err != nil {
		return err
	}

	client := newClient()
	bus := event.NewBus()
	defer bus.Close()
	w := workspace.New(client, client, cfg.BaseURL, workspace.WithBus(bus))
	defer w.Close()

	if err := w.ActivateProject(ctx, project); err != nil {
		return err
	}
	// The configured language is the fallback when the file extension is
	// not recognized, so it must be in place before the file is opened.
	if cfg.Language.Valid() {
		w.SetLanguage(cfg.Language)
	}
	if err := w.Select(ctx, args[0]); err != nil {
		return err
	}
	if runLanguage != "" {
		lang := types.Language(runLanguage)
		if !lang.Valid() {
			return fmt.Errorf("unsupported language %q", runLanguage)
		}
		w.SetLanguage(lang)
	}

	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}
	unsubs := []func(){
		bus.Subscribe(event.ExecOutput, func(e event.Event) {
			data, ok := e.Data.(event.ExecOutputData)
			if !ok {
				return
			}
			if data.Stream == types.StreamStderr {
				stderrColor.Fprint(os.Stderr, data.Data)
				return
			}
			fmt.Print(data.Data)
		}),
		bus.Subscribe(event.ExecResult, func(e event.Event) {
			if data, ok := e.Data.(event.ExecResultData); ok {
				if data.Stderr != "" {
					stderrColor.Fprint(os.Stderr, data.Stderr)
				}
				if data.ExitCode != nil && *data.ExitCode != 0 {
					finish(fmt.Errorf("exited with code %d", *data.ExitCode))
					return
				}
			}
			finish(nil)
		}),
		bus.Subscribe(event.ExecError, func(e event.Event) {
			if data, ok := e.Data.(event.ExecErrorData); ok {
				finish(fmt.Errorf("execution failed: %s", data.Message))
				return
			}
			finish(fmt.Errorf("execution failed"))
		}),
		bus.Subscribe(event.SessionClosed, func(e event.Event) {
			if data, ok := e.Data.(event.SessionClosedData); ok && data.Err != "" {
				finish(fmt.Errorf("connection lost: %s", data.Err))
				return
			}
			finish(nil)
		}),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	if err := w.Run(ctx); err != nil {
		return err
	}

	// Forward stdin lines to the running program.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := w.SendInput(scanner.Text() + "\n"); err != nil {
				if err == execsession.ErrNotRunning {
					return
				}
			}
		}
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		w.Stop()
		return ctx.Err()
	}
}
