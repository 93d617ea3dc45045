package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/devserver"
	"github.com/mobidic/webide/internal/logging"
)

var (
	servePort     int
	serveHostname string
	serveSeed     bool
	serveDelay    time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local in-memory backend",
	Long: `Start the development backend: the store REST API plus the execution
websocket endpoint, all in memory.

This is useful for trying the client without a real backend.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "127.0.0.1", "Hostname to listen on")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", true, "Seed a demo project")
	serveCmd.Flags().DurationVar(&serveDelay, "exec-delay", 50*time.Millisecond, "Pause between simulated output lines")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := devserver.New(devserver.WithExecDelay(serveDelay))
	if serveSeed {
		project := srv.Store().SeedDemo()
		fmt.Printf("seeded demo project id=%s\n", project.ID)
	}

	addr := fmt.Sprintf("%s:%d", serveHostname, servePort)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		fmt.Printf("listening on http://%s\n", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
