package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"memberdir/config"
	"memberdir/directory"
	"memberdir/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveInput  string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local member directory page",
	Long: `Start a local HTTP server with the member directory page.

Upload a CSV sheet from the browser (click or drag and drop), then search members by name
or national id. Members are held in memory only; uploading another sheet replaces them.`,
	Example: `
  # Start local server on the configured port
  memberdir serve

  # Preload a sheet and do not open a browser
  memberdir serve --input ./members.csv --no-open --port 9090
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		port := resolveServePort(cfg.Serve.Port, servePort, cmd.Flags().Changed("port"))

		session := newSession(*cfg)
		if serveInput != "" {
			collection, err := loadFile(cmd.Context(), session, serveInput)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %s. Rows read: %d, Members: %d, Rows skipped: %d\n",
				serveInput,
				collection.RowsRead,
				collection.Len(),
				collection.RowsSkipped,
			)
		}

		server := newHTTPServer(session, *cfg, port)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		if cfg.Serve.OpenBrowser && !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (overrides serve.port)")
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "", "CSV file to load before serving")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServePort(configured, flagValue int, flagChanged bool) int {
	if flagChanged {
		return flagValue
	}
	return configured
}

// newHTTPServer binds the directory page to the loopback interface only.
func newHTTPServer(session *directory.Session, cfg config.Config, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           web.NewServer(session, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
