package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uiprobe/internal/di"
	"uiprobe/internal/infrastructure/fixture"
)

func main() {
	root := &cobra.Command{
		Use:          "uiprobe",
		Short:        "Drives the practice target through the UI driver abstraction",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		baseURL string
		debug   bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario suite against the target",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := di.NewContainer(di.Options{
				BaseURL: baseURL,
				Debug:   debug,
				Console: true,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			report, err := container.Runner.Run(ctx, container.Suite)
			if err != nil {
				return err
			}

			for _, res := range report.Results {
				status := "PASS"
				if !res.Passed {
					status = "FAIL"
				}
				fmt.Printf("%-5s %-25s %8s  attempts=%d\n",
					status, res.Name, res.Duration.Round(time.Millisecond), res.Attempts)
				if res.Err != nil {
					fmt.Printf("      %v\n", res.Err)
				}
			}
			if failed := report.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "target base address (overrides UIPROBE_BASE_URL)")
	cmd.Flags().BoolVar(&debug, "debug", false, "debug logging")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr        string
		fixturesDir string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in practice site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: addr, Handler: fixture.New(fixture.Options{FixturesDir: fixturesDir})}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			fmt.Printf("practice site listening on %s\n", addr)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&fixturesDir, "fixtures", "", "extra downloadable fixtures directory")
	return cmd
}
