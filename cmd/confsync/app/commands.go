package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/confsync/confsync"
	"github.com/confsync/confsync/internal/server"
)

var titleCaser = cases.Title(language.English)

// CreateInitCommand creates the init command.
func (a *App) CreateInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		GroupID: "data",
		Short:   "Seed the store from a combined conference CSV",
		Long: `Init reads a combined CSV file holding the source-year records
followed by a bare-year marker row and the target-year section. It
writes the source partition as-is and derives a blank target-year
template from it, keeping any values the target section or a previous
run already filled in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.Store(ctx)
			if err != nil {
				return err
			}

			cfg := a.config
			if err := confsync.Initialize(ctx, store, cfg.Input, cfg.SourceYear, cfg.TargetYear); err != nil {
				return err
			}

			cmd.Printf("Initialized %s store from %s (%d -> %d)\n", cfg.Store, cfg.Input, cfg.SourceYear, cfg.TargetYear)
			return nil
		},
	}

	cmd.Flags().StringVar(&a.config.Input, "input", a.config.Input, "combined seed CSV file")
	cmd.Flags().IntVar(&a.config.SourceYear, "source-year", a.config.SourceYear, "year of the existing records")

	return cmd
}

// CreateRunCommand creates the run command.
func (a *App) CreateRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Run one refresh cycle now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			summary, err := svc.RunCycle(ctx)
			if err != nil {
				return err
			}

			if a.config.Format == "json" {
				return printJSON(cmd, summary)
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&a.config.BatchSize, "batch-size", a.config.BatchSize, "max records to enrich this cycle (0 = all)")

	return cmd
}

// CreateStartCommand creates the start command.
func (a *App) CreateStartCommand() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:     "start",
		GroupID: "core",
		Short:   "Run the refresh scheduler in the foreground",
		Long: `Start runs refresh cycles on the configured interval until
interrupted. The first cycle runs immediately; use --now=false to wait a
full interval instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			if err := svc.SchedulerOn(); err != nil {
				return err
			}
			if runNow {
				svc.Trigger()
			}

			a.logger.Info().
				Dur("interval", a.config.Interval).
				Msg("Scheduler running, press Ctrl+C to stop")

			<-ctx.Done()
			return svc.SchedulerOff()
		},
	}

	cmd.Flags().BoolVar(&runNow, "now", true, "run a cycle immediately on start")

	return cmd
}

// CreateServeCommand creates the serve command.
func (a *App) CreateServeCommand() *cobra.Command {
	var noScheduler bool
	var corsEnabled bool

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the HTTP API (and run the scheduler)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			if !noScheduler {
				if err := svc.SchedulerOn(); err != nil {
					return err
				}
				defer func() { _ = svc.SchedulerOff() }()
			}

			cfg := server.DefaultConfig()
			cfg.Host = a.config.Host
			cfg.Port = a.config.Port
			cfg.CORSEnabled = corsEnabled

			srv := server.New(svc, a.logger, cfg)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&a.config.Host, "host", a.config.Host, "listen host")
	cmd.Flags().IntVar(&a.config.Port, "port", a.config.Port, "listen port")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve the API without the interval scheduler")
	cmd.Flags().BoolVar(&corsEnabled, "cors", false, "enable CORS for browser clients")

	return cmd
}

// CreateStatusCommand creates the status command.
func (a *App) CreateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "core",
		Short:   "Show dataset completeness and scheduler state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			st := svc.Status()
			snapshot, err := svc.Export(ctx)
			if err != nil {
				return err
			}

			if a.config.Format == "json" {
				return printJSON(cmd, map[string]any{
					"scheduler": st,
					"dataset": map[string]any{
						"year":     snapshot.Year,
						"total":    snapshot.Total,
						"complete": snapshot.Complete,
					},
				})
			}

			printStatus(cmd, st)
			return printDataset(ctx, cmd, svc, snapshot)
		},
	}
}

// CreatePreviewCommand creates the preview command.
func (a *App) CreatePreviewCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "preview",
		GroupID: "data",
		Short:   "List the records the next cycle would enrich",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			candidates, err := svc.Preview(ctx, limit)
			if err != nil {
				return err
			}

			if a.config.Format == "json" {
				return printJSON(cmd, candidates)
			}

			if len(candidates) == 0 {
				cmd.Println("All records are complete.")
				return nil
			}
			cmd.Printf("%-40s %s\n", "Conference", "Missing Fields")
			for _, cand := range candidates {
				cmd.Printf("%-40s %s\n", cand.Name, strings.Join(cand.Missing, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max candidates to list (0 = all)")

	return cmd
}

// CreateExportCommand creates the export command.
func (a *App) CreateExportCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "data",
		Short:   "Export the target-year dataset as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			snapshot, err := svc.Export(ctx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0o644); err != nil {
					return err
				}
				cmd.Printf("Exported %d conferences to %s\n", snapshot.Total, outputFile)
				return nil
			}

			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFile, "output-file", "", "write the snapshot to a file instead of stdout")

	return cmd
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("confsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// printSummary prints a cycle summary as a small table.
func printSummary(cmd *cobra.Command, s *confsync.Summary) {
	cmd.Printf("%s: %d processed, %d updated, %d failed in %s\n",
		titleCaser.String("cycle finished"),
		s.Processed, s.Updated, s.Failed,
		s.Duration.Round(time.Millisecond))
	if s.Error != "" {
		cmd.Printf("Error: %s\n", s.Error)
	}
}

// printStatus prints scheduler status as label/value rows.
func printStatus(cmd *cobra.Command, st confsync.Status) {
	state := "stopped"
	if st.Running {
		state = "running"
	}

	rows := [][2]string{
		{"scheduler", titleCaser.String(state)},
		{"interval", st.Interval.String()},
	}
	if st.NextRun != nil {
		rows = append(rows, [2]string{"next run", st.NextRun.Format(time.RFC3339)})
	}
	if st.LastRun != nil {
		rows = append(rows, [2]string{"last run", st.LastRun.StartedAt.Format(time.RFC3339)})
		rows = append(rows, [2]string{"last result", fmt.Sprintf("%d processed, %d updated, %d failed",
			st.LastRun.Processed, st.LastRun.Updated, st.LastRun.Failed)})
	}
	rows = append(rows,
		[2]string{"total processed", fmt.Sprintf("%d", st.TotalProcessed)},
		[2]string{"total updated", fmt.Sprintf("%d", st.TotalUpdated)},
		[2]string{"total failed", fmt.Sprintf("%d", st.TotalFailed)},
	)

	for _, row := range rows {
		cmd.Printf("%-16s %s\n", titleCaser.String(row[0])+":", row[1])
	}
}

// printDataset prints completeness numbers and the next few candidates.
func printDataset(ctx context.Context, cmd *cobra.Command, svc confsync.Confsync, snapshot *confsync.Snapshot) error {
	pct := 0.0
	if snapshot.Total > 0 {
		pct = float64(snapshot.Complete) / float64(snapshot.Total) * 100
	}
	cmd.Printf("%-16s %d of %d complete (%.0f%%)\n",
		titleCaser.String("dataset")+":", snapshot.Complete, snapshot.Total, pct)

	candidates, err := svc.Preview(ctx, 3)
	if err != nil {
		return err
	}
	for _, cand := range candidates {
		cmd.Printf("%-16s %s (missing: %s)\n", "", cand.Name, strings.Join(cand.Missing, ", "))
	}
	return nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
