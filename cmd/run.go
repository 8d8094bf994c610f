package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/bureau-etl/internal/checkpoint"
	"github.com/sells-group/bureau-etl/internal/cleaner"
	"github.com/sells-group/bureau-etl/internal/config"
	"github.com/sells-group/bureau-etl/internal/enrich"
	"github.com/sells-group/bureau-etl/internal/fetcher"
	"github.com/sells-group/bureau-etl/internal/job"
	"github.com/sells-group/bureau-etl/internal/model"
	"github.com/sells-group/bureau-etl/internal/sink"
	"github.com/sells-group/bureau-etl/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ETL job from the configured source",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orch, src, ckpt, err := buildJob(ctx, cfg, uuid.NewString(), func(p model.Progress) {
			zap.L().Info("progress", zap.Int("percent", p.Percent), zap.String("status", p.Status))
		})
		if err != nil {
			return err
		}
		defer src.Close()
		defer ckpt.Close()

		result := orch.Run(ctx)
		zap.L().Info("job result",
			zap.String("status", string(result.Status)),
			zap.Int("total_fetched", result.TotalFetched),
			zap.Int("total_rows", result.TotalRows),
			zap.Int("employees_found", result.EmployeesFound),
			zap.Strings("output_files", result.OutputFiles),
		)
		if result.Status == model.JobStatusFailed {
			return eris.New(result.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// buildJob wires one orchestrator from config: enrichment masters, the
// Postgres row source, the payload fetcher, and the checkpoint store. The
// caller owns closing the returned source and checkpoint store.
func buildJob(ctx context.Context, cfg *config.Config, jobID string, progress func(model.Progress)) (*job.Orchestrator, source.RowSource, *checkpoint.Store, error) {
	store := enrich.Load(cfg.Job.DataDir)
	zap.L().Info("loaded enrichment masters",
		zap.Int("pincodes", store.PincodeCount()),
		zap.Int("employees", store.EmployeeCount()),
	)

	src, err := source.NewPostgres(ctx, cfg.Source.DatabaseURL, cfg.Source.Query)
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "connect source")
	}

	ckpt, err := checkpoint.Open(cfg.Job.CheckpointPath)
	if err != nil {
		src.Close()
		return nil, nil, nil, eris.Wrap(err, "open checkpoint store")
	}

	fetch := fetcher.New(fetcher.Options{
		Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		RateLimit: rate.Limit(cfg.Fetch.RateLimit),
	})

	orch := job.New(job.Options{
		JobID:          jobID,
		SourceDB:       cfg.Source.Name,
		PageSize:       cfg.Job.PageSize,
		UseRemoteFetch: cfg.Job.UseRemoteFetch,
		BaseURL:        cfg.Job.BaseURL,
		DedupMode:      cleaner.Mode(cfg.Job.DedupMode),
		Progress:       progress,
	}, store, src, fetch, ckpt, sink.Writer{Dir: cfg.Job.OutputDir})

	return orch, src, ckpt, nil
}
