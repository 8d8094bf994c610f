// Package job drives a full ETL run: page through the row source,
// optionally resolve remote payloads, extract and enrich records, checkpoint
// each batch, then merge, clean, and render workbooks. One job is one
// long-lived worker; batches are strictly sequential, with concurrency only
// inside a batch's remote fetch phase.
package job

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bureau-etl/internal/bureau"
	"github.com/sells-group/bureau-etl/internal/checkpoint"
	"github.com/sells-group/bureau-etl/internal/cleaner"
	"github.com/sells-group/bureau-etl/internal/enrich"
	"github.com/sells-group/bureau-etl/internal/fetcher"
	"github.com/sells-group/bureau-etl/internal/insight"
	"github.com/sells-group/bureau-etl/internal/model"
	"github.com/sells-group/bureau-etl/internal/sink"
	"github.com/sells-group/bureau-etl/internal/source"
)

// WorkbookWriter renders the final partitions. Satisfied by sink.Writer.
type WorkbookWriter interface {
	WriteClean(sourceDB string, p sink.Partition) (string, error)
	WriteExcluded(sourceDB string, p sink.Partition) (string, error)
}

// Options holds the per-job parameters supplied by the config collaborator.
type Options struct {
	JobID          string
	SourceDB       string
	PageSize       int
	UseRemoteFetch bool
	BaseURL        string
	DedupMode      cleaner.Mode

	// Progress receives a status update at every stage boundary. May be nil.
	Progress func(model.Progress)
}

// Orchestrator runs one ETL job.
type Orchestrator struct {
	opts   Options
	enrich *enrich.Store
	src    source.RowSource
	fetch  fetcher.Fetcher
	ckpt   *checkpoint.Store
	writer WorkbookWriter

	lastPercent int
}

// New assembles an orchestrator. The row source is already connected; a
// source that failed to connect never reaches here (fatal at setup).
func New(opts Options, store *enrich.Store, src source.RowSource, fetch fetcher.Fetcher, ckpt *checkpoint.Store, writer WorkbookWriter) *Orchestrator {
	if opts.PageSize <= 0 {
		opts.PageSize = 1000
	}
	return &Orchestrator{
		opts:   opts,
		enrich: store,
		src:    src,
		fetch:  fetch,
		ckpt:   ckpt,
		writer: writer,
	}
}

// Run executes the job to completion. Row and batch failures are counted
// and logged, never fatal; the returned result is Failed only for source or
// checkpoint errors that make the whole job unusable.
func (o *Orchestrator) Run(ctx context.Context) model.JobResult {
	log := zap.L().With(zap.String("job_id", o.opts.JobID))
	log.Info("job: started",
		zap.Int("page_size", o.opts.PageSize),
		zap.Bool("remote_fetch", o.opts.UseRemoteFetch),
	)

	o.report(model.JobStatusCounting, "Initializing...", 0)

	// Cancellation stops new batches but never the persistence of work
	// already done: checkpoints, the merge, and the workbooks all proceed
	// under an uncancellable context.
	persistCtx := context.WithoutCancel(ctx)

	if err := o.ckpt.Migrate(persistCtx); err != nil {
		log.Error("job: checkpoint store unusable", zap.Error(err))
		return model.JobResult{Status: model.JobStatusFailed, Error: err.Error()}
	}

	// Counting. A failed count degrades to unknown-total mode rather than
	// aborting: progress runs best-effort and paging stops at the first
	// empty page.
	o.report(model.JobStatusCounting, "Calculating workload...", 5)
	total, err := o.src.Count(ctx)
	if err != nil {
		log.Warn("job: row count failed, progress degraded", zap.Error(err))
		total = 0
	}
	numBatches := int((total + int64(o.opts.PageSize) - 1) / int64(o.opts.PageSize))
	log.Info("job: counted rows", zap.Int64("total", total), zap.Int("batches", numBatches))

	totalFetched := 0
	skippedRows := 0
	skippedBatches := 0
	cancelled := false

	for batch := 0; ; batch++ {
		if numBatches > 0 && batch >= numBatches {
			break
		}
		// Cancellation is polled between batches only; an in-flight batch
		// always drains.
		if ctx.Err() != nil {
			log.Info("job: cancellation observed", zap.Int("completed_batches", batch))
			cancelled = true
			break
		}

		rows, err := o.src.Page(ctx, batch*o.opts.PageSize, o.opts.PageSize)
		if err != nil {
			log.Warn("job: batch read failed, skipping", zap.Int("batch", batch), zap.Error(err))
			skippedBatches++
			if numBatches == 0 {
				// Unknown-total mode has no natural end; stop rather than
				// retry the same failing offset forever.
				break
			}
			continue
		}
		if len(rows) == 0 {
			break
		}
		totalFetched += len(rows)

		payloads := o.resolvePayloads(ctx, rows)

		var records model.BatchRecords
		for i, row := range rows {
			lead, loans, enqs, err := bureau.Extract(o.enrich, payloads[i], row.CustomerID)
			if err != nil {
				log.Warn("job: row extraction failed",
					zap.String("customer_id", row.CustomerID),
					zap.Error(err),
				)
				skippedRows++
				continue
			}
			if lead == nil {
				skippedRows++
				continue
			}
			stampRow(lead, loans, enqs, row, o.opts.SourceDB)
			analytics := insight.Aggregate(lead, loans)
			analytics.RecordDate = row.RecordDate
			analytics.SourceDB = o.opts.SourceDB

			records.Leads = append(records.Leads, *lead)
			records.Loans = append(records.Loans, loans...)
			records.Enquiries = append(records.Enquiries, enqs...)
			records.Analytics = append(records.Analytics, analytics)
		}

		if err := o.ckpt.SaveBatch(persistCtx, o.opts.JobID, batch, records); err != nil {
			// Losing a checkpoint silently would drop the whole batch from
			// the merge, so this one is fatal.
			log.Error("job: checkpoint write failed", zap.Int("batch", batch), zap.Error(err))
			return model.JobResult{Status: model.JobStatusFailed, Error: err.Error()}
		}

		o.report(model.JobStatusExtracting, batchStatus(batch, numBatches), extractionPercent(batch, numBatches))
	}

	// Merge all checkpointed batches.
	o.report(model.JobStatusMerging, "Merging batches...", 75)
	merged, err := o.ckpt.LoadAll(persistCtx, o.opts.JobID)
	if err != nil {
		log.Error("job: merge failed", zap.Error(err))
		return model.JobResult{Status: model.JobStatusFailed, Error: err.Error()}
	}
	if err := o.ckpt.Delete(persistCtx, o.opts.JobID); err != nil {
		log.Warn("job: checkpoint cleanup failed", zap.Error(err))
	}

	// Clean.
	o.report(model.JobStatusCleaning, "Cleaning & deduplicating...", 85)
	eng := cleaner.New(o.enrich, o.opts.DedupMode)
	clean, employees, duplicates := eng.ProcessLeads(merged.Leads)

	keepIDs := cleaner.IDs(clean)
	cleanPart := sink.Partition{
		Leads:     clean,
		Loans:     eng.CleanLoans(merged.Loans, keepIDs),
		Enquiries: eng.CleanEnquiries(merged.Enquiries, keepIDs, true),
		Analytics: eng.CleanAnalytics(merged.Analytics, keepIDs),
	}
	eng.CategoryStats(cleanPart.Loans)
	cleanPart.Tracker = eng.Tracker()

	excludedIDs := cleaner.IDs(duplicates)
	for id := range cleaner.IDs(employees) {
		excludedIDs[id] = struct{}{}
	}
	excludedPart := sink.Partition{
		Leads:     duplicates,
		Employees: employees,
		Loans:     eng.CleanLoans(merged.Loans, excludedIDs),
		Enquiries: eng.CleanEnquiries(merged.Enquiries, excludedIDs, false),
		Analytics: eng.CleanAnalytics(merged.Analytics, excludedIDs),
	}

	// Write workbooks.
	o.report(model.JobStatusWriting, "Writing workbooks...", 95)
	var outputs []string
	cleanPath, err := o.writer.WriteClean(o.opts.SourceDB, cleanPart)
	if err != nil {
		log.Error("job: write clean workbook failed", zap.Error(err))
		return model.JobResult{Status: model.JobStatusFailed, Error: err.Error()}
	}
	outputs = append(outputs, cleanPath)

	if !excludedPart.Empty() {
		excludedPath, err := o.writer.WriteExcluded(o.opts.SourceDB, excludedPart)
		if err != nil {
			log.Error("job: write excluded workbook failed", zap.Error(err))
			return model.JobResult{Status: model.JobStatusFailed, Error: err.Error()}
		}
		outputs = append(outputs, excludedPath)
	}

	status := model.JobStatusCompleted
	finalWord := "Done"
	if cancelled {
		status = model.JobStatusCancelled
		finalWord = "Cancelled"
	}
	o.report(status, finalWord, 100)
	log.Info("job: finished",
		zap.String("status", string(status)),
		zap.Int("total_fetched", totalFetched),
		zap.Int("clean_leads", len(clean)),
		zap.Int("employees", len(employees)),
		zap.Int("skipped_rows", skippedRows),
		zap.Int("skipped_batches", skippedBatches),
	)

	return model.JobResult{
		Status:         status,
		TotalFetched:   totalFetched,
		TotalRows:      len(clean),
		EmployeesFound: len(employees),
		SkippedRows:    skippedRows,
		SkippedBatches: skippedBatches,
		OutputFiles:    outputs,
	}
}

// resolvePayloads produces one payload per row in row order. In remote mode
// all fetches for the batch run concurrently, bounded by the page size, and
// the batch advances only after every fetch has resolved (success or
// sentinel). In inline mode the raw column is the payload.
func (o *Orchestrator) resolvePayloads(ctx context.Context, rows []model.SourceRow) []any {
	payloads := make([]any, len(rows))
	if !o.opts.UseRemoteFetch {
		for i, row := range rows {
			payloads[i] = row.RawData
		}
		return payloads
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(len(rows))
	for i, row := range rows {
		url := o.opts.BaseURL + strings.TrimSpace(row.RawData)
		g.Go(func() error {
			payloads[i] = o.fetch.FetchJSON(gCtx, url)
			return nil
		})
	}
	// Fetch failures become sentinel payloads, never errors.
	_ = g.Wait()
	return payloads
}

// stampRow applies DB-sourced overrides and batch provenance to a lead and
// its sub-records after extraction and before accumulation.
func stampRow(lead *model.Lead, loans []model.Loan, enqs []model.Enquiry, row model.SourceRow, sourceDB string) {
	if row.PAN != "" {
		lead.PAN = row.PAN
	}
	if row.Mobile != "" {
		lead.Mobile = row.Mobile
	}
	lead.RecordDate = row.RecordDate
	lead.SourceDB = sourceDB

	for i := range loans {
		loans[i].PAN = lead.PAN
		loans[i].Mobile = lead.Mobile
		loans[i].RecordDate = row.RecordDate
		loans[i].SourceDB = sourceDB
	}
	for i := range enqs {
		enqs[i].PAN = lead.PAN
		enqs[i].Mobile = lead.Mobile
		enqs[i].RecordDate = row.RecordDate
		enqs[i].SourceDB = sourceDB
	}
}
