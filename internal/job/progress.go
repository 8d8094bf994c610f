package job

import (
	"fmt"

	"github.com/sells-group/bureau-etl/internal/model"
)

// Percentage bands per stage. Counting owns 0-10, extraction 10-70, merge
// 70-85, cleaning 85-95, workbook writing 95-100.
const (
	extractionBase = 10
	extractionSpan = 60
)

// report pushes a progress update, clamping the percentage so it never
// regresses within a job.
func (o *Orchestrator) report(stage model.JobStatus, status string, percent int) {
	if percent < o.lastPercent {
		percent = o.lastPercent
	}
	o.lastPercent = percent
	if o.opts.Progress != nil {
		o.opts.Progress(model.Progress{Stage: stage, Status: status, Percent: percent})
	}
}

// extractionPercent maps a completed batch index into the extraction band.
// In unknown-total mode the denominator is unavailable and the band floor
// is reported instead.
func extractionPercent(batch, numBatches int) int {
	if numBatches <= 0 {
		return extractionBase
	}
	return extractionBase + (batch+1)*extractionSpan/numBatches
}

func batchStatus(batch, numBatches int) string {
	if numBatches <= 0 {
		return fmt.Sprintf("Processing batch %d...", batch+1)
	}
	return fmt.Sprintf("Processing batch %d/%d...", batch+1, numBatches)
}
