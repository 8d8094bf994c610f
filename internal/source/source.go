// Package source reads report rows from the external relational data
// source. The orchestrator only sees the RowSource interface; the Postgres
// implementation and its query construction live here.
package source

import (
	"context"

	"github.com/sells-group/bureau-etl/internal/model"
)

// RowSource is the paginated row iterator the orchestrator consumes. It is
// not safe for concurrent use; the orchestrator reads it sequentially.
type RowSource interface {
	// Count estimates the total row count for progress math.
	Count(ctx context.Context) (int64, error)

	// Page returns up to limit rows starting at offset, ordered by the
	// primary column so paging is stable.
	Page(ctx context.Context, offset, limit int) ([]model.SourceRow, error)

	Close()
}
