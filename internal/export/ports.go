// Package export defines the outbound port for spreadsheet exports of
// monthly summaries.
package export

import (
	"context"

	"pennywise/internal/core"
)

// SummaryAppender writes a monthly summary row to an external sheet.
type SummaryAppender interface {
	AppendSummary(ctx context.Context, userID string, summary core.MonthlySummary) (rowRef string, err error)
}
