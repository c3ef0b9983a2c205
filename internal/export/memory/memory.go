// Package memory is an in-memory summary appender for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pennywise/internal/core"
	"pennywise/internal/export"
)

type Row struct {
	UserID  string
	Summary core.MonthlySummary
}

type Appender struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendSummary(_ context.Context, userID string, summary core.MonthlySummary) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, Row{UserID: userID, Summary: summary})
	return fmt.Sprintf("memory!A%d", len(a.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Row, len(a.rows))
	copy(out, a.rows)
	return out
}

var _ export.SummaryAppender = (*Appender)(nil)
