package qbank

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Creator stores records on the question bank backend.
type Creator interface {
	CreateQuestion(ctx context.Context, w Wire) (string, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type Status string

const (
	StatusCreated        Status = "created"
	StatusFailed         Status = "failed"
	StatusSkipped        Status = "skipped"
	StatusRolledBack     Status = "rolled back"
	StatusRollbackFailed Status = "rollback failed"
)

// Result is the outcome of one record of a submitted batch.
type Result struct {
	Position int    `json:"position"` // 1-based
	Ref      string `json:"ref"`
	Status   Status `json:"status"`
	RemoteID string `json:"remoteId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report lists the outcome of every record of a batch.
type Report struct {
	Committed bool     `json:"committed"`
	Results   []Result `json:"results"`
}

func (r *Report) Summary() string {
	if r.Committed {
		return fmt.Sprintf("%d question(s) created", len(r.Results))
	}
	counts := map[Status]int{}
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return fmt.Sprintf("batch rejected: %d failed, %d rolled back, %d rollback failed, %d skipped",
		counts[StatusFailed], counts[StatusRolledBack], counts[StatusRollbackFailed], counts[StatusSkipped])
}

// Submit validates the batch, then creates its records one by one.
// When a record cannot be created, the records already created by this call are deleted again
// (best effort) and the remaining ones are skipped; the report tells which.
// The returned error is the validation error or the cause of the failed creation.
// On success, record ids are promoted to the created server ids.
func (b *Batch) Submit(ctx context.Context, creator Creator) (*Report, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Results: make([]Result, len(b.Records))}
	for i, rec := range b.Records {
		report.Results[i] = Result{Position: i + 1, Ref: rec.Question.Header().ID.String(), Status: StatusSkipped}
	}

	for i, rec := range b.Records {
		err := ctx.Err()
		var id string
		if err == nil {
			id, err = creator.CreateQuestion(ctx, rec.ToWire())
		}
		if err != nil {
			report.Results[i].Status = StatusFailed
			report.Results[i].Error = err.Error()
			b.rollback(ctx, creator, report, i)
			return report, errors.Wrapf(err, "creating question %d", i+1)
		}
		report.Results[i].Status = StatusCreated
		report.Results[i].RemoteID = id
	}

	for i, rec := range b.Records {
		h := rec.Question.Header()
		h.ID = h.ID.Persist(report.Results[i].RemoteID)
	}
	report.Committed = true
	return report, nil
}

// rollback deletes, most recent first, the records created before position failed.
func (b *Batch) rollback(ctx context.Context, creator Creator, report *Report, failed int) {
	// deletions still run when ctx is what made the creation fail
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		res := &report.Results[i]
		if err := creator.DeleteQuestion(ctx, res.RemoteID); err != nil {
			res.Status = StatusRollbackFailed
			res.Error = err.Error()
			continue
		}
		res.Status = StatusRolledBack
	}
}
