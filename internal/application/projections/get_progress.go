package projections

import (
	"context"

	progressStore "dojo/internal/adapters/storage/progress"
	"dojo/internal/domain/grading"
	"dojo/internal/domain/progress"
)

// ProgressTotalsStore defines the store interface needed by ProgressSummary.
type ProgressTotalsStore interface {
	Totals(ctx context.Context, filter progressStore.TotalsFilter) ([]progressStore.ChildTotals, error)
}

// ProgressSummaryQuery carries input for the summary projection.
type ProgressSummaryQuery struct {
	ParentID string // optional: only this parent's children
}

// ProgressSummaryDeps holds dependencies for ProgressSummary.
type ProgressSummaryDeps struct {
	Progress ProgressTotalsStore
}

// ChildProgress is one child's progress totals and derived belt.
type ChildProgress struct {
	ChildID   string
	ChildName string
	Total     int
	Completed int
	Percent   int
	Belt      grading.BeltStanding
}

// QueryProgressSummary returns per-child totals ordered by child name.
// PRE: none
// POST: one row per child in scope; Percent is 0 when Total is 0
func QueryProgressSummary(ctx context.Context, query ProgressSummaryQuery, deps ProgressSummaryDeps) ([]ChildProgress, error) {
	totals, err := deps.Progress.Totals(ctx, progressStore.TotalsFilter{ParentID: query.ParentID})
	if err != nil {
		return nil, err
	}
	out := make([]ChildProgress, 0, len(totals))
	for _, t := range totals {
		out = append(out, ChildProgress{
			ChildID:   t.ChildID,
			ChildName: t.ChildName,
			Total:     t.Total,
			Completed: t.Completed,
			Percent:   progress.Percent(t.Completed, t.Total),
			Belt:      grading.Standing(t.Completed),
		})
	}
	return out, nil
}

// ProgressDetailStore defines the store interface needed by ProgressDetail.
type ProgressDetailStore interface {
	ListDetails(ctx context.Context, childIDs []string) ([]progressStore.Detail, error)
}

// ProgressDetailQuery carries input for the detail projection.
type ProgressDetailQuery struct {
	ChildIDs []string
}

// ProgressDetailDeps holds dependencies for ProgressDetail.
type ProgressDetailDeps struct {
	Progress ProgressDetailStore
}

// QueryProgressDetail groups progress records by child, newest assignment first.
// PRE: none
// POST: every requested id is a key (possibly with an empty slice);
// an empty request returns an empty map without touching the store
func QueryProgressDetail(ctx context.Context, query ProgressDetailQuery, deps ProgressDetailDeps) (map[string][]progressStore.Detail, error) {
	out := make(map[string][]progressStore.Detail, len(query.ChildIDs))
	if len(query.ChildIDs) == 0 {
		return out, nil
	}
	for _, id := range query.ChildIDs {
		out[id] = []progressStore.Detail{}
	}

	details, err := deps.Progress.ListDetails(ctx, query.ChildIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		out[d.ChildID] = append(out[d.ChildID], d)
	}
	return out, nil
}
