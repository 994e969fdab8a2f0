package projections

import (
	"context"

	childStore "dojo/internal/adapters/storage/child"
	progressStore "dojo/internal/adapters/storage/progress"
	techniqueStore "dojo/internal/adapters/storage/technique"
	"dojo/internal/domain/child"
	"dojo/internal/domain/technique"
)

// ProgressReadStore combines the progress reads used by staff and parent screens.
type ProgressReadStore interface {
	ProgressTotalsStore
	ProgressDetailStore
}

// StaffProgressDeps holds dependencies for StaffProgress.
type StaffProgressDeps struct {
	Children   ChildListStore
	Techniques TechniqueListStore
	Progress   ProgressReadStore
}

// StaffProgressResult feeds the staff progress screen.
type StaffProgressResult struct {
	Children   []child.Child
	Techniques []technique.Technique // active only; the assign form offers nothing else
	Summary    []ChildProgress
	Detail     map[string][]progressStore.Detail
}

// QueryStaffProgress assembles the progress screen for employees and managers.
// PRE: caller is staff
// POST: Detail has a key for every child in Children
func QueryStaffProgress(ctx context.Context, deps StaffProgressDeps) (StaffProgressResult, error) {
	children, err := deps.Children.List(ctx, childStore.ListFilter{})
	if err != nil {
		return StaffProgressResult{}, err
	}
	techniques, err := deps.Techniques.List(ctx, techniqueStore.ListFilter{ActiveOnly: true})
	if err != nil {
		return StaffProgressResult{}, err
	}
	summary, err := QueryProgressSummary(ctx, ProgressSummaryQuery{}, ProgressSummaryDeps{Progress: deps.Progress})
	if err != nil {
		return StaffProgressResult{}, err
	}
	detail, err := QueryProgressDetail(ctx, ProgressDetailQuery{ChildIDs: childIDs(children)}, ProgressDetailDeps{Progress: deps.Progress})
	if err != nil {
		return StaffProgressResult{}, err
	}

	return StaffProgressResult{
		Children:   children,
		Techniques: techniques,
		Summary:    summary,
		Detail:     detail,
	}, nil
}

func childIDs(children []child.Child) []string {
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids
}
