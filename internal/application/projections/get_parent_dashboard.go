package projections

import (
	"context"
	"time"

	childStore "dojo/internal/adapters/storage/child"
	childclassStore "dojo/internal/adapters/storage/childclass"
	parentnoteStore "dojo/internal/adapters/storage/parentnote"
	progressStore "dojo/internal/adapters/storage/progress"
	"dojo/internal/domain/calendar"
	"dojo/internal/domain/child"
)

// NoteListStore defines the parent note store interface needed by ParentDashboard.
type NoteListStore interface {
	ListForChildren(ctx context.Context, childIDs []string) ([]parentnoteStore.Listing, error)
}

// ClassListStore defines the child class store interface needed by ParentDashboard.
type ClassListStore interface {
	ListForChildren(ctx context.Context, filter childclassStore.ListFilter) ([]childclassStore.Listing, error)
}

// ParentDashboardQuery carries input for the parent dashboard.
type ParentDashboardQuery struct {
	ParentID string
	Start    time.Time // first day of the class calendar
}

// ParentDashboardDeps holds dependencies for ParentDashboard.
type ParentDashboardDeps struct {
	Children ChildListStore
	Progress ProgressReadStore
	Notes    NoteListStore
	Classes  ClassListStore
}

// ParentDashboardResult is a parent's view of their own children.
type ParentDashboardResult struct {
	Children []child.Child
	Summary  []ChildProgress
	Detail   map[string][]progressStore.Detail
	Notes    map[string][]parentnoteStore.Listing // newest first per child
	Calendar calendar.TwoWeeks[childclassStore.Listing]
}

// QueryParentDashboard assembles the parent dashboard.
// PRE: ParentID is non-empty
// POST: nothing about children of other parents is returned;
// a parent with no children gets empty collections and an empty calendar
func QueryParentDashboard(ctx context.Context, query ParentDashboardQuery, deps ParentDashboardDeps) (ParentDashboardResult, error) {
	children, err := deps.Children.List(ctx, childStore.ListFilter{ParentID: query.ParentID})
	if err != nil {
		return ParentDashboardResult{}, err
	}
	ids := childIDs(children)

	summary, err := QueryProgressSummary(ctx, ProgressSummaryQuery{ParentID: query.ParentID}, ProgressSummaryDeps{Progress: deps.Progress})
	if err != nil {
		return ParentDashboardResult{}, err
	}
	detail, err := QueryProgressDetail(ctx, ProgressDetailQuery{ChildIDs: ids}, ProgressDetailDeps{Progress: deps.Progress})
	if err != nil {
		return ParentDashboardResult{}, err
	}

	notes := make(map[string][]parentnoteStore.Listing, len(ids))
	var classes []childclassStore.Listing
	start := calendar.DayStart(query.Start)
	if len(ids) > 0 {
		listed, err := deps.Notes.ListForChildren(ctx, ids)
		if err != nil {
			return ParentDashboardResult{}, err
		}
		for _, n := range listed {
			notes[n.ChildID] = append(notes[n.ChildID], n)
		}

		classes, err = deps.Classes.ListForChildren(ctx, childclassStore.ListFilter{
			ChildIDs: ids,
			From:     start.Format(calendar.DateLayout),
			To:       calendar.WindowEnd(start).Format(calendar.DateLayout),
		})
		if err != nil {
			return ParentDashboardResult{}, err
		}
	}

	return ParentDashboardResult{
		Children: children,
		Summary:  summary,
		Detail:   detail,
		Notes:    notes,
		Calendar: calendar.BuildTwoWeeks(start, classes, func(c childclassStore.Listing) string { return c.Date }),
	}, nil
}
