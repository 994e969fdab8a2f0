package projections

import (
	"context"
	"errors"
	"sort"
	"time"

	childStore "dojo/internal/adapters/storage/child"
	childclassStore "dojo/internal/adapters/storage/childclass"
	parentnoteStore "dojo/internal/adapters/storage/parentnote"
	progressStore "dojo/internal/adapters/storage/progress"
	requestStore "dojo/internal/adapters/storage/request"
	shiftStore "dojo/internal/adapters/storage/shift"
	techniqueStore "dojo/internal/adapters/storage/technique"
	"dojo/internal/domain/account"
	"dojo/internal/domain/child"
	"dojo/internal/domain/technique"
)

var (
	testToday    = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	errStoreDown = errors.New("store down")
)

// mockProgressStore implements ProgressReadStore for testing.
type mockProgressStore struct {
	totals       []progressStore.ChildTotals
	details      []progressStore.Detail
	err          error
	totalsFilter progressStore.TotalsFilter
	detailCalls  int
}

// Totals implements ProgressTotalsStore.
// PRE: none
// POST: returns the configured totals
func (m *mockProgressStore) Totals(_ context.Context, filter progressStore.TotalsFilter) ([]progressStore.ChildTotals, error) {
	m.totalsFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.totals, nil
}

// ListDetails implements ProgressDetailStore.
// PRE: none
// POST: returns configured details for the requested children
func (m *mockProgressStore) ListDetails(_ context.Context, childIDs []string) ([]progressStore.Detail, error) {
	m.detailCalls++
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[string]bool, len(childIDs))
	for _, id := range childIDs {
		want[id] = true
	}
	var out []progressStore.Detail
	for _, d := range m.details {
		if want[d.ChildID] {
			out = append(out, d)
		}
	}
	return out, nil
}

// mockShiftStore implements ShiftListStore for testing.
type mockShiftStore struct {
	shifts []shiftStore.Listing
	err    error
	filter shiftStore.ListFilter
}

// List implements ShiftListStore.
// PRE: none
// POST: returns shifts matching the filter's employee and date bounds
func (m *mockShiftStore) List(_ context.Context, filter shiftStore.ListFilter) ([]shiftStore.Listing, error) {
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []shiftStore.Listing
	for _, s := range m.shifts {
		if filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.From != "" && s.Date < filter.From {
			continue
		}
		if filter.To != "" && s.Date > filter.To {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// mockRequestStore implements RequestListStore for testing.
type mockRequestStore struct {
	requests []requestStore.Listing
	filters  []requestStore.ListFilter
}

// List implements RequestListStore.
// PRE: none
// POST: returns matching requests; pending oldest first, others newest first
func (m *mockRequestStore) List(_ context.Context, filter requestStore.ListFilter) ([]requestStore.Listing, error) {
	m.filters = append(m.filters, filter)
	var out []requestStore.Listing
	for _, r := range m.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && r.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.Status == "pending" {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// mockUserStore implements UserListStore for testing.
type mockUserStore struct {
	users []account.User
}

// ListByRole implements UserListStore.
// PRE: none
// POST: returns users with the role
func (m *mockUserStore) ListByRole(_ context.Context, role string) ([]account.User, error) {
	var out []account.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockChildStore implements ChildListStore for testing.
type mockChildStore struct {
	children []child.Child
	err      error
}

// List implements ChildListStore.
// PRE: none
// POST: returns children of the filter's parent, or all
func (m *mockChildStore) List(_ context.Context, filter childStore.ListFilter) ([]child.Child, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []child.Child
	for _, c := range m.children {
		if filter.ParentID == "" || c.ParentUserID == filter.ParentID {
			out = append(out, c)
		}
	}
	return out, nil
}

// mockTechniqueStore implements TechniqueListStore for testing.
type mockTechniqueStore struct {
	techniques []technique.Technique
}

// List implements TechniqueListStore.
// PRE: none
// POST: returns techniques, active only when requested
func (m *mockTechniqueStore) List(_ context.Context, filter techniqueStore.ListFilter) ([]technique.Technique, error) {
	var out []technique.Technique
	for _, t := range m.techniques {
		if filter.ActiveOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// mockNoteStore implements NoteListStore for testing.
type mockNoteStore struct {
	notes []parentnoteStore.Listing
	calls int
}

// ListForChildren implements NoteListStore.
func (m *mockNoteStore) ListForChildren(_ context.Context, childIDs []string) ([]parentnoteStore.Listing, error) {
	m.calls++
	want := make(map[string]bool, len(childIDs))
	for _, id := range childIDs {
		want[id] = true
	}
	var out []parentnoteStore.Listing
	for _, n := range m.notes {
		if want[n.ChildID] {
			out = append(out, n)
		}
	}
	return out, nil
}

// mockClassStore implements ClassListStore for testing.
type mockClassStore struct {
	classes []childclassStore.Listing
	filter  childclassStore.ListFilter
	calls   int
}

// ListForChildren implements ClassListStore.
func (m *mockClassStore) ListForChildren(_ context.Context, filter childclassStore.ListFilter) ([]childclassStore.Listing, error) {
	m.calls++
	m.filter = filter
	want := make(map[string]bool, len(filter.ChildIDs))
	for _, id := range filter.ChildIDs {
		want[id] = true
	}
	var out []childclassStore.Listing
	for _, c := range m.classes {
		if want[c.ChildID] && c.Date >= filter.From && c.Date <= filter.To {
			out = append(out, c)
		}
	}
	return out, nil
}
