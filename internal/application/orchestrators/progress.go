package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/domain/child"
	"dojo/internal/domain/progress"
	"dojo/internal/domain/technique"
)

// ChildStoreForAssign defines the child lookup needed by AssignTechnique.
type ChildStoreForAssign interface {
	GetByID(ctx context.Context, id string) (child.Child, error)
}

// TechniqueStoreForAssign defines the technique lookup needed by AssignTechnique.
type TechniqueStoreForAssign interface {
	GetByID(ctx context.Context, id string) (technique.Technique, error)
}

// ProgressStoreForAssign defines the progress store interface needed by AssignTechnique.
type ProgressStoreForAssign interface {
	Create(ctx context.Context, r progress.Record) error
}

// AssignTechniqueInput carries input for recording a technique against a child.
type AssignTechniqueInput struct {
	ChildID     string
	TechniqueID string
	AssignedBy  string
	Completed   bool
	Notes       string
}

// AssignTechniqueDeps holds dependencies for AssignTechnique.
type AssignTechniqueDeps struct {
	Children   ChildStoreForAssign
	Techniques TechniqueStoreForAssign
	Progress   ProgressStoreForAssign
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAssignTechnique appends a progress record.
// PRE: AssignedBy is a staff user
// POST: New record persisted; CompletedAt set only when Completed
// INVARIANT: inactive techniques are never newly assigned
func ExecuteAssignTechnique(ctx context.Context, input AssignTechniqueInput, deps AssignTechniqueDeps) (progress.Record, error) {
	if input.ChildID == "" || input.TechniqueID == "" {
		return progress.Record{}, technique.ErrInactive
	}
	if _, err := deps.Children.GetByID(ctx, input.ChildID); err != nil {
		return progress.Record{}, notFoundAs(err, technique.ErrInactive)
	}
	t, err := deps.Techniques.GetByID(ctx, input.TechniqueID)
	if err != nil {
		return progress.Record{}, notFoundAs(err, technique.ErrInactive)
	}
	if !t.Assignable() {
		return progress.Record{}, technique.ErrInactive
	}

	now := deps.Now()
	r := progress.Record{
		ID:          deps.GenerateID(),
		ChildID:     input.ChildID,
		TechniqueID: input.TechniqueID,
		AssignedBy:  input.AssignedBy,
		AssignedAt:  now,
		Notes:       strings.TrimSpace(input.Notes),
	}
	r.SetCompleted(input.Completed, now)
	if err := r.Validate(); err != nil {
		return progress.Record{}, err
	}
	if err := deps.Progress.Create(ctx, r); err != nil {
		return progress.Record{}, err
	}

	slog.Info("progress_event", "event", "technique_assigned", "progress_id", r.ID, "child_id", r.ChildID, "technique_id", r.TechniqueID, "completed", r.Completed)
	return r, nil
}

// ProgressStoreForToggle defines the store interface needed by ToggleProgress.
type ProgressStoreForToggle interface {
	GetByID(ctx context.Context, id string) (progress.Record, error)
	Update(ctx context.Context, r progress.Record) error
}

// ToggleProgressDeps holds dependencies for ToggleProgress.
type ToggleProgressDeps struct {
	InTx func(ctx context.Context, fn func(ProgressStoreForToggle) error) error
	Now  func() time.Time
}

// ExecuteToggleProgress flips a record's completion state.
// PRE: caller is a staff user
// POST: Completed inverted; CompletedAt is now when completed, cleared otherwise
func ExecuteToggleProgress(ctx context.Context, id string, deps ToggleProgressDeps) (progress.Record, error) {
	var r progress.Record
	err := deps.InTx(ctx, func(store ProgressStoreForToggle) error {
		var err error
		r, err = store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		r.Toggle(deps.Now())
		return store.Update(ctx, r)
	})
	if err != nil {
		return progress.Record{}, err
	}

	slog.Info("progress_event", "event", "progress_toggled", "progress_id", r.ID, "completed", r.Completed)
	return r, nil
}
