package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
	"dojo/internal/domain/child"
	"dojo/internal/domain/childclass"
	"dojo/internal/domain/parentnote"
)

// ErrInvalidParent is returned when a child is linked to a non-parent account.
var ErrInvalidParent = apperr.Validation("Selected parent account is not valid.")

// UserStoreForChild defines the user lookup needed by AddChild.
type UserStoreForChild interface {
	GetByID(ctx context.Context, id string) (account.User, error)
}

// ChildStoreForAdd defines the child store interface needed by AddChild.
type ChildStoreForAdd interface {
	Create(ctx context.Context, c child.Child) error
}

// AddChildInput carries input for adding a child.
type AddChildInput struct {
	Name         string
	ParentUserID string // optional
}

// AddChildDeps holds dependencies for AddChild.
type AddChildDeps struct {
	Users      UserStoreForChild
	Children   ChildStoreForAdd
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddChild adds a child, optionally linked to a parent account.
// PRE: caller is a staff user
// POST: Child persisted
// INVARIANT: a linked parent has the parent role
func ExecuteAddChild(ctx context.Context, input AddChildInput, deps AddChildDeps) (child.Child, error) {
	c := child.Child{
		ID:           deps.GenerateID(),
		Name:         strings.TrimSpace(input.Name),
		ParentUserID: input.ParentUserID,
		CreatedAt:    deps.Now(),
	}
	if err := c.Validate(); err != nil {
		return child.Child{}, err
	}
	if c.ParentUserID != "" {
		parent, err := deps.Users.GetByID(ctx, c.ParentUserID)
		if err != nil {
			return child.Child{}, notFoundAs(err, ErrInvalidParent)
		}
		if parent.Role != account.RoleParent {
			return child.Child{}, ErrInvalidParent
		}
	}
	if err := deps.Children.Create(ctx, c); err != nil {
		return child.Child{}, err
	}

	slog.Info("child_event", "event", "child_added", "child_id", c.ID, "has_parent", c.ParentUserID != "")
	return c, nil
}

// ChildStoreForLookup defines the child lookup used by notes and classes.
type ChildStoreForLookup interface {
	GetByID(ctx context.Context, id string) (child.Child, error)
}

// NoteStoreForAdd defines the note store interface needed by AddParentNote.
type NoteStoreForAdd interface {
	Create(ctx context.Context, n parentnote.Note) error
}

// AddParentNoteInput carries input for a note to a child's parent.
type AddParentNoteInput struct {
	ChildID  string
	AuthorID string
	Text     string
}

// AddParentNoteDeps holds dependencies for AddParentNote.
type AddParentNoteDeps struct {
	Children   ChildStoreForLookup
	Notes      NoteStoreForAdd
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddParentNote appends a note for a child.
// PRE: caller is a staff user
// POST: Note persisted; existing notes are untouched
func ExecuteAddParentNote(ctx context.Context, input AddParentNoteInput, deps AddParentNoteDeps) (parentnote.Note, error) {
	n := parentnote.Note{
		ID:        deps.GenerateID(),
		ChildID:   input.ChildID,
		AuthorID:  input.AuthorID,
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: deps.Now(),
	}
	if err := n.Validate(); err != nil {
		return parentnote.Note{}, err
	}
	if _, err := deps.Children.GetByID(ctx, n.ChildID); err != nil {
		return parentnote.Note{}, err
	}
	if err := deps.Notes.Create(ctx, n); err != nil {
		return parentnote.Note{}, err
	}

	slog.Info("child_event", "event", "parent_note_added", "note_id", n.ID, "child_id", n.ChildID, "author_id", n.AuthorID)
	return n, nil
}

// ClassStoreForAdd defines the class store interface needed by AddChildClass.
type ClassStoreForAdd interface {
	Create(ctx context.Context, c childclass.Class) error
}

// AddChildClassInput carries input for scheduling a child's class.
type AddChildClassInput struct {
	ChildID        string
	Date           string
	StartTime      string
	EndTime        string
	Title          string
	InstructorName string
}

// AddChildClassDeps holds dependencies for AddChildClass.
type AddChildClassDeps struct {
	Children   ChildStoreForLookup
	Classes    ClassStoreForAdd
	GenerateID func() string
}

// ExecuteAddChildClass schedules a class on a child's calendar.
// PRE: caller is a manager
// POST: Class persisted
func ExecuteAddChildClass(ctx context.Context, input AddChildClassInput, deps AddChildClassDeps) (childclass.Class, error) {
	c := childclass.Class{
		ID:             deps.GenerateID(),
		ChildID:        input.ChildID,
		Date:           strings.TrimSpace(input.Date),
		StartTime:      strings.TrimSpace(input.StartTime),
		EndTime:        strings.TrimSpace(input.EndTime),
		Title:          strings.TrimSpace(input.Title),
		InstructorName: strings.TrimSpace(input.InstructorName),
	}
	if err := c.Validate(); err != nil {
		return childclass.Class{}, err
	}
	if _, err := deps.Children.GetByID(ctx, c.ChildID); err != nil {
		return childclass.Class{}, err
	}
	if err := deps.Classes.Create(ctx, c); err != nil {
		return childclass.Class{}, err
	}

	slog.Info("child_event", "event", "child_class_added", "class_id", c.ID, "child_id", c.ChildID, "date", c.Date)
	return c, nil
}
