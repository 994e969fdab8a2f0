package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/domain/technique"
)

// TechniqueStoreForCreate defines the store interface needed by CreateTechnique.
type TechniqueStoreForCreate interface {
	Create(ctx context.Context, t technique.Technique) error
}

// CreateTechniqueInput carries input for adding a technique.
type CreateTechniqueInput struct {
	Name        string
	Description string
	CreatedBy   string
}

// CreateTechniqueDeps holds dependencies for CreateTechnique.
type CreateTechniqueDeps struct {
	Techniques TechniqueStoreForCreate
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateTechnique adds an active technique.
// PRE: CreatedBy is a staff user
// POST: Technique persisted, or a Store error when the name is taken
func ExecuteCreateTechnique(ctx context.Context, input CreateTechniqueInput, deps CreateTechniqueDeps) (technique.Technique, error) {
	t := technique.Technique{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   deps.Now(),
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return technique.Technique{}, err
	}
	if err := deps.Techniques.Create(ctx, t); err != nil {
		return technique.Technique{}, err
	}

	slog.Info("technique_event", "event", "technique_created", "technique_id", t.ID, "name", t.Name, "by", t.CreatedBy)
	return t, nil
}

// TechniqueStoreForUpdate defines the store interface needed by UpdateTechnique.
type TechniqueStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (technique.Technique, error)
	Update(ctx context.Context, t technique.Technique) error
}

// UpdateTechniqueInput carries the editable technique fields.
type UpdateTechniqueInput struct {
	ID          string
	Name        string
	Description string
	Active      bool
}

// UpdateTechniqueDeps holds dependencies for UpdateTechnique.
type UpdateTechniqueDeps struct {
	Techniques TechniqueStoreForUpdate
}

// ExecuteUpdateTechnique edits name, description and active flag.
// PRE: caller is a manager
// POST: Technique updated; existing progress records keep referencing it
func ExecuteUpdateTechnique(ctx context.Context, input UpdateTechniqueInput, deps UpdateTechniqueDeps) (technique.Technique, error) {
	t, err := deps.Techniques.GetByID(ctx, input.ID)
	if err != nil {
		return technique.Technique{}, err
	}
	t.Name = input.Name
	t.Description = input.Description
	t.Active = input.Active
	t.Normalize()
	if err := t.Validate(); err != nil {
		return technique.Technique{}, err
	}
	if err := deps.Techniques.Update(ctx, t); err != nil {
		return technique.Technique{}, err
	}

	slog.Info("technique_event", "event", "technique_updated", "technique_id", t.ID, "active", t.Active)
	return t, nil
}

// TechniqueStoreForDelete defines the store interface needed by DeleteTechnique.
type TechniqueStoreForDelete interface {
	CountProgress(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// DeleteTechniqueDeps holds dependencies for DeleteTechnique.
type DeleteTechniqueDeps struct {
	InTx func(ctx context.Context, fn func(TechniqueStoreForDelete) error) error
}

// ExecuteDeleteTechnique removes a technique that has never been assigned.
// PRE: caller is a manager
// POST: Technique removed, or technique.ErrHasHistory and no change
func ExecuteDeleteTechnique(ctx context.Context, id string, deps DeleteTechniqueDeps) error {
	err := deps.InTx(ctx, func(store TechniqueStoreForDelete) error {
		n, err := store.CountProgress(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return technique.ErrHasHistory
		}
		return store.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("technique_event", "event", "technique_deleted", "technique_id", id)
	return nil
}
