// Package typed provides the generic entity controller that maps typed domain
// values onto store documents and reports every mutation as an event.
package typed

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/store"
)

// Decoder converts a stored document into a typed entity. It may consume the
// fields of the object it is given.
type Decoder[E any] func(core.Object) (E, error)

// DeleteResult wraps the deleted record id.
type DeleteResult struct {
	ID string `json:"id"`
}

// Controller implements get, list, create, update and delete for one entity.
// C is the creation payload and U the partial update payload.
type Controller[E any, C store.Creatable, U store.Patchable] struct {
	entity   string
	decode   Decoder[E]
	validate *validator.Validate
}

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// NewController creates a controller for the records of entity.
func NewController[E any, C store.Creatable, U store.Patchable](entity string, decode Decoder[E]) *Controller[E, C, U] {
	return &Controller[E, C, U]{
		entity:   entity,
		decode:   decode,
		validate: defaultValidator,
	}
}

// Entity returns the table name the controller works on.
func (c *Controller[E, C, U]) Entity() string {
	return c.entity
}

// Get fetches one record by id.
func (c *Controller[E, C, U]) Get(ctx context.Context, mc *app.Ctx, id string) (E, error) {
	var zero E
	if err := c.owns(id); err != nil {
		return zero, err
	}
	obj, err := mc.Store().Get(ctx, id)
	if err != nil {
		return zero, err
	}
	return c.decode(obj)
}

// List returns every record of the entity. A single record that fails to
// convert fails the whole call.
func (c *Controller[E, C, U]) List(ctx context.Context, mc *app.Ctx) ([]E, error) {
	objs, err := mc.Store().Select(ctx, c.entity)
	if err != nil {
		return nil, err
	}

	result := make([]E, 0, len(objs))
	for _, obj := range objs {
		id := obj["id"]
		e, err := c.decode(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %v: %w", id, err)
		}
		result = append(result, e)
	}
	return result, nil
}

// Create validates data, stores it and emits <entity>_created with the
// stored document.
func (c *Controller[E, C, U]) Create(ctx context.Context, mc *app.Ctx, data C) (E, error) {
	var zero E
	if err := c.validate.Struct(data); err != nil {
		return zero, fmt.Errorf("invalid %s: %w", c.entity, err)
	}

	obj, err := mc.Store().Create(ctx, c.entity, data)
	if err != nil {
		return zero, err
	}

	mc.Emit(core.EventName(c.entity, core.ActionCreated), obj)
	return c.decode(obj.Clone())
}

// owns rejects ids of other tables before they reach the store, so a record
// is never changed or announced under the wrong entity.
func (c *Controller[E, C, U]) owns(id string) error {
	ref, err := core.ParseRecordRef(id)
	if err != nil {
		return err
	}
	if ref.Table != c.entity {
		return fmt.Errorf("%w: %s is not a %s", core.ErrNotFound, id, c.entity)
	}
	return nil
}

// Update validates data, merges its present fields and emits <entity>_updated.
func (c *Controller[E, C, U]) Update(ctx context.Context, mc *app.Ctx, id string, data U) (E, error) {
	if err := c.validate.Struct(data); err != nil {
		var zero E
		return zero, fmt.Errorf("invalid %s: %w", c.entity, err)
	}
	return c.Transition(ctx, mc, id, MergeMutation(data), core.ActionUpdated)
}

// Delete removes a record and emits <entity>_deleted with the DeleteResult.
func (c *Controller[E, C, U]) Delete(ctx context.Context, mc *app.Ctx, id string) (DeleteResult, error) {
	if err := c.owns(id); err != nil {
		return DeleteResult{}, err
	}
	ref, err := mc.Store().Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	result := DeleteResult{ID: ref.String()}
	mc.Emit(core.EventName(c.entity, core.ActionDeleted), result)
	return result, nil
}

// Transition applies m to the record id and emits <entity>_<action> with the
// resulting document.
func (c *Controller[E, C, U]) Transition(ctx context.Context, mc *app.Ctx, id string, m Mutation, action core.Action) (E, error) {
	var zero E
	if err := c.owns(id); err != nil {
		return zero, err
	}

	obj, err := m.apply(ctx, mc.Store(), id)
	if err != nil {
		return zero, err
	}

	mc.Emit(core.EventName(c.entity, action), obj)
	return c.decode(obj.Clone())
}
