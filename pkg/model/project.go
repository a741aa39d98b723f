package model

import (
	"context"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/typed"
)

// Project groups work under a name and a color.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	ArchivedAt  *string  `json:"archived_at"`
}

func decodeProject(obj core.Object) (Project, error) {
	f := typed.NewFields(obj)
	p := Project{
		ID:          typed.Field[string](f, "id"),
		Name:        typed.Field[string](f, "name"),
		Description: typed.Field[string](f, "description"),
		Color:       typed.Field[string](f, "color"),
		Tags:        typed.StringList(f, "tags"),
		CreatedAt:   typed.Field[string](f, "created_at"),
		ArchivedAt:  typed.Optional[string](f, "archived_at"),
	}
	return p, f.Err()
}

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#FF4E4D"

// ProjectForCreate is the payload for a new project.
type ProjectForCreate struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateDocument applies DefaultProjectColor when no color is given.
func (p ProjectForCreate) CreateDocument() core.Object {
	color := p.Color
	if color == "" {
		color = DefaultProjectColor
	}
	return core.Object{
		"name":        p.Name,
		"description": p.Description,
		"color":       color,
		"tags":        tags(p.Tags),
		"created_at":  now(),
	}
}

// ProjectForUpdate carries the project fields to change.
type ProjectForUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Color       *string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Tags        []string `json:"tags,omitempty"`
}

// PatchDocument returns only the supplied fields.
func (p ProjectForUpdate) PatchDocument() core.Object {
	obj := core.Object{}
	if p.Name != nil {
		obj["name"] = *p.Name
	}
	if p.Description != nil {
		obj["description"] = *p.Description
	}
	if p.Color != nil {
		obj["color"] = *p.Color
	}
	if p.Tags != nil {
		obj["tags"] = core.Strings(p.Tags)
	}
	return obj
}

// ProjectBmc is the project controller.
type ProjectBmc struct {
	*typed.Controller[Project, ProjectForCreate, ProjectForUpdate]
}

// Projects manages the "project" table.
var Projects = ProjectBmc{typed.NewController[Project, ProjectForCreate, ProjectForUpdate]("project", decodeProject)}

// Archive sets archived_at to the current time.
func (b ProjectBmc) Archive(ctx context.Context, mc *app.Ctx, id string) (Project, error) {
	return b.Transition(ctx, mc, id, archiveMutation(), core.ActionArchived)
}

// Unarchive removes archived_at.
func (b ProjectBmc) Unarchive(ctx context.Context, mc *app.Ctx, id string) (Project, error) {
	return b.Transition(ctx, mc, id, unarchiveMutation(), core.ActionUnarchived)
}

// Current returns the project selected in the settings. It fails with
// core.ErrNoCurrentProject when no project is selected.
func (b ProjectBmc) Current(ctx context.Context, mc *app.Ctx) (Project, error) {
	svc, err := mc.Settings()
	if err != nil {
		return Project{}, err
	}
	s, err := svc.Get()
	if err != nil {
		return Project{}, err
	}
	if s.CurrentProjectID == nil {
		return Project{}, core.ErrNoCurrentProject
	}
	return b.Get(ctx, mc, *s.CurrentProjectID)
}
