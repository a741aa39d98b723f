package ipc

import (
	"context"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/model"
	"github.com/aretw0/pomodoro/pkg/settings"
	"github.com/aretw0/pomodoro/pkg/store"
	"github.com/aretw0/pomodoro/pkg/typed"
)

func registerCommands(r *Router) {
	registerCRUD(r, model.Tasks.Controller)
	registerCRUD(r, model.Themes.Controller)
	registerCRUD(r, model.Intents.Controller)
	registerCRUD(r, model.Projects.Controller)

	registerArchive(r, "intent", model.Intents.Archive, model.Intents.Unarchive)
	registerArchive(r, "project", model.Projects.Archive, model.Projects.Unarchive)

	r.Register("complete_task", func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return model.Tasks.Complete(ctx, mc, a.ID)
	})
	r.Register("reopen_task", func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return model.Tasks.Reopen(ctx, mc, a.ID)
	})
	r.Register("get_current_theme", func(ctx context.Context, mc *app.Ctx, _ Args) (any, error) {
		return model.Themes.Current(ctx, mc)
	})
	r.Register("get_current_project", func(ctx context.Context, mc *app.Ctx, _ Args) (any, error) {
		return model.Projects.Current(ctx, mc)
	})

	r.Register("get_settings", func(_ context.Context, mc *app.Ctx, _ Args) (any, error) {
		svc, err := mc.Settings()
		if err != nil {
			return nil, err
		}
		return svc.Get()
	})
	r.Register("update_settings", func(_ context.Context, mc *app.Ctx, a Args) (any, error) {
		svc, err := mc.Settings()
		if err != nil {
			return nil, err
		}
		var data settings.SettingsForUpdate
		if err := a.Bind(&data); err != nil {
			return nil, err
		}
		return svc.Update(data)
	})
}

func registerCRUD[E any, C store.Creatable, U store.Patchable](r *Router, c *typed.Controller[E, C, U]) {
	entity := c.Entity()

	r.Register("get_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return c.Get(ctx, mc, a.ID)
	})
	r.Register("list_"+entity, func(ctx context.Context, mc *app.Ctx, _ Args) (any, error) {
		return c.List(ctx, mc)
	})
	r.Register("create_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		var data C
		if err := a.Bind(&data); err != nil {
			return nil, err
		}
		return c.Create(ctx, mc, data)
	})
	r.Register("update_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		var data U
		if err := a.Bind(&data); err != nil {
			return nil, err
		}
		return c.Update(ctx, mc, a.ID, data)
	})
	r.Register("delete_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return c.Delete(ctx, mc, a.ID)
	})
}

func registerArchive[E any](r *Router, entity string, archive, unarchive func(context.Context, *app.Ctx, string) (E, error)) {
	r.Register("archive_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return archive(ctx, mc, a.ID)
	})
	r.Register("unarchive_"+entity, func(ctx context.Context, mc *app.Ctx, a Args) (any, error) {
		return unarchive(ctx, mc, a.ID)
	})
}
