package model

import (
	"context"
	"fmt"

	"github.com/aretw0/pomodoro/pkg/app"
	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/store"
	"github.com/aretw0/pomodoro/pkg/typed"
)

// Theme is a color scheme for the timer windows.
type Theme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WindowHex  string `json:"window_hex"`
	BaseHex    string `json:"base_hex"`
	PrimaryHex string `json:"primary_hex"`
	TextHex    string `json:"text_hex"`
	Favorite   bool   `json:"favorite"`
	CreatedAt  string `json:"created_at"`
}

func decodeTheme(obj core.Object) (Theme, error) {
	f := typed.NewFields(obj)
	t := Theme{
		ID:         typed.Field[string](f, "id"),
		Name:       typed.Field[string](f, "name"),
		WindowHex:  typed.Field[string](f, "window_hex"),
		BaseHex:    typed.Field[string](f, "base_hex"),
		PrimaryHex: typed.Field[string](f, "primary_hex"),
		TextHex:    typed.Field[string](f, "text_hex"),
		Favorite:   typed.Field[bool](f, "favorite"),
		CreatedAt:  typed.Field[string](f, "created_at"),
	}
	return t, f.Err()
}

// ThemeForCreate is the payload for a new theme. Colors are hex strings.
type ThemeForCreate struct {
	Name       string `json:"name" validate:"required"`
	WindowHex  string `json:"window_hex" validate:"required,hexcolor"`
	BaseHex    string `json:"base_hex" validate:"required,hexcolor"`
	PrimaryHex string `json:"primary_hex" validate:"required,hexcolor"`
	TextHex    string `json:"text_hex" validate:"required,hexcolor"`
}

// CreateDocument stores the theme as not favorite.
func (t ThemeForCreate) CreateDocument() core.Object {
	return core.Object{
		"name":        t.Name,
		"window_hex":  t.WindowHex,
		"base_hex":    t.BaseHex,
		"primary_hex": t.PrimaryHex,
		"text_hex":    t.TextHex,
		"favorite":    false,
		"created_at":  now(),
	}
}

// ThemeForUpdate carries the theme fields to change.
type ThemeForUpdate struct {
	Name       *string `json:"name,omitempty"`
	WindowHex  *string `json:"window_hex,omitempty" validate:"omitempty,hexcolor"`
	BaseHex    *string `json:"base_hex,omitempty" validate:"omitempty,hexcolor"`
	PrimaryHex *string `json:"primary_hex,omitempty" validate:"omitempty,hexcolor"`
	TextHex    *string `json:"text_hex,omitempty" validate:"omitempty,hexcolor"`
	Favorite   *bool   `json:"favorite,omitempty"`
}

// PatchDocument returns only the supplied fields.
func (t ThemeForUpdate) PatchDocument() core.Object {
	obj := core.Object{}
	set := func(name string, v *string) {
		if v != nil {
			obj[name] = *v
		}
	}
	set("name", t.Name)
	set("window_hex", t.WindowHex)
	set("base_hex", t.BaseHex)
	set("primary_hex", t.PrimaryHex)
	set("text_hex", t.TextHex)
	if t.Favorite != nil {
		obj["favorite"] = *t.Favorite
	}
	return obj
}

// DefaultThemes are seeded into an empty theme table.
var DefaultThemes = []ThemeForCreate{
	{Name: "Pomotroid", WindowHex: "#2F384B", BaseHex: "#3D4457", PrimaryHex: "#FF4E4D", TextHex: "#F6F2EB"},
	{Name: "Nord", WindowHex: "#2E3440", BaseHex: "#3B4252", PrimaryHex: "#88C0D0", TextHex: "#ECEFF4"},
	{Name: "Dracula", WindowHex: "#282A36", BaseHex: "#44475A", PrimaryHex: "#FF79C6", TextHex: "#F8F8F2"},
	{Name: "Solarized Light", WindowHex: "#FDF6E3", BaseHex: "#EEE8D5", PrimaryHex: "#CB4B16", TextHex: "#586E75"},
}

// ThemeBmc is the theme controller.
type ThemeBmc struct {
	*typed.Controller[Theme, ThemeForCreate, ThemeForUpdate]
}

// Themes manages the "theme" table.
var Themes = ThemeBmc{typed.NewController[Theme, ThemeForCreate, ThemeForUpdate]("theme", decodeTheme)}

// Initialize seeds DefaultThemes when no theme exists yet. It runs at startup,
// before any window is listening, so it emits no events.
func (b ThemeBmc) Initialize(ctx context.Context, s *store.Store) error {
	existing, err := s.Select(ctx, b.Entity())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, t := range DefaultThemes {
		if _, err := s.Create(ctx, b.Entity(), t); err != nil {
			return fmt.Errorf("failed to seed theme %q: %w", t.Name, err)
		}
	}
	return nil
}

// Current returns the theme selected in the settings, or the first theme
// when none is selected.
func (b ThemeBmc) Current(ctx context.Context, mc *app.Ctx) (Theme, error) {
	svc, err := mc.Settings()
	if err != nil {
		return Theme{}, err
	}
	s, err := svc.Get()
	if err != nil {
		return Theme{}, err
	}
	if s.CurrentThemeID != nil {
		return b.Get(ctx, mc, *s.CurrentThemeID)
	}

	themes, err := b.List(ctx, mc)
	if err != nil {
		return Theme{}, err
	}
	if len(themes) == 0 {
		return Theme{}, fmt.Errorf("current theme: %w", core.ErrNotFound)
	}
	return themes[0], nil
}
