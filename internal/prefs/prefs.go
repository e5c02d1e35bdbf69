// Package prefs persists the theme and solution language.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/mathsnap/internal/kv"
)

const (
	ThemeKey    = "theme"
	LanguageKey = "lang"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Language is the language solutions are written in.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
)

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == Hindi {
		return English
	}
	return Hindi
}

// ParseLanguage accepts "English" or "Hindi" in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "hindi", "hi":
		return Hindi, nil
	}
	return "", fmt.Errorf("unknown language %q (want English or Hindi)", s)
}

// Prefs holds the user's persisted preferences.
type Prefs struct {
	Theme    Theme
	Language Language
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: ThemeLight, Language: English}
}

// Load reads preferences from store. Missing, unreadable and invalid
// values fall back to the defaults; the error reports read failures only.
func Load(ctx context.Context, store kv.Store) (Prefs, error) {
	p := Defaults()

	raw, ok, err := store.Get(ctx, ThemeKey)
	if err != nil {
		return p, fmt.Errorf("read theme: %w", err)
	}
	if ok && (Theme(raw) == ThemeLight || Theme(raw) == ThemeDark) {
		p.Theme = Theme(raw)
	}

	raw, ok, err = store.Get(ctx, LanguageKey)
	if err != nil {
		return p, fmt.Errorf("read language: %w", err)
	}
	if ok && (Language(raw) == English || Language(raw) == Hindi) {
		p.Language = Language(raw)
	}
	return p, nil
}

// SaveTheme persists t.
func SaveTheme(ctx context.Context, store kv.Store, t Theme) error {
	if err := store.Set(ctx, ThemeKey, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// SaveLanguage persists l.
func SaveLanguage(ctx context.Context, store kv.Store, l Language) error {
	if err := store.Set(ctx, LanguageKey, string(l)); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

// Reset removes both preferences.
func Reset(ctx context.Context, store kv.Store) error {
	for _, key := range []string{ThemeKey, LanguageKey} {
		if err := store.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}
