package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsnap/internal/kv"
)

type brokenKV struct{ kv.Memory }

func (*brokenKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func TestLoad_Defaults(t *testing.T) {
	p, err := Load(context.Background(), kv.NewMemory())
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: ThemeLight, Language: English}, p)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()
	require.NoError(t, m.Set(ctx, ThemeKey, "sepia"))
	require.NoError(t, m.Set(ctx, LanguageKey, "Klingon"))

	p, err := Load(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
}

func TestLoad_ReadFailureDegrades(t *testing.T) {
	p, err := Load(context.Background(), &brokenKV{})
	assert.Error(t, err)
	assert.Equal(t, Defaults(), p)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	backends := map[string]func(t *testing.T) kv.Store{
		"memory": func(*testing.T) kv.Store { return kv.NewMemory() },
		"badger": func(t *testing.T) kv.Store {
			b, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, SaveTheme(ctx, s, ThemeDark))
			require.NoError(t, SaveLanguage(ctx, s, Hindi))

			p, err := Load(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Prefs{Theme: ThemeDark, Language: Hindi}, p)

			v, _, err := s.Get(ctx, ThemeKey)
			require.NoError(t, err)
			assert.Equal(t, "dark", v)

			require.NoError(t, Reset(ctx, s))
			p, err = Load(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Defaults(), p)
		})
	}
}

func TestToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, Hindi, English.Toggle())
	assert.Equal(t, English, Hindi.Toggle())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		theme   Theme
		themeOK bool
		lang    Language
		langOK  bool
	}{
		{in: "dark", theme: ThemeDark, themeOK: true},
		{in: " Light ", theme: ThemeLight, themeOK: true},
		{in: "hindi", lang: Hindi, langOK: true},
		{in: "English", lang: English, langOK: true},
		{in: "hi", lang: Hindi, langOK: true},
		{in: "french"},
	}
	for _, tt := range tests {
		th, err := ParseTheme(tt.in)
		if tt.themeOK {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.theme, th)
		} else {
			assert.Error(t, err, tt.in)
		}

		l, err := ParseLanguage(tt.in)
		if tt.langOK {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.lang, l)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}
