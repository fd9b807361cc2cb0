package typed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scribe/pkg/adapters/propfile"
	"github.com/aretw0/scribe/pkg/typed"
)

func newStore(t *testing.T) *propfile.Store {
	t.Helper()
	s, err := propfile.Open(propfile.Config{Dir: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestSettings_Defaults(t *testing.T) {
	s := typed.NewSettings(newStore(t))

	assert.Equal(t, "light", s.String("theme", "light"))
	assert.True(t, s.Bool("autosave", true))
	assert.Equal(t, 14, s.Int("font.size", 14))
	assert.Equal(t, time.Minute, s.Duration("autosave.interval", time.Minute))

	_, err := s.IntE("font.size")
	assert.ErrorIs(t, err, typed.ErrUnset)
}

func TestSettings_Parsing(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SetAll(map[string]string{
		"theme":             "dark",
		"autosave":          "false",
		"font.size":         "16",
		"autosave.interval": "30s",
		"broken":            "not-a-number",
	}))
	s := typed.NewSettings(store)

	assert.Equal(t, "dark", s.String("theme", "light"))
	assert.False(t, s.Bool("autosave", true))
	assert.Equal(t, 16, s.Int("font.size", 14))
	assert.Equal(t, 30*time.Second, s.Duration("autosave.interval", time.Minute))

	assert.Equal(t, 7, s.Int("broken", 7), "unparsable values fall back to the default")
	_, err := s.IntE("broken")
	assert.Error(t, err)
}

func TestSettings_Set(t *testing.T) {
	store := newStore(t)
	s := typed.NewSettings(store)

	require.NoError(t, s.Set("font.size", 18))
	require.NoError(t, s.Set("autosave", true))
	require.NoError(t, s.Set("autosave.interval", 90*time.Second))

	assert.Equal(t, "18", store.Get("font.size"))
	assert.Equal(t, "true", store.Get("autosave"))
	assert.Equal(t, "1m30s", store.Get("autosave.interval"))
	assert.Equal(t, 90*time.Second, s.Duration("autosave.interval", 0))
}

type Preferences struct {
	Theme    string        `config:"theme"`
	FontSize int           `config:"font.size"`
	Autosave bool          `config:"autosave"`
	Interval time.Duration `config:"autosave.interval"`
	Recent   []string      `config:"recent"`
}

func TestDecodeEncode(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SetAll(map[string]string{
		"theme":             "dark",
		"font.size":         "12",
		"autosave":          "1",
		"autosave.interval": "5m",
		"recent":            "a,b",
		"unrelated":         "ignored",
	}))

	prefs, err := typed.Decode[Preferences](store)
	require.NoError(t, err)
	assert.Equal(t, Preferences{
		Theme:    "dark",
		FontSize: 12,
		Autosave: true,
		Interval: 5 * time.Minute,
		Recent:   []string{"a", "b"},
	}, prefs)

	prefs.FontSize = 20
	prefs.Recent = []string{"c"}
	require.NoError(t, typed.Encode(store, &prefs))

	assert.Equal(t, "20", store.Get("font.size"))
	assert.Equal(t, "c", store.Get("recent"))
	assert.Equal(t, "5m0s", store.Get("autosave.interval"))
	assert.Equal(t, "ignored", store.Get("unrelated"))
}
