package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parsing typed values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.cfg")
		content := "# Test configuration\nname = TestStrategy \nvalue=42\nrate=3.14 # trailing comment\nenabled=YES\nbroken\n=orphan\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		require.Equal(t, "TestStrategy", cfg.String("name", ""))
		require.Equal(t, "default", cfg.String("nonexistent", "default"))
		require.Equal(t, 42, cfg.Int("value", 0))
		require.Equal(t, 99, cfg.Int("nonexistent", 99))
		require.Equal(t, 7, cfg.Int("name", 7), "unparsable ints fall back")
		require.InDelta(t, 3.14, cfg.Float("rate", 0), 1e-9)
		require.Equal(t, 1.0, cfg.Float("nonexistent", 1.0))
		require.True(t, cfg.Bool("enabled", false))
		require.False(t, cfg.Bool("name", true), "unrecognised bools are false")
		require.False(t, cfg.Bool("nonexistent", false))
		require.True(t, cfg.Has("name"))
		require.False(t, cfg.Has("broken"))
		require.Len(t, cfg, 4)
	})

	t.Run("resolving per-strategy files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(ConfigPath(dir, "test_strategy"), []byte("param1=value1\nparam2=100\n"), 0644))

		cfg, err := LoadConfig(ConfigPath(dir, "test_strategy"))
		require.NoError(t, err)
		require.Equal(t, "value1", cfg.String("param1", ""))
		require.Equal(t, 100, cfg.Int("param2", 0))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.cfg"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
