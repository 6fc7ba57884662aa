package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "model_path: /tmp/weights.json\nsuggest_count: 5\ncache:\n  enabled: true\n  dir: /tmp/cache\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/weights.json", cfg.ModelPath)
	require.Equal(t, 5, cfg.SuggestCount)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "/tmp/cache", cfg.Cache.Dir)

	// Unset fields keep their defaults.
	require.Equal(t, Default().MLWeight, cfg.MLWeight)
	require.Equal(t, Default().BlunderThreshold, cfg.BlunderThreshold)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"negative weight":    "ml_weight: -0.5\n",
		"zero weights":       "ml_weight: 0\nheuristic_weight: 0\n",
		"zero suggestions":   "suggest_count: 0\n",
		"positive threshold": "blunder_threshold: 1.0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_path: [unclosed\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
