package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keyword": "dark2026", "monitor": true}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Keyword)
	assert.Equal(t, "dark2026", *cfg.Keyword)
	require.NotNil(t, cfg.Monitor)
	assert.True(t, *cfg.Monitor)
	assert.Nil(t, cfg.EdgeMin, "omitted fields stay unset")
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	_, err := Load("run.yaml")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	cfg := Defaults()
	cfg.Merge(&RunConfig{
		Keyword: ptrString("dk"),
		EdgeMax: ptrInt(300),
	})

	assert.Equal(t, "dk", *cfg.Keyword)
	assert.Equal(t, 300, *cfg.EdgeMax)
	assert.Equal(t, -1000, *cfg.EdgeMin, "unset field keeps default")
	assert.False(t, *cfg.Save)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.EdgeMin = ptrInt(10)
	cfg.EdgeMax = ptrInt(10)
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.DataFolder = ptrString("")
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.OutputPath = nil
	require.Error(t, cfg.Validate())
}
