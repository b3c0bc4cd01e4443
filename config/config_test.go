package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)
	cfg := Default()
	assert.Equal(10000, cfg.Driver.IterationLimit)
	assert.True(cfg.Driver.EnableNParallelExpansion)
	assert.False(cfg.Translate.Timed)
	assert.True(cfg.Translate.NormalizeOutput)
}

func TestLoad_OverridesOnlyFieldsPresentInFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[driver]
iteration_limit = 42

[translate]
timed = true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(42, cfg.Driver.IterationLimit)
	// left unset in the file: defaults carry through
	assert.True(cfg.Driver.EnableNParallelExpansion)
	assert.True(cfg.Translate.Timed)
	assert.True(cfg.Translate.NormalizeOutput)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}
