package flock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapOverrides(t *testing.T) {
	c := FromMap(map[string]string{
		"n":                 "1200",
		"seed":              "-4",
		"separation_radius": "2.5",
		"alignment_scale":   "0",
		"scene_scale":       "64",
		"workers":           "3",
	})
	assert.Equal(t, 1200, c.Count)
	assert.Equal(t, int64(-4), c.Seed)
	assert.Equal(t, float32(2.5), c.Rules.SeparationRadius)
	assert.Equal(t, float32(0), c.Rules.AlignmentScale)
	assert.Equal(t, float32(64), c.SceneScale)
	assert.Equal(t, 3, c.Workers)
}

func TestFromMapIgnoresInvalid(t *testing.T) {
	def := DefaultConfig()
	c := FromMap(map[string]string{
		"n":               "-3",
		"cohesion_radius": "0",
		"max_speed":       "fast",
		"dt":              "-1",
	})
	assert.Equal(t, def, c)
	assert.Equal(t, def, FromMap(nil))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	for name, mutate := range map[string]func(*Config){
		"zero count":        func(c *Config) { c.Count = 0 },
		"negative radius":   func(c *Config) { c.Rules.SeparationRadius = -1 },
		"zero alignment":    func(c *Config) { c.Rules.AlignmentRadius = 0 },
		"zero scene":        func(c *Config) { c.SceneScale = 0 },
		"negative speed":    func(c *Config) { c.MaxSpeed = -1 },
		"negative cohesion": func(c *Config) { c.Rules.CohesionRadius = -5 },
	} {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

const sampleConfig = `
; denser flock for profiling
[simulation]
count = 20000
seed = 7
scene-scale = 64
max-speed = 2

[rules]
separation-radius = 2.5
alignment-scale = 0.05
`

func TestReadConfigString(t *testing.T) {
	c, err := ReadConfigString(sampleConfig)
	require.NoError(t, err)
	assert.Equal(t, 20000, c.Count)
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, float32(64), c.SceneScale)
	assert.Equal(t, float32(2), c.MaxSpeed)
	assert.Equal(t, float32(2.5), c.Rules.SeparationRadius)
	assert.Equal(t, float32(0.05), c.Rules.AlignmentScale)
	// untouched values keep their defaults
	assert.Equal(t, float32(5), c.Rules.CohesionRadius)
	assert.Equal(t, float32(0.2), c.DT)
}

func TestReadConfigRejects(t *testing.T) {
	_, err := ReadConfigString("[simulation]\ncount = 0\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = ReadConfigString("[simulation]\nwingspan = 3\n")
	assert.Error(t, err, "unknown variables are rejected")
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.gcfg")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	c, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20000, c.Count)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.gcfg"))
	assert.Error(t, err)
}
