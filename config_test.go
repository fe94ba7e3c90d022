package annoviz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Trim)
	assert.Equal(t, FormatUnknown, cfg.BoxFormat)
	assert.Equal(t, COCOSkeleton, cfg.skeleton())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
trim: false
box_format: coco
classes: [background, person]
boxes:
  line_width: 4
  fill: true
skeleton:
  - [0, 1]
output:
  encoding: png
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.Trim)
	assert.Equal(t, FormatCorner, cfg.BoxFormat)
	assert.Equal(t, []string{"background", "person"}, cfg.Classes)
	assert.Equal(t, 4, cfg.Boxes.LineWidth)
	assert.True(t, cfg.Boxes.Fill)
	assert.Equal(t, Skeleton{{0, 1}}, cfg.skeleton())
	assert.Equal(t, "png", cfg.Output.Encoding)

	// Defaults survive for fields missing from the file.
	assert.Equal(t, 0.5, cfg.Boxes.Alpha)
	assert.Equal(t, ":%.2f", cfg.Boxes.ScoreFormat)
	assert.Equal(t, 5, cfg.Keypoints.Radius)
	assert.Equal(t, 90, cfg.Output.JPEGQuality)
	assert.Equal(t, 1.0, cfg.Output.Resize)

	assert.Equal(t, []string{"background", "person"}, cfg.boxStyle().ClassNames)
}

func TestLoadConfig_errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("box_format: voc\n"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Classes = []string{"a", "b"}
	cfg.Output.Encoding = "webp"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_Validate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(c *Config)
	}{
		{"line width", func(c *Config) { c.Boxes.LineWidth = 0 }},
		{"alpha", func(c *Config) { c.Boxes.Alpha = 1.5 }},
		{"score format", func(c *Config) { c.Boxes.ScoreFormat = "score" }},
		{"radius", func(c *Config) { c.Keypoints.Radius = -1 }},
		{"thickness", func(c *Config) { c.Keypoints.LineThickness = -1 }},
		{"skeleton", func(c *Config) { c.Skeleton = Skeleton{{0, -1}} }},
		{"encoding", func(c *Config) { c.Output.Encoding = "bmp" }},
		{"quality", func(c *Config) { c.Output.JPEGQuality = 0 }},
		{"resize", func(c *Config) { c.Output.Resize = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_ValidateMasks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Masks.Alpha = -0.1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Masks.BorderWidth = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_masks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
masks:
  alpha: 0.3
  border: false
  color: {r: 10, g: 20, b: 30, a: 255}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Masks.Alpha)
	assert.False(t, cfg.Masks.Border)
	assert.Equal(t, 2, cfg.Masks.BorderWidth)
	require.NotNil(t, cfg.Masks.Color)
	assert.Equal(t, uint8(20), cfg.Masks.Color.G)
}
