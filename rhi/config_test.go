package rhi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultFramesInFlight, cfg.FramesInFlight)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Validation)
	assert.Nil(t, cfg.Layers())
}

func TestLoadConfigOverrides(t *testing.T) {
	doc := `
app_name = "triangle"
frames_in_flight = 2
validation = true
vsync = true

[window]
width = 800
height = 600
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "triangle", cfg.AppName)
	assert.Equal(t, 2, cfg.FramesInFlight)
	assert.True(t, cfg.VSync)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "triangle", cfg.Window.Title)
	assert.Equal(t, []string{DefaultValidationLayer}, cfg.Layers())
}

func TestDefaultConfigTitleFollowsAppName(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Window.Title)
	assert.Equal(t, "dieselrhi", cfg.WithDefaults().Window.Title)

	cfg.AppName = "triangle"
	assert.Equal(t, "triangle", cfg.WithDefaults().Window.Title)

	cfg.Window.Title = "custom"
	assert.Equal(t, "custom", cfg.WithDefaults().Window.Title)
}

func TestLoadConfigExplicitTitle(t *testing.T) {
	doc := "app_name = \"triangle\"\n[window]\ntitle = \"spinning\"\n"
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "spinning", cfg.Window.Title)
}

func TestLoadConfigExplicitLayers(t *testing.T) {
	doc := `
validation = true
validation_layers = ["VK_LAYER_LUNARG_api_dump"]
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"VK_LAYER_LUNARG_api_dump"}, cfg.Layers())
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero frames", "frames_in_flight = 0"},
		{"negative size", "[window]\nwidth = -1"},
		{"unknown key", "frames = 2"},
		{"bad syntax", "app_name = "},
		{"no name", "app_name = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("frames_in_flight = 4\n"), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.FramesInFlight)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFullViewport(t *testing.T) {
	vp := FullViewport(Extent2D{Width: 640, Height: 480})
	assert.Equal(t, Viewport{Width: 640, Height: 480, MaxDepth: 1}, vp)
}

func TestFormatHasStencil(t *testing.T) {
	assert.True(t, FormatD24UnormS8Uint.HasStencil())
	assert.True(t, FormatD32SfloatS8Uint.HasStencil())
	assert.False(t, FormatD32Sfloat.HasStencil())
}
