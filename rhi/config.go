package rhi

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// DefaultFramesInFlight is the number of frame slots used when a config
// leaves it unset.
const DefaultFramesInFlight = 3

// DefaultValidationLayer is enabled when validation is requested without an
// explicit layer list.
const DefaultValidationLayer = "VK_LAYER_KHRONOS_validation"

// Config holds the user facing device and window settings. It decodes from
// TOML:
//
//	app_name = "triangle"
//	frames_in_flight = 3
//	validation = true
//	vsync = false
//
//	[window]
//	width = 1280
//	height = 720
//	title = "triangle"
type Config struct {
	AppName          string       `toml:"app_name"`
	FramesInFlight   int          `toml:"frames_in_flight"`
	Validation       bool         `toml:"validation"`
	ValidationLayers []string     `toml:"validation_layers"`
	VSync            bool         `toml:"vsync"`
	Window           WindowConfig `toml:"window"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// DefaultConfig returns the settings used for any field a config file omits.
// The window title is left empty so WithDefaults can derive it from AppName.
func DefaultConfig() Config {
	return Config{
		AppName:        "dieselrhi",
		FramesInFlight: DefaultFramesInFlight,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
		},
	}
}

// LoadConfig decodes a TOML document over DefaultConfig and validates the
// result. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "rhi: decode config")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "rhi: open config")
	}
	defer f.Close()
	return LoadConfig(f)
}

// WithDefaults returns c with the fields derived from other settings filled
// in: the validation layer list and a window title taken from AppName.
func (c Config) WithDefaults() Config {
	if c.Validation && len(c.ValidationLayers) == 0 {
		c.ValidationLayers = []string{DefaultValidationLayer}
	}
	if c.Window.Title == "" {
		c.Window.Title = c.AppName
	}
	return c
}

// Validate checks the invariants the backend relies on.
func (c Config) Validate() error {
	if c.FramesInFlight < 1 {
		return errors.Errorf("rhi: frames_in_flight must be at least 1, got %d", c.FramesInFlight)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("rhi: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Title == "" && c.AppName == "" {
		return errors.New("rhi: app_name or window title required")
	}
	return nil
}

// Layers returns the instance layers to enable.
func (c Config) Layers() []string {
	if !c.Validation {
		return nil
	}
	if len(c.ValidationLayers) == 0 {
		return []string{DefaultValidationLayer}
	}
	return c.ValidationLayers
}
