package config

import (
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gemstone/render"
)

type Config struct {
	Viewer ViewerConfig `yaml:"viewer"`
	Editor EditorConfig `yaml:"editor"`
	Export ExportConfig `yaml:"export"`
	Watch  WatchConfig  `yaml:"watch"`
}

type ViewerConfig struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Scale          int    `yaml:"scale"`
	Background     *Color `yaml:"background"`
	OnionSkin      bool   `yaml:"onion_skin"`
	OnionTint      *Color `yaml:"onion_tint"`
	ShowPivot      bool   `yaml:"show_pivot"`
	Crowd          int    `yaml:"crowd"`
	CrowdStaggerMs int    `yaml:"crowd_stagger_ms"`
}

type EditorConfig struct {
	MaxUndo         int `yaml:"max_undo"`
	FrameW          int `yaml:"frame_w"`
	FrameH          int `yaml:"frame_h"`
	DefaultDuration int `yaml:"default_duration"`
}

type ExportConfig struct {
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// Load reads the YAML config at path, falling back to the embedded defaults
// when path is empty or missing. Fields left at zero take default values.
func Load(path string) (*Config, error) {
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if _, err := render.ParseFormat(cfg.Export.Format); err != nil {
		return nil, fmt.Errorf("config: export: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	v := &c.Viewer
	if v.Width <= 0 {
		v.Width = 640
	}
	if v.Height <= 0 {
		v.Height = 480
	}
	if v.Scale <= 0 {
		v.Scale = 1
	}
	if v.Background == nil {
		v.Background = &Color{Color: color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}}
	}
	if v.OnionTint == nil {
		v.OnionTint = &Color{Color: color.NRGBA{R: 0x50, G: 0x78, B: 0xff, A: 0x80}}
	}
	if v.Crowd <= 0 {
		v.Crowd = 1
	}
	if v.CrowdStaggerMs < 0 {
		v.CrowdStaggerMs = 0
	}

	e := &c.Editor
	if e.MaxUndo <= 0 {
		e.MaxUndo = 64
	}
	if e.FrameW <= 0 {
		e.FrameW = 32
	}
	if e.FrameH <= 0 {
		e.FrameH = 32
	}
	if e.DefaultDuration <= 0 {
		e.DefaultDuration = 100
	}

	if c.Export.Format == "" {
		c.Export.Format = string(render.FormatPNG)
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = 100
	}
}

// Codec returns the image codec for the configured export format.
func (c *Config) Codec() render.Codec {
	f, err := render.ParseFormat(c.Export.Format)
	if err != nil {
		f = render.FormatPNG
	}
	return render.Codec{Format: f}
}

// Debounce returns the watcher debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// Color is a colour written in YAML as "#rrggbb" or "#rrggbbaa".
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := value.Value
	alpha := uint8(0xff)
	if len(s) == 9 && s[0] == '#' {
		var a uint32
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return fmt.Errorf("invalid color alpha: %s", value.Value)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	cf, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}
	r, g, b := cf.RGB255()
	c.Color = color.NRGBA{R: r, G: g, B: b, A: alpha}
	return nil
}

// NRGBA returns the colour as non-premultiplied RGBA.
func (c *Color) NRGBA() color.NRGBA {
	if c == nil || c.Color == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}
