// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Picking  PickingConfig  `yaml:"picking"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// PickingConfig holds hit-test settings.
type PickingConfig struct {
	// FrustumCulling skips nodes outside the view frustum during
	// picking sweeps.
	FrustumCulling bool `yaml:"frustum_culling"`
	// IndexThreshold is the triangle count above which a mesh gets a
	// spatial index. Zero disables indexing entirely.
	IndexThreshold int `yaml:"index_threshold"`
}

// SceneConfig holds scene display settings.
type SceneConfig struct {
	ShowSelection    bool    `yaml:"show_selection"`
	SelectionPadding float32 `yaml:"selection_padding"`
	ShowFPS          bool    `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Picking: PickingConfig{
			FrustumCulling: true,
			IndexThreshold: 256,
		},
		Scene: SceneConfig{
			ShowSelection:    true,
			SelectionPadding: 0.05,
			ShowFPS:          false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
