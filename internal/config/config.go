// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig holds scene data file paths.
type DataConfig struct {
	MapPaths []string `yaml:"map_paths"` // Directories searched for scene files
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ViewerConfig holds interactive viewer settings.
type ViewerConfig struct {
	Wireframe        bool    `yaml:"wireframe"`
	OrbitSensitivity float32 `yaml:"orbit_sensitivity"`
	ZoomSpeed        float32 `yaml:"zoom_speed"`
	ShowStats        bool    `yaml:"show_stats"`
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
		},
		Viewer: ViewerConfig{
			Wireframe:        false,
			OrbitSensitivity: 0.01,
			ZoomSpeed:        1.1,
			ShowStats:        false,
		},
		Data: DataConfig{
			MapPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
