package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Panel    PanelConfig    `yaml:"panel"`
	Workshop WorkshopConfig `yaml:"workshop"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`

	// ConfigPath is the path to the config file (not serialized)
	ConfigPath string `yaml:"-"`
}

// ServerConfig represents the workshop HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// PanelConfig represents the order panel client configuration
type PanelConfig struct {
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"` // 0 means no timeout
	BlurDelay    time.Duration `yaml:"blur_delay"`

	StatusPath  string `yaml:"status_path"`
	AddPath     string `yaml:"add_path"`
	ProcessPath string `yaml:"process_path"`

	// WebSocket settings
	UseWebSocket     bool          `yaml:"use_websocket"`
	WSPath           string        `yaml:"ws_path"`
	WSReconnectDelay time.Duration `yaml:"ws_reconnect_delay"`
	WSMaxReconnect   time.Duration `yaml:"ws_max_reconnect_delay"`
}

// WorkshopConfig controls the order processing simulation
type WorkshopConfig struct {
	Workers      int           `yaml:"workers"`
	UnitDuration time.Duration `yaml:"unit_duration"` // simulated work per prep time unit
	LogCapacity  int           `yaml:"log_capacity"`
}

// StorageConfig selects the order store
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path,omitempty"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
			Host: "0.0.0.0",
		},
		Panel: PanelConfig{
			BaseURL:          "http://localhost:5000",
			PollInterval:     1 * time.Second,
			BlurDelay:        120 * time.Millisecond,
			StatusPath:       "/estado-json",
			AddPath:          "/add-order",
			ProcessPath:      "/process-orders",
			UseWebSocket:     false,
			WSPath:           "/estado-ws",
			WSReconnectDelay: 1 * time.Second,
			WSMaxReconnect:   30 * time.Second,
		},
		Workshop: WorkshopConfig{
			Workers:      3,
			UnitDuration: 20 * time.Millisecond,
			LogCapacity:  500,
		},
		Storage: StorageConfig{
			Driver: "memory",
			Path:   "taller.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from the config file
func Load() (*Config, error) {
	// Try to find config file in common locations
	configPaths := []string{
		"config.yaml",
		"configs/config.yaml",
		"/etc/taller/config.yaml",
	}

	var data []byte
	var err error
	var loadedPath string

	for _, path := range configPaths {
		data, err = os.ReadFile(path)
		if err == nil {
			loadedPath = path
			break
		}
	}

	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.ConfigPath = loadedPath
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
