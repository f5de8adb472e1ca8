package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/ricorder/internal/adv"
	"github.com/roman-kulish/ricorder/internal/plot"
)

const (
	defaultLogLevel = "info"
	defaultDBName   = "ricorder.sqlite"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Plot     PlotConfig     `yaml:"plot"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// AnalysisConfig represents settings of the derived views
type AnalysisConfig struct {
	BinSize float64 `yaml:"binSize"` // Seconds per histogram bin
}

// PlotConfig represents chart output settings
type PlotConfig struct {
	Formats []string `yaml:"formats"`
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// NewConfig returns the configuration used when no file is given.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: defaultLogLevel},
		Analysis: AnalysisConfig{BinSize: adv.DefaultBinSize},
		Plot:     PlotConfig{Formats: []string{string(plot.ImagePNG)}},
		Storage:  StorageConfig{DataDirectory: "."},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err = c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Analysis.BinSize <= 0 {
		return fmt.Errorf("invalid bin size: %v", c.Analysis.BinSize)
	}
	for _, f := range c.Plot.Formats {
		if _, err := plot.ParseImageFormat(f); err != nil {
			return err
		}
	}
	if c.Storage.MaxBatchSize < 0 {
		return fmt.Errorf("invalid max batch size: %d", c.Storage.MaxBatchSize)
	}
	return nil
}

func (c *Config) imageFormats() []plot.ImageFormat {
	formats := make([]plot.ImageFormat, 0, len(c.Plot.Formats))
	for _, f := range c.Plot.Formats {
		format, _ := plot.ParseImageFormat(f) // validated on load
		formats = append(formats, format)
	}
	return formats
}
