package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
)

const (
	DefaultConfigPath = "configs/config.toml"

	DefaultExcelFile = "lista_nomes.xlsx"
	DefaultLayerName = "Alterar Nome"
	DefaultOutputDir = "PNG_Exportados"
	DefaultQuality   = 100
	DefaultFormat    = FormatPNG24
	DefaultColumn    = "nome"

	DefaultLogDirectory = "logs"
	DefaultLogLevel     = "info"
)

// Export formats accepted by the save-for-web path. Both write .png files
// with transparency.
const (
	FormatPNG24 = "PNG24"
	FormatPNG8  = "PNG8"
)

type Config struct {
	Run RunConfig `toml:"run"`
	Log LogConfig `toml:"log"`
}

// RunConfig is everything one export run needs. It is filled once before the
// run starts and never modified while it executes.
type RunConfig struct {
	ExcelFile string `toml:"excel_file"`
	LayerName string `toml:"layer_name"`
	OutputDir string `toml:"output_dir"`
	Quality   int    `toml:"quality"`
	Format    string `toml:"format"`
	Column    string `toml:"column"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Run: DefaultRun(),
		Log: LogConfig{
			Directory: DefaultLogDirectory,
			Level:     DefaultLogLevel,
		},
	}
}

func DefaultRun() RunConfig {
	return RunConfig{
		ExcelFile: DefaultExcelFile,
		LayerName: DefaultLayerName,
		OutputDir: DefaultOutputDir,
		Quality:   DefaultQuality,
		Format:    DefaultFormat,
		Column:    DefaultColumn,
	}
}

// Validate checks the values an operator can get wrong from the command line
// or the config file.
func (r RunConfig) Validate() error {
	if r.Quality < 1 || r.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", r.Quality)
	}
	switch strings.ToUpper(r.Format) {
	case FormatPNG24, FormatPNG8:
	default:
		return fmt.Errorf("unsupported export format %q (use %s or %s)", r.Format, FormatPNG24, FormatPNG8)
	}
	if strings.TrimSpace(r.LayerName) == "" {
		return fmt.Errorf("layer name must not be empty")
	}
	if strings.TrimSpace(r.Column) == "" {
		return fmt.Errorf("column name must not be empty")
	}
	return nil
}

// fillDefaults replaces zero values with the built-in defaults.
func (r *RunConfig) fillDefaults() {
	def := DefaultRun()
	if r.ExcelFile == "" {
		r.ExcelFile = def.ExcelFile
	}
	if r.LayerName == "" {
		r.LayerName = def.LayerName
	}
	if r.OutputDir == "" {
		r.OutputDir = def.OutputDir
	}
	if r.Quality == 0 {
		r.Quality = def.Quality
	}
	if r.Format == "" {
		r.Format = def.Format
	}
	r.Format = strings.ToUpper(r.Format)
	if r.Column == "" {
		r.Column = def.Column
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := Default()

		err = SaveConfig(configPath, defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.Run.fillDefaults()
	if config.Log.Directory == "" {
		config.Log.Directory = DefaultLogDirectory
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	err = encoder.Encode(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
