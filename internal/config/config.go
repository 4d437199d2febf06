// =============================================================================
// SmartBill - Configuration Module
// =============================================================================
//
// This module loads the process-wide configuration. Configuration is read
// once at startup and never mutated afterwards; every component receives the
// values it needs by value.
//
// CONFIGURATION SOURCES:
//   1. Built-in defaults (Default)
//   2. An optional YAML file passed with --config (Load)
//
// Values present in the file override the defaults; everything else keeps
// its default. The result is validated before use.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEVICE NAMES
// =============================================================================

const (
	// DeviceSpooler hands rendered pages to the host print spooler.
	DeviceSpooler = "spooler"

	// DeviceFile writes raw receipt text to a device file (e.g. /dev/usb/lp0).
	DeviceFile = "device-file"

	// DevicePDF saves the rendered page as a PDF file.
	DevicePDF = "pdf"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// PRESENTATION SETTINGS
	// =========================================================================

	// ShopName is the banner title on receipts and documents.
	// Default: "SMARTBILL PRO"
	ShopName string `yaml:"shop_name"`

	// CurrencySymbol prefixes amounts in documents.
	// Default: "₹"
	CurrencySymbol string `yaml:"currency_symbol"`

	// DateFormat is a Go time layout for the bill timestamp.
	// Default: "2006-01-02 15:04:05"
	DateFormat string `yaml:"date_format"`

	// Footer is the closing line of receipts and documents.
	// Default: "Thank you for your business!"
	Footer string `yaml:"footer"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where exports go when no explicit path is given.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// FileNameFormat is the default export file name (without extension).
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {millis}    - Unix time in milliseconds
	//   {customer}  - Customer name, sanitised for file systems
	// Default: "Invoice_{millis}"
	FileNameFormat string `yaml:"file_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile receives JSON log lines when set. Console logging is used
	// otherwise.
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// PRINT SETTINGS
	// =========================================================================

	Print PrintConfig `yaml:"print"`
}

// PrintConfig controls receipt pagination and the output device.
type PrintConfig struct {
	// PageHeight is the printable height in points.
	// Default: 648 (US Letter minus one-inch margins)
	PageHeight float64 `yaml:"page_height"`

	// TopOffset is the baseline of the first line in points.
	// Default: 50
	TopOffset float64 `yaml:"top_offset"`

	// LinePitch is the distance between baselines in points.
	// Default: 15
	LinePitch float64 `yaml:"line_pitch"`

	// Device selects the default output device.
	// Valid values: "spooler", "device-file", "pdf"
	// Default: "spooler"
	Device string `yaml:"device"`

	// DevicePath is the device file or PDF path for the "device-file" and
	// "pdf" devices.
	DevicePath string `yaml:"device_path"`

	// SpoolCommand is the host spooler executable.
	// Default: "lp"
	SpoolCommand string `yaml:"spool_command"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML configuration file. An empty path yields Default().
//
// PARAMETERS:
//   - configPath: The path to the configuration file, or "".
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.ShopName == "" {
		cfg.ShopName = "SMARTBILL PRO"
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "₹"
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02 15:04:05"
	}
	if cfg.Footer == "" {
		cfg.Footer = "Thank you for your business!"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.FileNameFormat == "" {
		cfg.FileNameFormat = "Invoice_{millis}"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Print.PageHeight == 0 {
		cfg.Print.PageHeight = 648
	}
	if cfg.Print.TopOffset == 0 {
		cfg.Print.TopOffset = 50
	}
	if cfg.Print.LinePitch == 0 {
		cfg.Print.LinePitch = 15
	}
	if cfg.Print.Device == "" {
		cfg.Print.Device = DeviceSpooler
	}
	if cfg.Print.SpoolCommand == "" {
		cfg.Print.SpoolCommand = "lp"
	}
}

// validate rejects configurations the components cannot work with.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if cfg.Print.LinePitch < 0 {
		return fmt.Errorf("print.line_pitch must be positive, got %v", cfg.Print.LinePitch)
	}
	if cfg.Print.PageHeight < 0 {
		return fmt.Errorf("print.page_height must be positive, got %v", cfg.Print.PageHeight)
	}
	if cfg.Print.TopOffset < 0 {
		return fmt.Errorf("print.top_offset must not be negative, got %v", cfg.Print.TopOffset)
	}

	switch cfg.Print.Device {
	case DeviceSpooler:
	case DeviceFile, DevicePDF:
		if cfg.Print.DevicePath == "" {
			return fmt.Errorf("print.device_path is required for device %q", cfg.Print.Device)
		}
	default:
		return fmt.Errorf("unknown print.device %q", cfg.Print.Device)
	}

	return nil
}
