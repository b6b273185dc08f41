package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/barcode"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Printer PrinterConfig `mapstructure:"printer"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP/WebSocket server.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// PrinterConfig selects and parameterizes the printer transport.
type PrinterConfig struct {
	// Transport is one of "none", "network", "serial", "usb".
	Transport string        `mapstructure:"transport"`
	Network   NetworkConfig `mapstructure:"network"`
	Serial    SerialConfig  `mapstructure:"serial"`
	USB       USBConfig     `mapstructure:"usb"`
}

// NetworkConfig configures a raw-socket (JetDirect style) printer.
type NetworkConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// SerialConfig configures a serial printer.
type SerialConfig struct {
	Device   string `mapstructure:"device"`
	BaudRate int    `mapstructure:"baud_rate"`
}

// USBConfig configures a USB printer. IDs are hex strings ("04b8").
type USBConfig struct {
	VendorID  string `mapstructure:"vendor_id"`
	ProductID string `mapstructure:"product_id"`
}

// RenderConfig holds the raster and barcode encoding defaults.
type RenderConfig struct {
	MaxWidthDots int           `mapstructure:"max_width_dots"`
	DitherMode   string        `mapstructure:"dither_mode"`
	Threshold    int           `mapstructure:"threshold"`
	LineSkip     int           `mapstructure:"line_skip"`
	Barcode      BarcodeConfig `mapstructure:"barcode"`
}

// BarcodeConfig holds barcode framing defaults.
type BarcodeConfig struct {
	HeightDots  int    `mapstructure:"height_dots"`
	ModuleWidth int    `mapstructure:"module_width"`
	HRIPosition string `mapstructure:"hri_position"`
	HRIFont     string `mapstructure:"hri_font"`
	FeedLines   int    `mapstructure:"feed_lines"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from the given file (or the standard search
// paths when path is empty) and from POSPRINT_* environment variables.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/posprint")
	}

	viper.SetEnvPrefix("POSPRINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	viper.SetDefault("printer.transport", "none")
	viper.SetDefault("printer.network.host", "192.168.1.100")
	viper.SetDefault("printer.network.port", 9100)
	viper.SetDefault("printer.network.dial_timeout", "5s")
	viper.SetDefault("printer.serial.device", "/dev/ttyUSB0")
	viper.SetDefault("printer.serial.baud_rate", 9600)
	viper.SetDefault("printer.usb.vendor_id", "04b8")
	viper.SetDefault("printer.usb.product_id", "0202")

	viper.SetDefault("render.max_width_dots", 384)
	viper.SetDefault("render.dither_mode", "dither")
	viper.SetDefault("render.threshold", 128)
	viper.SetDefault("render.line_skip", 2)
	viper.SetDefault("render.barcode.height_dots", 162)
	viper.SetDefault("render.barcode.module_width", 3)
	viper.SetDefault("render.barcode.hri_position", "none")
	viper.SetDefault("render.barcode.hri_font", "a")
	viper.SetDefault("render.barcode.feed_lines", 2)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	switch config.Printer.Transport {
	case "none", "network", "serial", "usb":
	default:
		return fmt.Errorf("printer.transport must be one of: none, network, serial, usb")
	}

	switch config.Render.DitherMode {
	case "threshold", "dither", "fast":
	default:
		return fmt.Errorf("render.dither_mode must be one of: threshold, dither, fast")
	}

	if config.Render.MaxWidthDots <= 0 {
		return fmt.Errorf("render.max_width_dots must be positive")
	}
	if config.Render.Threshold < 1 || config.Render.Threshold > 255 {
		return fmt.Errorf("render.threshold must be between 1 and 255")
	}
	if config.Render.LineSkip < 1 {
		return fmt.Errorf("render.line_skip must be at least 1")
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetServerAddr returns the HTTP listen address.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// RasterOptions maps the render section onto encoder options.
func (c *Config) RasterOptions() raster.Options {
	opts := raster.Options{
		MaxWidthDots: c.Render.MaxWidthDots,
		Threshold:    c.Render.Threshold,
		LineSkip:     c.Render.LineSkip,
	}
	switch c.Render.DitherMode {
	case "threshold":
		opts.Mode = raster.ModeThreshold
	case "fast":
		opts.Mode = raster.ModeFast
	default:
		opts.Mode = raster.ModeDither
	}
	return opts
}

// BarcodeOptions maps the barcode section onto encoder options.
func (c *Config) BarcodeOptions() barcode.Options {
	return barcode.Options{
		HeightDots:  c.Render.Barcode.HeightDots,
		ModuleWidth: c.Render.Barcode.ModuleWidth,
		HRIPosition: barcode.ParseHRIPosition(c.Render.Barcode.HRIPosition),
		HRIFont:     barcode.ParseHRIFont(c.Render.Barcode.HRIFont),
		FeedLines:   c.Render.Barcode.FeedLines,
	}
}
