package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/barcode"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no config file should fall back to defaults: %v", err)
	}

	if got := cfg.GetServerAddr(); got != "0.0.0.0:8080" {
		t.Errorf("server addr = %q", got)
	}
	if cfg.Printer.Transport != "none" {
		t.Errorf("default transport = %q, want none", cfg.Printer.Transport)
	}
	if cfg.Printer.Network.Port != 9100 {
		t.Errorf("default network port = %d, want 9100", cfg.Printer.Network.Port)
	}
	if cfg.Render.MaxWidthDots != 384 || cfg.Render.DitherMode != "dither" {
		t.Errorf("render defaults = %d/%q", cfg.Render.MaxWidthDots, cfg.Render.DitherMode)
	}
	if cfg.Render.Threshold != 128 || cfg.Render.LineSkip != 2 {
		t.Errorf("render defaults = threshold %d, line skip %d", cfg.Render.Threshold, cfg.Render.LineSkip)
	}
	if cfg.Render.Barcode.HeightDots != 162 || cfg.Render.Barcode.ModuleWidth != 3 || cfg.Render.Barcode.FeedLines != 2 {
		t.Errorf("barcode defaults = %+v", cfg.Render.Barcode)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" || cfg.Logging.Output != "stdout" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9000"
printer:
  transport: network
  network:
    host: 10.0.0.7
render:
  dither_mode: fast
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Server.Port)
	}
	if cfg.Printer.Transport != "network" || cfg.Printer.Network.Host != "10.0.0.7" {
		t.Errorf("printer = %+v", cfg.Printer)
	}
	if cfg.Render.DitherMode != "fast" {
		t.Errorf("dither mode = %q, want fast", cfg.Render.DitherMode)
	}
	if cfg.Render.Threshold != 128 {
		t.Errorf("unset keys should keep defaults, threshold = %d", cfg.Render.Threshold)
	}
}

func TestValidateRejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080"},
			Printer: PrinterConfig{Transport: "none"},
			Render: RenderConfig{
				MaxWidthDots: 384,
				DitherMode:   "dither",
				Threshold:    128,
				LineSkip:     2,
			},
			Logging: LoggingConfig{Level: "info"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port"},
		{"unknown transport", func(c *Config) { c.Printer.Transport = "bluetooth" }, "printer.transport"},
		{"unknown mode", func(c *Config) { c.Render.DitherMode = "ordered" }, "dither_mode"},
		{"zero width", func(c *Config) { c.Render.MaxWidthDots = 0 }, "max_width_dots"},
		{"threshold range", func(c *Config) { c.Render.Threshold = 300 }, "threshold"},
		{"line skip", func(c *Config) { c.Render.LineSkip = 0 }, "line_skip"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		err := validate(cfg)
		if err == nil {
			t.Errorf("%s: validate should fail", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error %q should mention %q", tc.name, err, tc.wantErr)
		}
	}

	if err := validate(base()); err != nil {
		t.Errorf("baseline config should validate: %v", err)
	}
}

func TestRasterOptionsMapping(t *testing.T) {
	cfg := &Config{Render: RenderConfig{MaxWidthDots: 512, DitherMode: "threshold", Threshold: 90, LineSkip: 3}}
	opts := cfg.RasterOptions()
	if opts.Mode != raster.ModeThreshold || opts.MaxWidthDots != 512 || opts.Threshold != 90 || opts.LineSkip != 3 {
		t.Errorf("mapped options = %+v", opts)
	}

	cfg.Render.DitherMode = "fast"
	if cfg.RasterOptions().Mode != raster.ModeFast {
		t.Error("fast should map to ModeFast")
	}
	cfg.Render.DitherMode = "dither"
	if cfg.RasterOptions().Mode != raster.ModeDither {
		t.Error("dither should map to ModeDither")
	}
}

func TestBarcodeOptionsMapping(t *testing.T) {
	cfg := &Config{Render: RenderConfig{Barcode: BarcodeConfig{
		HeightDots:  80,
		ModuleWidth: 4,
		HRIPosition: "below",
		HRIFont:     "B",
		FeedLines:   1,
	}}}
	opts := cfg.BarcodeOptions()
	if opts.HeightDots != 80 || opts.ModuleWidth != 4 || opts.FeedLines != 1 {
		t.Errorf("mapped options = %+v", opts)
	}
	if opts.HRIPosition != barcode.HRIBelow {
		t.Errorf("HRI position = %v, want below", opts.HRIPosition)
	}
	if opts.HRIFont != barcode.HRIFontB {
		t.Errorf("HRI font = %v, want font B", opts.HRIFont)
	}
}
