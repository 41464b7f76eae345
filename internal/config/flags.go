package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command line overrides. Only flags that were set on the
// command line override values from the config file.
type Flags struct {
	fs *pflag.FlagSet

	configPath  string
	source      string
	device      int
	deviceID    string
	input       string
	width       int
	height      int
	frames      uint64
	display     string
	seed        int64
	debug       bool
	logFormat   string
	listStages  bool
	listDevices bool
}

func NewFlags(name string) *Flags {
	f := &Flags{fs: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	fs := f.fs

	fs.StringVarP(&f.configPath, "config", "c", "", "configuration file (.toml, .yaml)")
	fs.StringVar(&f.source, "source", "", "capture source: device, file, images, pattern, mediadevices")
	fs.IntVar(&f.device, "device", 0, "OpenCV camera index")
	fs.StringVar(&f.deviceID, "device-id", "", "camera ID for the mediadevices source")
	fs.StringVarP(&f.input, "input", "i", "", "video file or image glob for the file/images sources")
	fs.IntVar(&f.width, "width", 0, "requested frame width")
	fs.IntVar(&f.height, "height", 0, "requested frame height")
	fs.Uint64Var(&f.frames, "frames", 0, "stop after this many frames (0 = until the source ends)")
	fs.StringVar(&f.display, "display", "", "display backend: highgui, fyne, none")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for the translate effect (0 = random)")
	fs.BoolVar(&f.debug, "debug", false, "enable debug mode with verbose logging")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	fs.BoolVar(&f.listStages, "list-stages", false, "list the available stage kinds and exit")
	fs.BoolVar(&f.listDevices, "list-devices", false, "list cameras for the mediadevices source and exit")

	return f
}

// FlagSet exposes the underlying flag set, e.g. for usage output
func (f *Flags) FlagSet() *pflag.FlagSet {
	return f.fs
}

func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// ListStages reports whether --list-stages was given
func (f *Flags) ListStages() bool {
	return f.listStages
}

// ListDevices reports whether --list-devices was given
func (f *Flags) ListDevices() bool {
	return f.listDevices
}

// Load reads the configured file, applies the overrides and validates the result.
func (f *Flags) Load() (Config, error) {
	cfg, err := Load(f.configPath)
	if err != nil {
		return Config{}, err
	}
	f.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply copies the flags that were set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	changed := f.fs.Changed

	if changed("source") {
		cfg.Source.Kind = f.source
	}
	if changed("device") {
		cfg.Source.Device = f.device
	}
	if changed("device-id") {
		cfg.Source.DeviceID = f.deviceID
	}
	if changed("input") {
		cfg.Source.Path = f.input
	}
	if changed("width") {
		cfg.Source.Width = f.width
	}
	if changed("height") {
		cfg.Source.Height = f.height
	}
	if changed("frames") {
		cfg.Source.Frames = f.frames
	}
	if changed("display") {
		cfg.Display.Backend = f.display
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("debug") {
		cfg.Log.Debug = f.debug
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
}
