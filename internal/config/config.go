package config

import "runtime"

// Core configuration constants that define the boundaries and defaults
// for a render session.
const (
	// Default values for the render session
	DefaultLogLevel     = "info"
	DefaultSampleRate   = 44100     // CD-quality audio
	DefaultBlockSize    = 1024      // Frames per processing call
	DefaultTotalBlocks  = 500       // ~11.6s at 44.1kHz
	DefaultTickInterval = 10        // Blocks between note events
	DefaultChannel      = 0         // MIDI channel 1
	DefaultVelocity     = 90        // Note-on velocity
	DefaultOutputFile   = "out.wav" // Overwritten on every run
	DefaultChannels     = 2         // Stereo output
	DefaultInputs       = 0         // Instruments take no audio input
	DefaultOutputs      = 2         // Stereo instrument
	DefaultHostID       = 0
	DefaultVendor       = "Hello"
	DefaultProduct      = "World"

	// BuiltinSine selects the built-in sine instrument instead of a binary plugin.
	BuiltinSine = "builtin:sine"

	// Hardware and processing limits
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames = 8192   // Maximum frames per block
	BitDepth        = 16     // Output samples are signed 16-bit PCM
)

// DefaultPitches is the D major scale played by the reference session.
var DefaultPitches = []int{74, 76, 78, 79, 81, 83, 85, 86}

// DefaultPluginPath returns the plugin loaded when no path is given.
func DefaultPluginPath() string {
	switch runtime.GOOS {
	case "windows":
		return `D:\Program Files\Common Files\VST2\Pianoteq 5 (64-bit).dll`
	case "darwin":
		return "/Library/Audio/Plug-Ins/VST/Pianoteq 5.vst"
	default:
		return "/usr/lib/vst/Pianoteq 5.so"
	}
}

// Config holds all runtime configuration options for a render session.
// It is constructed from defaults, an optional YAML file and the command line.
type Config struct {
	LogLevel string       `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	Plugin   PluginConfig `yaml:"plugin"`    // Plugin selection and host identity.
	Render   RenderConfig `yaml:"render"`    // Block loop settings.
	Notes    NotesConfig  `yaml:"notes"`     // The note sequence driven into the plugin.
	Output   OutputConfig `yaml:"output"`    // WAV output settings.
}

// PluginConfig holds settings related to the hosted plugin.
type PluginConfig struct {
	Path    string `yaml:"path"`    // Plugin binary path, or "builtin:sine".
	Inputs  int    `yaml:"inputs"`  // Audio inputs the plugin is driven with.
	Outputs int    `yaml:"outputs"` // Audio outputs the plugin renders into.
	ID      int    `yaml:"host_id"` // Host identification answered to the plugin.
	Vendor  string `yaml:"vendor"`  // Host vendor string.
	Product string `yaml:"product"` // Host product string.
}

// RenderConfig holds settings for the render loop.
type RenderConfig struct {
	SampleRate   int `yaml:"sample_rate"`   // Sample rate in Hz, passed to the plugin and the WAV header.
	BlockSize    int `yaml:"block_size"`    // Frames per processing call.
	TotalBlocks  int `yaml:"total_blocks"`  // Blocks rendered in the session.
	TickInterval int `yaml:"tick_interval"` // Blocks between scheduled note events.
}

// NotesConfig holds the note sequence settings.
type NotesConfig struct {
	Channel  int    `yaml:"channel"`  // MIDI channel (0-15).
	Velocity int    `yaml:"velocity"` // Note-on velocity (0-127).
	Pitches  []int  `yaml:"pitches"`  // Ordered pitches (0-127).
	SMFFile  string `yaml:"smf_file"` // Optional Standard MIDI File providing the pitches instead.
}

// OutputConfig holds settings related to the rendered file.
type OutputConfig struct {
	Path     string `yaml:"path"`     // Output WAV path.
	Channels int    `yaml:"channels"` // Channels written to the WAV file.
}

// NewConfig creates a new Config instance with default values.
// This is used as the base configuration before applying a config
// file or command line arguments.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Plugin: PluginConfig{
			Path:    DefaultPluginPath(),
			Inputs:  DefaultInputs,
			Outputs: DefaultOutputs,
			ID:      DefaultHostID,
			Vendor:  DefaultVendor,
			Product: DefaultProduct,
		},
		Render: RenderConfig{
			SampleRate:   DefaultSampleRate,
			BlockSize:    DefaultBlockSize,
			TotalBlocks:  DefaultTotalBlocks,
			TickInterval: DefaultTickInterval,
		},
		Notes: NotesConfig{
			Channel:  DefaultChannel,
			Velocity: DefaultVelocity,
			Pitches:  append([]int(nil), DefaultPitches...),
		},
		Output: OutputConfig{
			Path:     DefaultOutputFile,
			Channels: DefaultChannels,
		},
	}
}
