package main

import (
	"os"

	"vsthost/cmd"
	"vsthost/internal/audio"
	"vsthost/internal/config"
	"vsthost/internal/log"
	"vsthost/internal/midi"
	"vsthost/internal/synth"
	"vsthost/internal/vst"
	"vsthost/pkg/build"
)

// main is the entry point for the plugin host.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and config.yaml
//   - Build the note sequence and its scheduler
//   - Load and instantiate the plugin
//
// 2. Render Phase (Hot Path):
//   - Open the output stream
//   - Deliver scheduled events and process every block
//   - Encode each block as it is rendered
//
// 3. Shutdown Phase (Cold Path):
//   - Finalize the output stream
//   - Tear the plugin down
//   - Report the session
//
// Any failure is fatal: it is logged and the process exits non-zero.
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	// Development builds run without ldflags and keep the defaults.
	if err := build.Initialize(); err != nil {
		log.Debugf("Build info: %v", err)
	}

	cfg, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg == nil {
		return
	}
	defer log.Sync()

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, using %s", cfg.LogLevel, log.GetLevel())
	}
	log.Infof("%s", build.GetBuildFlags())

	scale, err := loadScale(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	scheduler, err := midi.NewScheduler(scale, cfg.Render.TickInterval)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("Playing %d notes %v every %d blocks", scheduler.Len(), scale.Pitches(), scheduler.Interval())

	plugin, err := openPlugin(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The engine owns the plugin from here on, including on failure.
	engine, err := audio.NewEngine(cfg, plugin, scheduler)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// ==================== RENDER PHASE (Hot Path) ====================

	if err := engine.StartRecording(cfg.Output.Path); err != nil {
		engine.Close()
		log.Fatalf("%v", err)
	}

	report, err := engine.Run(cfg.Render.TotalBlocks)
	if err != nil {
		engine.Close()
		log.Fatalf("Render aborted: %v", err)
	}

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := engine.Close(); err != nil {
		log.Fatalf("%v", err)
	}

	log.Infof("Rendered %d blocks (%d frames, %d events) to %s",
		report.Blocks, report.Frames, report.Events, cfg.Output.Path)
	log.Infof("Output peak %.3f, RMS %.3f, dominant frequency %.1f Hz",
		report.Output.Peak, report.Output.RMS, report.Output.DominantHz)
}

// loadScale builds the note sequence from the configured SMF file, or from
// the configured pitches when no file is set.
func loadScale(cfg *config.Config) (midi.Scale, error) {
	channel, velocity := uint8(cfg.Notes.Channel), uint8(cfg.Notes.Velocity)
	if cfg.Notes.SMFFile == "" {
		return midi.NewScale(channel, velocity, cfg.Notes.Pitches), nil
	}

	scale, err := midi.LoadScaleFile(cfg.Notes.SMFFile)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d notes from %s", len(scale), cfg.Notes.SMFFile)
	return scale, nil
}

// openPlugin returns the built-in instrument or loads the configured VST2
// binary.
func openPlugin(cfg *config.Config) (audio.Plugin, error) {
	if cfg.IsBuiltin() {
		log.Infof("Using built-in sine instrument")
		return synth.NewSine(), nil
	}

	loader, err := vst.Load(cfg.Plugin.Path, vst.NewCallback(cfg))
	if err != nil {
		return nil, err
	}
	plugin, err := loader.Instance(cfg.Plugin.Inputs, cfg.Plugin.Outputs)
	if err != nil {
		loader.Close()
		return nil, err
	}
	return plugin, nil
}
