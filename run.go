package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"gbemu/emu"
)

// runMain runs a trace headless and returns the process exit code.
func runMain(args Run) int {
	cfg, err := emu.LoadConfigOrDefault(args.Config)
	checkf(err, "failed to load configuration")
	applyFlags(&cfg, args)

	tr, err := emu.LoadTrace(args.TracePath)
	checkf(err, "failed to load trace")

	session, err := emu.NewSession(cfg, tr, args.Frames)
	checkf(err, "failed to create session")

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := session.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return 1
	}

	if args.Report != nil {
		defer args.Report.Close()
		if _, err := report.WriteTo(args.Report); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			return 1
		}
	}
	return 0
}

// applyFlags overrides configuration settings with command line flags.
func applyFlags(cfg *emu.Config, args Run) {
	if args.PNGDir != "" {
		cfg.Video.PNGDir = args.PNGDir
	}
	if args.WAV != "" {
		cfg.Audio.WAVPath = args.WAV
	}
	cfg.Debug.DisableBackground = cfg.Debug.DisableBackground || args.NoBackground
	cfg.Debug.DisableWindow = cfg.Debug.DisableWindow || args.NoWindow
	cfg.Debug.DisableSprites = cfg.Debug.DisableSprites || args.NoSprites
}
