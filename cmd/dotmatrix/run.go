package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-dotmatrix/dotmatrix"
	"github.com/valerio/go-dotmatrix/dotmatrix/audio/sink"
	"github.com/valerio/go-dotmatrix/dotmatrix/backend"
	"github.com/valerio/go-dotmatrix/dotmatrix/backend/headless"
	"github.com/valerio/go-dotmatrix/dotmatrix/backend/terminal"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
	"github.com/valerio/go-dotmatrix/dotmatrix/timing"
)

const defaultSampleRate = 44100

type options struct {
	romPath     string
	bootROMPath string

	headless         bool
	frames           int
	snapshotInterval int
	snapshotDir      string

	wavPath    string
	audio      bool
	sampleRate int

	serialOut string
}

func run(opts options) (err error) {
	if opts.headless && opts.frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	var emuOpts []dotmatrix.Option
	if opts.bootROMPath != "" {
		boot, err := memory.LoadBootROM(opts.bootROMPath)
		if err != nil {
			return err
		}
		slog.Info("Loaded boot ROM", "path", opts.bootROMPath, "bytes", len(boot))
		emuOpts = append(emuOpts, dotmatrix.WithBootROM(boot))
	}
	if opts.serialOut != "" {
		f, err := os.Create(opts.serialOut)
		if err != nil {
			return fmt.Errorf("opening serial output: %w", err)
		}
		defer f.Close()
		emuOpts = append(emuOpts, dotmatrix.WithSerialWriter(f))
	}
	if opts.wavPath != "" || opts.audio {
		if opts.sampleRate <= 0 {
			return fmt.Errorf("invalid sample rate %d", opts.sampleRate)
		}
		emuOpts = append(emuOpts, dotmatrix.WithSampleRate(opts.sampleRate))
	}

	emu, err := dotmatrix.NewWithFile(opts.romPath, emuOpts...)
	if err != nil {
		return err
	}
	defer emu.Flush()

	sinks, err := openSinks(opts)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sinks {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	be, err := newBackend(opts)
	if err != nil {
		return err
	}
	config := backend.Config{
		Title: emu.Cartridge().Title,
		OnKey: func(key joypad.Key, pressed bool) {
			if pressed {
				emu.Press(key)
			} else {
				emu.Release(key)
			}
		},
		Mixer: emu.APU(),
	}
	if err := be.Init(config); err != nil {
		return err
	}
	defer be.Cleanup()

	if !opts.headless {
		emu.SetFrameLimiter(timing.NewRealtimeLimiter())
	}

	return loop(emu, be, sinks)
}

func loop(emu *dotmatrix.DMG, be backend.Backend, sinks []sink.Sink) error {
	for {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		samples := emu.DrainSamples()
		for _, s := range sinks {
			if err := s.WriteSamples(samples); err != nil {
				return &backend.DeviceError{Device: "audio", Err: err}
			}
		}

		quit, err := be.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}
		if quit {
			slog.Info("Stopped", "frames", emu.Frames())
			return nil
		}
	}
}

func openSinks(opts options) ([]sink.Sink, error) {
	var sinks []sink.Sink
	if opts.wavPath != "" {
		rec, err := sink.CreateWavFile(opts.wavPath, opts.sampleRate)
		if err != nil {
			return nil, &backend.DeviceError{Device: "wav", Err: err}
		}
		sinks = append(sinks, rec)
	}
	if opts.audio {
		player, err := sink.NewPlayer(opts.sampleRate)
		if err != nil {
			for _, s := range sinks {
				s.Close()
			}
			return nil, &backend.DeviceError{Device: "audio", Err: err}
		}
		sinks = append(sinks, player)
	}
	return sinks, nil
}

func newBackend(opts options) (backend.Backend, error) {
	if opts.headless {
		snap, err := headless.CreateSnapshotConfig(opts.snapshotInterval, opts.snapshotDir, opts.romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(opts.frames, snap), nil
	}

	return terminal.New(), nil
}
