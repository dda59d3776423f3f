package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A cycle-stepped DMG emulator"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a 256 byte boot ROM image (default: start from the post-boot state)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "wav",
			Usage: "Record audio to this WAV file",
		},
		cli.BoolFlag{
			Name:  "audio",
			Usage: "Play audio on the default output device",
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Audio sample rate in Hz",
			Value: defaultSampleRate,
		},
		cli.StringFlag{
			Name:  "serial-out",
			Usage: "Write bytes sent over the serial port to this file",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	opts := options{
		romPath:          c.String("rom"),
		bootROMPath:      c.String("boot-rom"),
		headless:         c.Bool("headless"),
		frames:           c.Int("frames"),
		snapshotInterval: c.Int("snapshot-interval"),
		snapshotDir:      c.String("snapshot-dir"),
		wavPath:          c.String("wav"),
		audio:            c.Bool("audio"),
		sampleRate:       c.Int("sample-rate"),
		serialOut:        c.String("serial-out"),
	}
	if opts.romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		opts.romPath = c.Args().Get(0)
	}

	if opts.headless {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	return run(opts)
}
