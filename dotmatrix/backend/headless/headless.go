package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-dotmatrix/dotmatrix/backend"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

const progressInterval = 60

// Backend runs a fixed number of frames without presenting them, optionally
// saving PNG snapshots along the way.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	snapshot   SnapshotConfig
}

// SnapshotConfig controls periodic frame snapshots.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // save every N frames
	Directory string // output directory
	ROMName   string // filename prefix
}

// New creates a headless backend that quits after maxFrames frames.
// maxFrames <= 0 runs until the emulator stops.
func New(maxFrames int, snapshot SnapshotConfig) *Backend {
	return &Backend{
		maxFrames: maxFrames,
		snapshot:  snapshot,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	slog.Info("Running headless mode",
		"title", config.Title,
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshot.Interval,
		"snapshot_dir", h.snapshot.Directory)
	return nil
}

// Update counts the frame, saves a snapshot when one is due and reports quit
// once the frame budget is spent.
func (h *Backend) Update(frame *video.FrameBuffer) (bool, error) {
	h.frameCount++

	if h.snapshotDue() {
		h.saveSnapshot(frame)
	}

	if h.frameCount%progressInterval == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.maxFrames <= 0 || h.frameCount < h.maxFrames {
		return false, nil
	}

	// final frame, unless the interval just covered it
	if h.snapshot.Enabled && !h.snapshotDue() {
		h.saveSnapshot(frame)
	}

	if h.snapshot.Enabled {
		slog.Info("Headless execution completed", "frames", h.frameCount, "png_snapshots_saved_to", h.snapshot.Directory)
	} else {
		slog.Info("Headless execution completed", "frames", h.frameCount)
	}
	return true, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns the number of frames seen so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

// CreateSnapshotConfig builds a snapshot configuration from CLI parameters.
// An empty directory means a fresh temporary one.
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}
	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "dotmatrix-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshot.ROMName, h.frameCount)
	path := filepath.Join(h.snapshot.Directory, name)

	if err := SaveFramePNG(frame, path); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	slog.Debug("Snapshot saved", "path", path)
}

func (h *Backend) snapshotDue() bool {
	return h.snapshot.Enabled && h.snapshot.Interval > 0 && h.frameCount%h.snapshot.Interval == 0
}
