package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/valerio/go-dotmatrix/dotmatrix/backend"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// terminals send no key-up events, a key counts as held until it stops repeating
	keyTimeout = 100 * time.Millisecond

	logCapacity = 100
)

var errNotTerminal = errors.New("stdout is not a terminal")

// Backend renders frames with tcell using half-block characters, two pixel
// rows per cell, next to a pane with the most recent log lines.
type Backend struct {
	screen    tcell.Screen
	config    backend.Config
	logBuffer *logBuffer
	prevLog   *slog.Logger
	signals   chan os.Signal
	quit      bool

	lastSeen map[joypad.Key]time.Time
	held     map[joypad.Key]bool
	now      func() time.Time
}

// New creates a terminal backend drawing to the process's terminal.
func New() *Backend {
	return &Backend{now: time.Now}
}

// NewWithScreen creates a backend on an existing screen, skipping the TTY check.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, now: time.Now}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.lastSeen = make(map[joypad.Key]time.Time)
	t.held = make(map[joypad.Key]bool)

	if t.screen == nil {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return &backend.DeviceError{Device: "terminal", Err: errNotTerminal}
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			return &backend.DeviceError{Device: "terminal", Err: err}
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return &backend.DeviceError{Device: "terminal", Err: err}
	}

	t.logBuffer = newLogBuffer(logCapacity)
	t.prevLog = slog.Default()
	slog.SetDefault(slog.New(&logHandler{buffer: t.logBuffer, level: slog.LevelDebug}))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update polls input, releases keys that stopped repeating and draws the frame.
func (t *Backend) Update(frame *video.FrameBuffer) (bool, error) {
	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.quit = true
	default:
	}

	now := t.now()
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	t.updateHeldKeys(now)

	if t.quit {
		return true, nil
	}

	t.render(frame)
	t.screen.Show()
	return false, nil
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
	// the log pane is gone, later records go back to the host's handler
	if t.prevLog != nil {
		slog.SetDefault(t.prevLog)
		t.prevLog = nil
	}
	return nil
}

func (t *Backend) processKey(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return
	case tcell.KeyRune:
		if key, ok := runeMapping[ev.Rune()]; ok {
			t.touch(key, now)
			return
		}
		t.processMixerKey(ev.Rune())
		return
	}

	if key, ok := keyMapping[ev.Key()]; ok {
		t.touch(key, now)
	}
}

// touch records a key as seen. A new direction replaces any held one, as
// terminals only repeat the last key.
func (t *Backend) touch(key joypad.Key, now time.Time) {
	if isDirection(key) {
		for k := range t.lastSeen {
			if k != key && isDirection(k) {
				delete(t.lastSeen, k)
			}
		}
	}
	t.lastSeen[key] = now
}

func (t *Backend) updateHeldKeys(now time.Time) {
	for key, seen := range t.lastSeen {
		if now.Sub(seen) >= keyTimeout {
			delete(t.lastSeen, key)
			continue
		}
		if !t.held[key] {
			t.held[key] = true
			slog.Debug("Key press", "key", key)
			t.config.Key(key, true)
		}
	}
	for key := range t.held {
		if _, ok := t.lastSeen[key]; !ok {
			delete(t.held, key)
			slog.Debug("Key release", "key", key)
			t.config.Key(key, false)
		}
	}
}

// processMixerKey handles 1-3 to toggle a voice, shift+1-3 to solo it and 0 to unmute all.
func (t *Backend) processMixerKey(r rune) {
	mixer := t.config.Mixer
	if mixer == nil {
		return
	}

	switch r {
	case '1', '2', '3':
		mixer.ToggleVoice(int(r - '1'))
	case '!':
		mixer.SoloVoice(0)
	case '@':
		mixer.SoloVoice(1)
	case '#':
		mixer.SoloVoice(2)
	case '0':
		mixer.UnmuteAll()
	default:
		return
	}
	slog.Info("Voices", "active", mixer.VoiceStatus())
}

func (t *Backend) render(frame *video.FrameBuffer) {
	t.screen.Clear()
	termWidth, termHeight := t.screen.Size()

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	t.drawText(1, 0, termWidth, fmt.Sprintf(" %s ", t.config.Title), titleStyle)
	t.drawGameBoy(frame)

	dividerX := width + 1
	if dividerX >= termWidth {
		return
	}
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := range termHeight {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}
	t.drawLogs(dividerX+2, termWidth, termHeight)
}

func (t *Backend) drawGameBoy(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	for y := 0; y < height; y += 2 {
		for x := range width {
			top := pixelToShade(pixels[y*width+x])
			bottom := white
			if y+1 < height {
				bottom = pixelToShade(pixels[(y+1)*width+x])
			}
			ch, style := halfBlock(top, bottom)
			t.screen.SetContent(x, y/2+1, ch, nil, style)
		}
	}
}

func (t *Backend) drawLogs(startX, termWidth, termHeight int) {
	styles := map[slog.Level]tcell.Style{
		slog.LevelDebug: tcell.StyleDefault.Foreground(tcell.ColorGray),
		slog.LevelInfo:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		slog.LevelWarn:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
		slog.LevelError: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}

	for i, entry := range t.logBuffer.recent(termHeight - 1) {
		t.drawText(startX, i+1, termWidth, entry.String(), styles[entry.level])
	}
}

// drawText writes s from (x, y), clipped at maxX.
func (t *Backend) drawText(x, y, maxX int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= maxX {
			return
		}
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
