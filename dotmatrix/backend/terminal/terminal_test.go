package terminal

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/valerio/go-dotmatrix/dotmatrix/backend"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

var _ backend.Backend = (*Backend)(nil)

type keyEvent struct {
	key     joypad.Key
	pressed bool
}

type fakeMixer struct {
	calls []string
}

func (m *fakeMixer) ToggleVoice(i int)    { m.calls = append(m.calls, "toggle"+string(rune('0'+i))) }
func (m *fakeMixer) SoloVoice(i int)      { m.calls = append(m.calls, "solo"+string(rune('0'+i))) }
func (m *fakeMixer) UnmuteAll()           { m.calls = append(m.calls, "unmute") }
func (m *fakeMixer) VoiceStatus() [3]bool { return [3]bool{true, true, true} }

type fixture struct {
	backend *Backend
	screen  tcell.SimulationScreen
	events  []keyEvent
	clock   time.Time
	mixer   *fakeMixer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	f := &fixture{
		screen: tcell.NewSimulationScreen("UTF-8"),
		clock:  time.Unix(0, 0),
		mixer:  &fakeMixer{},
	}
	f.backend = NewWithScreen(f.screen)
	f.backend.now = func() time.Time { return f.clock }

	err := f.backend.Init(backend.Config{
		Title: "Test",
		OnKey: func(key joypad.Key, pressed bool) {
			f.events = append(f.events, keyEvent{key, pressed})
		},
		Mixer: f.mixer,
	})
	require.NoError(t, err)
	f.screen.SetSize(240, 80)
	t.Cleanup(func() { f.backend.Cleanup() })
	return f
}

func (f *fixture) update(t *testing.T) bool {
	t.Helper()
	quit, err := f.backend.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	return quit
}

func TestBackend_KeyPressAndTimeout(t *testing.T) {
	f := newFixture(t)

	f.screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	f.update(t)
	assert.ElementsMatch(t, []keyEvent{{joypad.Right, true}, {joypad.A, true}}, f.events)

	// still repeating
	f.events = nil
	f.clock = f.clock.Add(50 * time.Millisecond)
	f.screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	f.update(t)
	assert.Empty(t, f.events)

	f.clock = f.clock.Add(60 * time.Millisecond)
	f.update(t)
	assert.Equal(t, []keyEvent{{joypad.Right, false}}, f.events)

	f.events = nil
	f.clock = f.clock.Add(keyTimeout)
	f.update(t)
	assert.Equal(t, []keyEvent{{joypad.A, false}}, f.events)
}

func TestBackend_DirectionsAreExclusive(t *testing.T) {
	f := newFixture(t)

	f.screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	f.update(t)
	f.screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	f.update(t)

	assert.Equal(t, []keyEvent{
		{joypad.Up, true},
		{joypad.Left, true},
		{joypad.Up, false},
	}, f.events)
}

func TestBackend_KeyMapping(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want joypad.Key
	}{
		{tcell.KeyEnter, 0, joypad.Start},
		{tcell.KeyBackspace2, 0, joypad.Select},
		{tcell.KeyDown, 0, joypad.Down},
		{tcell.KeyRune, 'x', joypad.B},
		{tcell.KeyRune, 'w', joypad.Up},
		{tcell.KeyRune, 'd', joypad.Right},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			f := newFixture(t)
			f.screen.InjectKey(tt.key, tt.r, tcell.ModNone)
			f.update(t)
			assert.Equal(t, []keyEvent{{tt.want, true}}, f.events)
		})
	}
}

func TestBackend_Quit(t *testing.T) {
	for _, key := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		f := newFixture(t)
		assert.False(t, f.update(t))
		f.screen.InjectKey(key, 0, tcell.ModNone)
		assert.True(t, f.update(t))
	}
}

func TestBackend_MixerKeys(t *testing.T) {
	f := newFixture(t)

	for _, r := range "13@0q" {
		f.screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	f.update(t)

	assert.Equal(t, []string{"toggle0", "toggle2", "solo1", "unmute"}, f.mixer.calls)
	assert.Empty(t, f.events)
}

func TestBackend_Render(t *testing.T) {
	f := newFixture(t)

	frame := video.NewFrameBuffer()
	frame.Clear(video.WhiteColor)
	frame.SetPixel(0, 0, video.BlackColor)
	frame.SetPixel(1, 1, video.BlackColor)
	frame.SetPixel(2, 0, video.BlackColor)
	frame.SetPixel(2, 1, video.BlackColor)

	_, err := f.backend.Update(frame)
	require.NoError(t, err)

	tests := []struct {
		x    int
		want rune
	}{
		{0, '▀'},
		{1, '▄'},
		{2, '█'},
		{3, '█'},
	}
	for _, tt := range tests {
		ch, _, _, _ := f.screen.GetContent(tt.x, 1)
		assert.Equal(t, tt.want, ch, "column %d", tt.x)
	}

	ch, _, _, _ := f.screen.GetContent(width+1, 5)
	assert.Equal(t, '│', ch)
}

func TestHalfBlock(t *testing.T) {
	ch, style := halfBlock(0, 3)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, '▀', ch)
	assert.Equal(t, tcell.ColorBlack, fg)
	assert.Equal(t, tcell.ColorWhite, bg)

	ch, style = halfBlock(3, 1)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, '▄', ch)
	assert.Equal(t, tcell.ColorGray, fg)
	assert.Equal(t, tcell.ColorWhite, bg)
}

func TestPixelToShade(t *testing.T) {
	assert.Equal(t, 0, pixelToShade(uint32(video.BlackColor)))
	assert.Equal(t, 1, pixelToShade(uint32(video.DarkGreyColor)))
	assert.Equal(t, 2, pixelToShade(uint32(video.LightGreyColor)))
	assert.Equal(t, 3, pixelToShade(uint32(video.WhiteColor)))
	assert.Equal(t, 0, pixelToShade(0x12345678))
}

func TestLogBuffer(t *testing.T) {
	b := newLogBuffer(3)
	logger := slog.New(&logHandler{buffer: b, level: slog.LevelInfo}).With("component", "test")

	logger.Debug("hidden")
	for _, msg := range []string{"one", "two", "three", "four"} {
		logger.Info(msg, "n", len(msg))
	}

	recent := b.recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, "four component=test n=4", recent[0].message)
	assert.Equal(t, "two component=test n=3", recent[2].message)
	assert.Contains(t, recent[0].String(), "[INF] four")
}

func TestInit_NotATerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}

	err := New().Init(backend.Config{})
	var devErr *backend.DeviceError
	require.True(t, errors.As(err, &devErr))
	assert.Equal(t, "terminal", devErr.Device)
	assert.ErrorIs(t, err, errNotTerminal)
}

func TestCleanup_RestoresDefaultLogger(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var out bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&out, nil)))

	be := NewWithScreen(tcell.NewSimulationScreen("UTF-8"))
	require.NoError(t, be.Init(backend.Config{Title: "Test"}))

	slog.Info("shown in the log pane")
	assert.Empty(t, out.String())

	require.NoError(t, be.Cleanup())

	slog.Error("Error running emulator", "error", "boom")
	assert.Contains(t, out.String(), "Error running emulator")
	assert.NotContains(t, out.String(), "shown in the log pane")
}
