package injector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/matix/internal/audio"
	"github.com/zeusync/matix/internal/config"
	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/render/term"
	"github.com/zeusync/matix/internal/render/window"
)

type silent struct{ played int }

func (s *silent) Play(beep.Streamer) { s.played++ }

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "level0.wad")
	require.NoError(t, os.WriteFile(mapPath, []byte("3 3\n111\n101\n111\n"), 0o644))

	cfg := config.Default()
	cfg.Log.Output = []string{filepath.Join(dir, "matix.log")}
	cfg.Render.Backend = backend
	cfg.Engine.FixedStep = 0.1
	cfg.Engine.Frames = 3
	cfg.Minimap.Path = filepath.Join(dir, "minimaps")
	cfg.Parts = []config.PartConfig{{ID: "1", Texture: filepath.Join(dir, "missing"), Type: "cube"}}
	cfg.Scenes = []config.SceneConfig{{
		Name:   "level0",
		Map:    mapPath,
		Width:  3,
		Height: 3,
		Objects: []config.ObjectConfig{{
			Name:      "player",
			Type:      "player",
			Position:  []float64{1, 0, 1},
			Dynamic:   true,
			Collision: true,
		}},
	}}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestInitializeHeadlessApp(t *testing.T) {
	cfg := testConfig(t, config.BackendNone)
	cfg.Audio.Enabled = true
	player := &silent{}
	newPlayer = func(int) (audio.Player, error) { return player, nil }
	t.Cleanup(func() { newPlayer = defaultPlayer })

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &render.Nop{}, app.Backend.Renderer)
	assert.IsType(t, &engine.FixedClock{}, app.Backend.Clock)
	require.NotNil(t, app.Bump)

	s := app.Game.CurrentScene()
	require.NotNil(t, s)
	assert.Equal(t, 9, s.Len(), "eight walls and the player")

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, app.Game.Frames())

	_, err = os.Stat(filepath.Join(cfg.Minimap.Path, "level0.webp"))
	assert.NoError(t, err)
}

func TestInitializeTerminalApp(t *testing.T) {
	cfg := testConfig(t, config.BackendTerm)
	newScreen = func() (tcell.Screen, error) { return tcell.NewSimulationScreen("UTF-8"), nil }
	t.Cleanup(func() { newScreen = tcell.NewScreen })

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &term.Renderer{}, app.Backend.Renderer)
	assert.IsType(t, &term.Input{}, app.Backend.Input)
	assert.Nil(t, app.Bump)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, app.Game.Frames())
}

func TestWindowBackendIsWiredButNotOpened(t *testing.T) {
	cfg := testConfig(t, config.BackendWindow)
	cfg.Engine.FixedStep = 0

	b, err := ProvideBackend(cfg, log.NewNop())
	require.NoError(t, err)
	require.NotNil(t, b.Window)
	assert.Same(t, b.Window, b.Renderer)
	assert.IsType(t, &window.Input{}, b.Input)
	assert.InDelta(t, 1.0/60, b.Clock.Tick(0), 1e-12)
}

func TestTermLogsLeaveStdout(t *testing.T) {
	cfg := testConfig(t, config.BackendTerm)
	cfg.Log.Output = nil
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	l, cleanup, err := ProvideLogger(cfg)
	require.NoError(t, err)
	l.Info("hello")
	cleanup()

	_, err = os.Stat(DefaultTermLog)
	assert.NoError(t, err)
}

func TestBadKeyBindingFailsStartUp(t *testing.T) {
	cfg := testConfig(t, config.BackendTerm)
	cfg.Render.Keys = map[string]string{"forward": "f13"}

	_, _, err := InitializeApp(cfg)
	assert.ErrorIs(t, err, term.ErrUnknownKey)
}

func TestMissingAudioDeviceIsAWarning(t *testing.T) {
	cfg := testConfig(t, config.BackendNone)
	cfg.Audio.Enabled = true
	newPlayer = func(int) (audio.Player, error) { return nil, assert.AnError }
	t.Cleanup(func() { newPlayer = defaultPlayer })

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, app.Bump)
}
