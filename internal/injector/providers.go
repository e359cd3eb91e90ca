package injector

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"
	"github.com/gopxl/beep"

	"github.com/zeusync/matix/internal/audio"
	"github.com/zeusync/matix/internal/config"
	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
	"github.com/zeusync/matix/internal/game"
	"github.com/zeusync/matix/internal/render/minimap"
	"github.com/zeusync/matix/internal/render/term"
	"github.com/zeusync/matix/internal/render/window"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBackend,
	ProvideContext,
	ProvideGame,
	ProvideBump,
	ProvideApp,
)

// Backend is the renderer chosen by configuration with its matching input and clock.
type Backend struct {
	Name     string
	Renderer render.Renderer
	Input    engine.Input
	Clock    engine.Clock
	// Window is set for the window backend, which owns the main loop.
	Window *window.Renderer
}

// DefaultTermLog receives the logs of terminal runs, which own stdout.
const DefaultTermLog = "matix.log"

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	lc := cfg.Log.Logger()
	if cfg.Render.Backend == config.BackendTerm && len(lc.Output) == 0 {
		lc.Output = []string{DefaultTermLog}
	}
	l, err := log.New(lc)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

// newScreen is replaced in tests.
var newScreen = tcell.NewScreen

func ProvideBackend(cfg *config.Config, l *log.Logger) (*Backend, error) {
	b := &Backend{Name: cfg.Render.Backend}

	switch cfg.Render.Backend {
	case config.BackendTerm:
		bindings, err := term.ParseBindings(cfg.Render.Keys)
		if err != nil {
			return nil, err
		}
		screen, err := newScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		r, err := term.New(screen, l, term.WithTitle(cfg.Render.Title))
		if err != nil {
			return nil, err
		}
		in := term.NewInput(bindings, l)
		in.OnEvent(r.HandleEvent)
		in.Listen(screen, r.Done())
		b.Renderer, b.Input, b.Clock = r, in, engine.NewFrameClock()

	case config.BackendWindow:
		bindings, err := window.ParseBindings(cfg.Render.Keys)
		if err != nil {
			return nil, err
		}
		w := window.New(l,
			window.WithTitle(cfg.Render.Title),
			window.WithSize(cfg.Render.Width, cfg.Render.Height),
		)
		b.Renderer, b.Input, b.Clock, b.Window = w, window.NewInput(bindings), window.Clock(), w

	default:
		b.Renderer, b.Input, b.Clock = render.NewNop(), engine.NewKeyState(), engine.NewFrameClock()
	}

	if cfg.Engine.FixedStep > 0 {
		b.Clock = engine.NewFixedClock(cfg.Engine.FixedStep)
	}
	return b, nil
}

func ProvideContext(cfg *config.Config, l *log.Logger, b *Backend) *engine.Context {
	return engine.NewContext(l,
		engine.WithRenderer(b.Renderer),
		engine.WithGravity(cfg.Engine.Gravity),
	)
}

// ProvideGame builds the game and populates it from configuration. The
// cleanup destroys every scene and closes the renderer.
func ProvideGame(cfg *config.Config, ctx *engine.Context, b *Backend) (*game.Game, func()) {
	opts := []game.Option{
		game.WithClock(b.Clock),
		game.WithInput(b.Input),
		game.WithMaxFPS(cfg.Engine.MaxFPS),
		game.WithFrameLimit(cfg.Engine.Frames),
	}
	if cfg.Minimap.Path != "" {
		opts = append(opts, game.OnMapLoaded(minimap.NewWriter(ctx, cfg.Minimap.Path, cfg.Minimap.CellPixel).Write))
	}

	g := game.New(ctx, opts...)
	g.Populate(cfg)
	return g, func() {
		if err := g.Destroy(); err != nil {
			ctx.Log.Warn("renderer did not close cleanly", log.Error(err))
		}
	}
}

// newPlayer opens the audio device; tests replace it.
var newPlayer = defaultPlayer

func defaultPlayer(rate int) (audio.Player, error) {
	if err := audio.InitSpeaker(beep.SampleRate(rate)); err != nil {
		return nil, err
	}
	return audio.Speaker{}, nil
}

// ProvideBump returns nil when audio is disabled. A missing audio device is
// a warning, not a start-up failure.
func ProvideBump(cfg *config.Config, ctx *engine.Context) (*audio.Bump, func(), error) {
	if !cfg.Audio.Enabled {
		return nil, func() {}, nil
	}
	player, err := newPlayer(cfg.Audio.SampleRate)
	if err != nil {
		ctx.Log.Warn("audio disabled", log.Error(err))
		return nil, func() {}, nil
	}

	b := audio.NewBump(ctx, audio.Options{
		SampleRate: cfg.Audio.SampleRate,
		Frequency:  cfg.Audio.Frequency,
		Duration:   cfg.Audio.Duration,
		Cooldown:   cfg.Audio.Cooldown,
	}, player)
	if err := b.Listen(ctx); err != nil {
		return nil, nil, err
	}
	return b, func() { _ = b.Close() }, nil
}

func ProvideApp(l *log.Logger, b *Backend, g *game.Game, bump *audio.Bump) *App {
	return &App{Log: l, Backend: b, Game: g, Bump: bump}
}
