package injector

import (
	"context"

	"github.com/zeusync/matix/internal/audio"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/game"
)

// App is a fully wired game ready to run.
type App struct {
	Log     *log.Logger
	Backend *Backend
	Game    *game.Game
	Bump    *audio.Bump
}

// Run drives the game until quit, the frame limit or ctx cancellation.
// The window backend must be run from the main goroutine.
func (a *App) Run(ctx context.Context) error {
	if a.Backend.Window == nil {
		return a.Game.Run(ctx)
	}
	a.Log.Info("game started", log.String("backend", a.Backend.Name))
	err := a.Backend.Window.Run(func() bool {
		return ctx.Err() == nil && !a.Game.Done() && a.Game.Step()
	})
	if err != nil {
		return err
	}
	return ctx.Err()
}
