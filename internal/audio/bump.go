// Package audio plays a short tone whenever a body is stopped by an obstacle.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/events/bus"
	"github.com/zeusync/matix/internal/core/observability/log"
)

// Player starts a streamer without blocking.
type Player interface {
	Play(s beep.Streamer)
}

// Speaker plays through the system audio device. InitSpeaker must run first.
type Speaker struct{}

func (Speaker) Play(s beep.Streamer) { speaker.Play(s) }

// InitSpeaker opens the audio device with a 100ms buffer.
func InitSpeaker(rate beep.SampleRate) error {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	return nil
}

type Options struct {
	SampleRate int
	Frequency  float64
	Duration   time.Duration
	// Cooldown is the minimum time between two bumps.
	Cooldown time.Duration
}

// Bump turns physics.blocked events into a short sine beep.
type Bump struct {
	opts   Options
	rate   beep.SampleRate
	player Player
	log    log.Log
	now    func() time.Time

	last   time.Time
	played int
	sub    bus.Subscription
}

func NewBump(ctx *engine.Context, opts Options, player Player) *Bump {
	return &Bump{
		opts:   opts,
		rate:   beep.SampleRate(opts.SampleRate),
		player: player,
		log:    ctx.Log.Named("audio"),
		now:    time.Now,
	}
}

// Listen subscribes to blocked movement on the context bus.
func (b *Bump) Listen(ctx *engine.Context) error {
	sub, err := ctx.Bus.Subscribe(engine.EventBlocked, b.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", engine.EventBlocked, err)
	}
	b.sub = sub
	return nil
}

// Close stops listening. Sounds already started keep playing.
func (b *Bump) Close() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Cancel()
}

// Played is the number of bumps started so far.
func (b *Bump) Played() int { return b.played }

func (b *Bump) handle(ev bus.Event) error {
	now := b.now()
	if b.played > 0 && now.Sub(b.last) < b.opts.Cooldown {
		return nil
	}
	tone, err := b.Tone()
	if err != nil {
		return err
	}
	b.last = now
	b.played++
	b.player.Play(tone)

	if blocked, ok := ev.Data().(engine.Blocked); ok {
		b.log.Debug("bump",
			log.String("body", blocked.Body),
			log.String("obstacle", blocked.Obstacle),
			log.String("axis", blocked.Axis.String()),
		)
	}
	return nil
}

// Tone is a finite sine of the configured frequency and duration at half volume.
func (b *Bump) Tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(b.rate, b.opts.Frequency)
	if err != nil {
		return nil, fmt.Errorf("bump tone: %w", err)
	}
	return &effects.Volume{
		Streamer: beep.Take(b.rate.N(b.opts.Duration), sine),
		Base:     2,
		Volume:   -1,
	}, nil
}
